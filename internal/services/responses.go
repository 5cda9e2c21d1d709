package services

import (
	"time"

	"w8/internal/domain"
)

type WarningReason string

const (
	WarningUnreadable   WarningReason = "unreadable"
	WarningSymlinkCycle WarningReason = "symlink-cycle"
)

type ScanWarning struct {
	Path    string
	Reason  WarningReason
	Message string
}

type ScanResult struct {
	RootPath string
	Tree     domain.DirectoryNode
	Duration time.Duration
	Warnings []ScanWarning
}
