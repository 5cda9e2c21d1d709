package ui

import "w8/internal/services"

type scanResultMsg struct {
	result services.ScanResult
	err    error
}
