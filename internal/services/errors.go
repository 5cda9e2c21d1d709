package services

import "errors"

var (
	ErrNotDirectory  = errors.New("scan root is not a directory")
	ErrNotText       = errors.New("file is not valid UTF-8 text")
	ErrNoSnapshot    = errors.New("no snapshot found")
	ErrSnapshotTaken = errors.New("snapshot already exists for this second")
)
