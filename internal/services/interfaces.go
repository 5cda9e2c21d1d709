package services

import (
	"context"

	"w8/internal/domain"
)

type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (ScanResult, error)
}

type SnapshotStore interface {
	Write(tree domain.DirectoryNode) (string, error)
}

type RunLedger interface {
	Record(run RunRecord) (int64, error)
	Recent(limit int) ([]RunRecord, error)
}

type ArtifactUploader interface {
	Upload(ctx context.Context, rootPath, snapshotPath string) (string, error)
}

var (
	_ Scanner          = (*TreeBuilder)(nil)
	_ Scanner          = (*MockScanner)(nil)
	_ SnapshotStore    = (*SnapshotWriter)(nil)
	_ RunLedger        = (*HistoryStore)(nil)
	_ ArtifactUploader = (*ArtifactStore)(nil)
)
