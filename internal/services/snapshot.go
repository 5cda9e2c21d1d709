package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"w8/internal/domain"
)

const DefaultOutputDir = ".w8-out"

type SnapshotFormat string

const (
	FormatJSON SnapshotFormat = "json"
	FormatYAML SnapshotFormat = "yaml"
)

// ParseSnapshotFormat falls back to JSON for anything it does not know.
func ParseSnapshotFormat(value string) SnapshotFormat {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SnapshotWriter persists a weighted tree as <unix-seconds>.<format> under
// Dir. Clock decides the name so that runs stay reproducible in tests.
type SnapshotWriter struct {
	Dir    string
	Format SnapshotFormat
	Clock  func() time.Time
}

func NewSnapshotWriter(dir string, format SnapshotFormat) *SnapshotWriter {
	if dir == "" {
		dir = DefaultOutputDir
	}
	return &SnapshotWriter{Dir: dir, Format: format, Clock: time.Now}
}

func (writer *SnapshotWriter) Write(tree domain.DirectoryNode) (string, error) {
	data, err := encodeSnapshot(tree, writer.Format)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	// MkdirAll treats an existing directory as success.
	if err := os.MkdirAll(writer.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", writer.Dir, err)
	}
	clock := writer.Clock
	if clock == nil {
		clock = time.Now
	}
	name := strconv.FormatInt(clock().Unix(), 10) + "." + string(writer.format())
	path := filepath.Join(writer.Dir, name)
	// Snapshots are never overwritten; a second run within the same
	// second fails instead.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("write snapshot %s: %w", path, ErrSnapshotTaken)
		}
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}

func (writer *SnapshotWriter) format() SnapshotFormat {
	if writer.Format == FormatYAML {
		return FormatYAML
	}
	return FormatJSON
}

func encodeSnapshot(tree domain.DirectoryNode, format SnapshotFormat) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(tree)
	}
	return json.MarshalIndent(withEmptyLists(tree), "", "  ")
}

// withEmptyLists swaps nil slices for empty ones so JSON renders [] rather
// than null.
func withEmptyLists(node domain.DirectoryNode) domain.DirectoryNode {
	if node.Files == nil {
		node.Files = []domain.FileRecord{}
	}
	subdirectories := make([]domain.DirectoryNode, len(node.Subdirectories))
	for i, sub := range node.Subdirectories {
		subdirectories[i] = withEmptyLists(sub)
	}
	node.Subdirectories = subdirectories
	return node
}

// LoadSnapshot reads a snapshot back, choosing the decoder by extension.
func LoadSnapshot(path string) (domain.DirectoryNode, error) {
	var tree domain.DirectoryNode
	data, err := os.ReadFile(path)
	if err != nil {
		return tree, fmt.Errorf("read snapshot: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		err = json.Unmarshal(data, &tree)
	}
	if err != nil {
		return tree, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return tree, nil
}

// LatestSnapshot returns the snapshot in dir with the highest timestamp.
func LatestSnapshot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", dir, ErrNoSnapshot)
		}
		return "", err
	}
	var latest string
	var latestStamp int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, ok := snapshotStamp(entry.Name())
		if !ok || stamp < latestStamp {
			continue
		}
		latest = entry.Name()
		latestStamp = stamp
	}
	if latest == "" {
		return "", fmt.Errorf("%s: %w", dir, ErrNoSnapshot)
	}
	return filepath.Join(dir, latest), nil
}

func snapshotStamp(name string) (int64, bool) {
	ext := filepath.Ext(name)
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return 0, false
	}
	stamp, err := strconv.ParseInt(strings.TrimSuffix(name, ext), 10, 64)
	if err != nil {
		return 0, false
	}
	return stamp, true
}
