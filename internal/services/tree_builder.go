package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"w8/internal/domain"
)

// TreeBuilder walks a directory depth-first and builds its weighted tree.
// The walk is synchronous and holds at most one file descriptor at a time.
type TreeBuilder struct {
	logger    *zap.Logger
	extension string
}

func NewTreeBuilder(logger *zap.Logger) *TreeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{
		logger:    logger,
		extension: "." + domain.RecognizedExtension,
	}
}

// BuildTree scans path with the legacy fail-fast policy.
func (builder *TreeBuilder) BuildTree(path string) (domain.DirectoryNode, error) {
	result, err := builder.Scan(context.Background(), ScanRequest{RootPath: path})
	return result.Tree, err
}

func (builder *TreeBuilder) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	start := time.Now()
	root := cleanPath(req.RootPath)
	info, err := os.Stat(root)
	if err != nil {
		return ScanResult{RootPath: root}, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return ScanResult{RootPath: root}, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	walk := &treeWalk{
		ctx:            ctx,
		builder:        builder,
		skipUnreadable: req.SkipUnreadable,
		onStack:        make(map[string]struct{}),
	}
	tree, err := walk.readDirectory(root)
	if err != nil {
		return ScanResult{RootPath: root, Duration: time.Since(start), Warnings: walk.warnings}, err
	}
	if req.LegacyRootTotal {
		tree.AggregateSubdirectoriesOnly()
	}
	builder.logger.Debug("scan complete",
		zap.String("root", root),
		zap.Int("score", tree.Score),
		zap.Int("lines", tree.LineCount),
		zap.Int("warnings", len(walk.warnings)),
	)
	return ScanResult{
		RootPath: root,
		Tree:     tree,
		Duration: time.Since(start),
		Warnings: walk.warnings,
	}, nil
}

func (builder *TreeBuilder) recognized(name string) bool {
	ext := filepath.Ext(name)
	// A bare ".java" is a hidden file without an extension.
	return ext == builder.extension && len(name) > len(ext)
}

type treeWalk struct {
	ctx            context.Context
	builder        *TreeBuilder
	skipUnreadable bool
	// canonical paths of the directories on the current recursion stack
	onStack  map[string]struct{}
	warnings []ScanWarning
}

func (walk *treeWalk) readDirectory(path string) (domain.DirectoryNode, error) {
	node := domain.DirectoryNode{Path: path}

	canonical, err := canonicalPath(path)
	if err != nil {
		return node, walk.unreadable(path, fmt.Errorf("resolve %s: %w", path, err))
	}
	if _, seen := walk.onStack[canonical]; seen {
		walk.warn(path, WarningSymlinkCycle, "re-enters "+canonical)
		return node, nil
	}
	walk.onStack[canonical] = struct{}{}
	defer delete(walk.onStack, canonical)

	entries, err := listDir(path)
	if err != nil {
		return node, walk.unreadable(path, fmt.Errorf("read dir %s: %w", path, err))
	}

	for _, entry := range entries {
		if err := walk.ctx.Err(); err != nil {
			return node, err
		}
		entryPath := filepath.Join(path, entry.Name())
		mode, err := entryMode(entryPath, entry)
		if err != nil {
			if !walk.builder.recognized(entry.Name()) {
				continue
			}
			if err := walk.unreadable(entryPath, fmt.Errorf("stat %s: %w", entryPath, err)); err != nil {
				return node, err
			}
			continue
		}

		if mode.IsDir() {
			child, err := walk.readDirectory(entryPath)
			if err != nil {
				return node, err
			}
			if child.Score != 0 {
				node.Subdirectories = append(node.Subdirectories, child)
			}
			continue
		}

		// Pipes, sockets and devices are never opened.
		if !mode.IsRegular() || !walk.builder.recognized(entry.Name()) {
			continue
		}
		record, err := scoreFile(entryPath)
		if err != nil {
			if err := walk.unreadable(entryPath, err); err != nil {
				return node, err
			}
			continue
		}
		if record.Score != 0 {
			node.Files = append(node.Files, record)
		}
	}

	node.Aggregate()
	return node, nil
}

// unreadable either fails the walk or records a warning and lets the caller
// skip the entry, depending on the request policy.
func (walk *treeWalk) unreadable(path string, err error) error {
	if !walk.skipUnreadable {
		return err
	}
	walk.warn(path, WarningUnreadable, err.Error())
	return nil
}

func (walk *treeWalk) warn(path string, reason WarningReason, message string) {
	walk.warnings = append(walk.warnings, ScanWarning{Path: path, Reason: reason, Message: message})
	walk.builder.logger.Warn("skipping path",
		zap.String("path", path),
		zap.String("reason", string(reason)),
		zap.String("detail", message),
	)
}

// scoreFile reads path line by line and sums the line scores. The handle is
// released before returning.
func scoreFile(path string) (domain.FileRecord, error) {
	record := domain.FileRecord{FileName: filepath.Base(path)}
	file, err := os.Open(path)
	if err != nil {
		return record, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !utf8.ValidString(line) {
				return record, fmt.Errorf("%s line %d: %w", path, record.LineCount+1, ErrNotText)
			}
			record.LineCount++
			record.Score += ScoreLine(line)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return record, fmt.Errorf("read %s: %w", path, readErr)
		}
	}
	return record, nil
}

// listDir returns the entries in the order the directory yields them.
// os.ReadDir would sort them by name.
func listDir(path string) ([]fs.DirEntry, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()
	return dir.ReadDir(-1)
}

// entryMode follows symlinks so that a link is treated like its target.
func entryMode(path string, entry fs.DirEntry) (fs.FileMode, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Type(), nil
}

func canonicalPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func cleanPath(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Clean(path)
}
