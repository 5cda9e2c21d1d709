package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"w8/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func findSubdir(node domain.DirectoryNode, name string) (domain.DirectoryNode, bool) {
	for _, sub := range node.Subdirectories {
		if filepath.Base(sub.Path) == name {
			return sub, true
		}
	}
	return domain.DirectoryNode{}, false
}

func requireWeightedTree(t *testing.T, node domain.DirectoryNode) {
	t.Helper()
	score, lines := 0, 0
	for _, file := range node.Files {
		require.NotZero(t, file.Score, "file %s in %s", file.FileName, node.Path)
		score += file.Score
		lines += file.LineCount
	}
	for _, sub := range node.Subdirectories {
		require.NotZero(t, sub.Score, "directory %s", sub.Path)
		requireWeightedTree(t, sub)
		score += sub.Score
		lines += sub.LineCount
	}
	require.Equal(t, score, node.Score, "score of %s", node.Path)
	require.Equal(t, lines, node.LineCount, "lines of %s", node.Path)
}

type flatRecord struct {
	Dir   string
	Name  string
	Score int
	Lines int
}

func flatten(node domain.DirectoryNode) []flatRecord {
	var out []flatRecord
	for _, file := range node.Files {
		out = append(out, flatRecord{Dir: node.Path, Name: file.FileName, Score: file.Score, Lines: file.LineCount})
	}
	for _, sub := range node.Subdirectories {
		out = append(out, flatten(sub)...)
	}
	return out
}

func TestBuildTreeTwoLevelScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "FileA.java"), "for (x) {\n\n")
	writeFile(t, filepath.Join(root, "sub", "FileB.java"), "")
	writeFile(t, filepath.Join(root, "sub2", "FileC.java"), "if (b)")

	tree, err := NewTreeBuilder(nil).BuildTree(root)
	require.NoError(t, err)

	require.Equal(t, 7, tree.Score)
	require.Equal(t, 3, tree.LineCount)
	require.Len(t, tree.Files, 1)
	require.Equal(t, domain.FileRecord{FileName: "FileA.java", LineCount: 2, Score: 5}, tree.Files[0])

	_, found := findSubdir(tree, "sub")
	require.False(t, found, "zero-score directory must be pruned")
	sub2, found := findSubdir(tree, "sub2")
	require.True(t, found)
	require.Equal(t, 2, sub2.Score)
	require.Equal(t, filepath.Join(root, "sub2"), sub2.Path)
	requireWeightedTree(t, tree)
}

func TestBuildTreeSingleLineScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "Main.java"), "if (x) { for (y) { list.map(z); } }\n")

	tree, err := NewTreeBuilder(nil).BuildTree(root)
	require.NoError(t, err)
	pkg, found := findSubdir(tree, "pkg")
	require.True(t, found)
	require.Equal(t, []domain.FileRecord{{FileName: "Main.java", LineCount: 1, Score: 8}}, pkg.Files)
}

func TestBuildTreePrunesEmptyFilesAndForeignDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Empty.java"), "")
	writeFile(t, filepath.Join(root, "Kept.java"), "class Kept {}\n")
	writeFile(t, filepath.Join(root, "docs", "README.md"), "if for .map\n")
	writeFile(t, filepath.Join(root, "docs", "notes.txt"), "for for for\n")
	writeFile(t, filepath.Join(root, "web", "app.js"), "xs.map(f)\n")

	tree, err := NewTreeBuilder(nil).BuildTree(root)
	require.NoError(t, err)
	require.Empty(t, tree.Subdirectories)
	require.Equal(t, []domain.FileRecord{{FileName: "Kept.java", LineCount: 1, Score: 1}}, tree.Files)
	require.Equal(t, 1, tree.Score)
}

func TestBuildTreeExtensionIsExactAndCaseSensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Upper.JAVA"), "if (x)\n")
	writeFile(t, filepath.Join(root, ".java"), "if (x)\n")
	writeFile(t, filepath.Join(root, "Main.java.bak"), "if (x)\n")
	writeFile(t, filepath.Join(root, "Real.java"), "if (x)\n")

	tree, err := NewTreeBuilder(nil).BuildTree(root)
	require.NoError(t, err)
	require.Len(t, tree.Files, 1)
	require.Equal(t, "Real.java", tree.Files[0].FileName)
}

func TestBuildTreeCountsBlankAndCRLFLines(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Win.java"), "if (a)\r\n\r\nfor (;;)\r\n")

	tree, err := NewTreeBuilder(nil).BuildTree(root)
	require.NoError(t, err)
	require.Equal(t, []domain.FileRecord{{FileName: "Win.java", LineCount: 3, Score: 2 + 1 + 4}}, tree.Files)
}

func TestBuildTreeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "A.java"), "if (a)\nfor (b)\n")
	writeFile(t, filepath.Join(root, "a", "b", "B.java"), "xs.stream().map(f)\n")
	writeFile(t, filepath.Join(root, "a", "b", "C.java"), "x\n")
	writeFile(t, filepath.Join(root, "c", "D.java"), "ys.flatMapIterable(g)\n")

	builder := NewTreeBuilder(nil)
	first, err := builder.BuildTree(root)
	require.NoError(t, err)
	second, err := builder.BuildTree(root)
	require.NoError(t, err)

	require.Equal(t, first.Score, second.Score)
	require.Equal(t, first.LineCount, second.LineCount)
	assert.ElementsMatch(t, flatten(first), flatten(second))
	requireWeightedTree(t, first)
	requireWeightedTree(t, second)
	require.Equal(t, 4, first.FileCount())
}

func TestScanLegacyRootTotalIgnoresRootFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Root.java"), "if (x)\n")
	writeFile(t, filepath.Join(root, "sub", "Sub.java"), "for (y)\n")

	builder := NewTreeBuilder(nil)
	result, err := builder.Scan(context.Background(), ScanRequest{RootPath: root, LegacyRootTotal: true})
	require.NoError(t, err)
	require.Equal(t, 4, result.Tree.Score)
	require.Equal(t, 1, result.Tree.LineCount)
	require.Len(t, result.Tree.Files, 1, "root files stay in the tree")

	result, err = builder.Scan(context.Background(), ScanRequest{RootPath: root})
	require.NoError(t, err)
	require.Equal(t, 6, result.Tree.Score)
	require.Equal(t, 2, result.Tree.LineCount)
}

func TestScanSkipsSymlinkCycles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "A.java"), "if (x)\n")
	if err := os.Symlink(root, filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := NewTreeBuilder(nil).Scan(context.Background(), ScanRequest{RootPath: root})
	require.NoError(t, err)
	require.Equal(t, 2, result.Tree.Score)
	a, found := findSubdir(result.Tree, "a")
	require.True(t, found)
	require.Empty(t, a.Subdirectories)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, WarningSymlinkCycle, result.Warnings[0].Reason)
	require.Equal(t, filepath.Join(root, "a", "loop"), result.Warnings[0].Path)
}

func TestScanFollowsAcyclicSymlinkedDirectories(t *testing.T) {
	shared := t.TempDir()
	writeFile(t, filepath.Join(shared, "Shared.java"), "for (x)\n")
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Local.java"), "x\n")
	if err := os.Symlink(shared, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := NewTreeBuilder(nil).Scan(context.Background(), ScanRequest{RootPath: root})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Equal(t, 5, result.Tree.Score)
	_, found := findSubdir(result.Tree, "linked")
	require.True(t, found)
}

func TestScanUnreadableDirectoryPolicy(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok", "Ok.java"), "if (x)\n")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "Hidden.java"), "for (x)\n")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	builder := NewTreeBuilder(nil)
	_, err := builder.Scan(context.Background(), ScanRequest{RootPath: root})
	require.ErrorIs(t, err, os.ErrPermission)

	result, err := builder.Scan(context.Background(), ScanRequest{RootPath: root, SkipUnreadable: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.Tree.Score)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, WarningUnreadable, result.Warnings[0].Reason)
}

func TestScanNonTextFilePolicy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Good.java"), "if (x)\n")
	writeFile(t, filepath.Join(root, "Bad.java"), "ok\n\xff\xfe\n")

	builder := NewTreeBuilder(nil)
	_, err := builder.Scan(context.Background(), ScanRequest{RootPath: root})
	require.ErrorIs(t, err, ErrNotText)

	result, err := builder.Scan(context.Background(), ScanRequest{RootPath: root, SkipUnreadable: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.Tree.Score)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, filepath.Join(root, "Bad.java"), result.Warnings[0].Path)
}

func TestScanRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "Main.java")
	writeFile(t, file, "if (x)\n")

	_, err := NewTreeBuilder(nil).Scan(context.Background(), ScanRequest{RootPath: file})
	require.ErrorIs(t, err, ErrNotDirectory)

	_, err = NewTreeBuilder(nil).Scan(context.Background(), ScanRequest{RootPath: filepath.Join(root, "missing")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanStopsOnCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Main.java"), "if (x)\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTreeBuilder(nil).Scan(ctx, ScanRequest{RootPath: root})
	require.ErrorIs(t, err, context.Canceled)
}
