package domain

// DirectoryNode is one directory of a weighted tree. Score and LineCount are
// the totals of every surviving file and subdirectory below it.
type DirectoryNode struct {
	Path           string          `json:"path" yaml:"path"`
	Score          int             `json:"score" yaml:"score"`
	LineCount      int             `json:"text_lines" yaml:"text_lines"`
	Files          []FileRecord    `json:"files" yaml:"files"`
	Subdirectories []DirectoryNode `json:"directories" yaml:"directories"`
}

// FileRecord is a scored source file. FileName is the base name only.
type FileRecord struct {
	FileName  string `json:"file_name" yaml:"file_name"`
	LineCount int    `json:"text_lines" yaml:"text_lines"`
	Score     int    `json:"score" yaml:"score"`
}

// Aggregate recomputes Score and LineCount from the direct files and
// subdirectories. Subdirectory totals are taken as already aggregated.
func (node *DirectoryNode) Aggregate() {
	score, lines := 0, 0
	for _, file := range node.Files {
		score += file.Score
		lines += file.LineCount
	}
	for _, sub := range node.Subdirectories {
		score += sub.Score
		lines += sub.LineCount
	}
	node.Score = score
	node.LineCount = lines
}

// AggregateSubdirectoriesOnly sums the direct subdirectories and ignores the
// node's own files. This is how the legacy driver totals the scan root.
func (node *DirectoryNode) AggregateSubdirectoriesOnly() {
	score, lines := 0, 0
	for _, sub := range node.Subdirectories {
		score += sub.Score
		lines += sub.LineCount
	}
	node.Score = score
	node.LineCount = lines
}

// FileCount counts the FileRecords in the whole subtree.
func (node DirectoryNode) FileCount() int {
	total := len(node.Files)
	for _, sub := range node.Subdirectories {
		total += sub.FileCount()
	}
	return total
}

// DirCount counts the descendant directories, the node itself excluded.
func (node DirectoryNode) DirCount() int {
	total := len(node.Subdirectories)
	for _, sub := range node.Subdirectories {
		total += sub.DirCount()
	}
	return total
}
