package domain

import "path/filepath"

type NodeType int

const (
	NodeFile NodeType = iota
	NodeDir
)

// Node is a flattened entry of a weighted tree, addressed by ID, for
// navigation.
type Node struct {
	ID          string
	Name        string
	Path        string
	Type        NodeType
	Score       int
	LineCount   int
	ParentID    string
	ChildrenIDs []string
	FileCount   int
	DirCount    int
}

type TreeIndex struct {
	Nodes  map[string]*Node
	RootID string
}

// IndexTree flattens root into a TreeIndex. Directory IDs are their paths;
// file IDs are the directory path joined with the file name.
func IndexTree(root DirectoryNode) TreeIndex {
	index := TreeIndex{Nodes: make(map[string]*Node), RootID: root.Path}
	indexDirectory(index.Nodes, root, "")
	return index
}

func indexDirectory(nodes map[string]*Node, dir DirectoryNode, parentID string) {
	name := filepath.Base(dir.Path)
	if parentID == "" || name == "." || name == string(filepath.Separator) {
		name = dir.Path
	}
	node := &Node{
		ID:        dir.Path,
		Name:      name,
		Path:      dir.Path,
		Type:      NodeDir,
		Score:     dir.Score,
		LineCount: dir.LineCount,
		ParentID:  parentID,
		FileCount: dir.FileCount(),
		DirCount:  dir.DirCount(),
	}
	nodes[node.ID] = node
	for _, sub := range dir.Subdirectories {
		node.ChildrenIDs = append(node.ChildrenIDs, sub.Path)
		indexDirectory(nodes, sub, node.ID)
	}
	for _, file := range dir.Files {
		id := filepath.Join(dir.Path, file.FileName)
		node.ChildrenIDs = append(node.ChildrenIDs, id)
		nodes[id] = &Node{
			ID:        id,
			Name:      file.FileName,
			Path:      id,
			Type:      NodeFile,
			Score:     file.Score,
			LineCount: file.LineCount,
			ParentID:  node.ID,
			FileCount: 1,
		}
	}
}
