package state

import (
	"cmp"
	"slices"
	"strings"

	"w8/internal/config"
	"w8/internal/domain"
)

type Preferences struct {
	SortMode domain.SortMode
	Theme    string
}

type State struct {
	Path     string
	Current  string
	Cursor   int
	Expanded map[string]bool
	Prefs    Preferences
	Tree     domain.TreeIndex
}

func NewState(cfg config.Config) *State {
	sortMode := cfg.SortMode
	if sortMode == "" {
		sortMode = domain.SortByScore
	}
	return &State{
		Path:     cfg.Path,
		Expanded: map[string]bool{},
		Prefs:    Preferences{SortMode: sortMode, Theme: cfg.Theme},
		Tree:     domain.TreeIndex{Nodes: map[string]*domain.Node{}},
	}
}

// SetTree replaces the browsed tree, keeping the current directory and the
// expanded set where they still exist.
func (appState *State) SetTree(root domain.DirectoryNode) {
	appState.Tree = domain.IndexTree(root)
	appState.Path = root.Path
	if _, ok := appState.Tree.Nodes[appState.Current]; !ok {
		appState.Current = appState.Tree.RootID
		appState.Cursor = 0
	}

	for id := range appState.Expanded {
		if _, ok := appState.Tree.Nodes[id]; !ok {
			delete(appState.Expanded, id)
		}
	}
	appState.Expanded[appState.Current] = true
}

type VisibleNode struct {
	Node  *domain.Node
	Depth int
}

func (appState *State) VisibleNodes() []VisibleNode {
	top, ok := appState.Tree.Nodes[appState.Current]
	if !ok {
		if top, ok = appState.Tree.Nodes[appState.Tree.RootID]; !ok {
			return nil
		}
	}
	return appState.flatten(nil, top, 0)
}

// flatten appends node and, when it is expanded, its sorted descendants.
func (appState *State) flatten(visible []VisibleNode, node *domain.Node, depth int) []VisibleNode {
	visible = append(visible, VisibleNode{Node: node, Depth: depth})
	if node.Type == domain.NodeDir && appState.Expanded[node.ID] {
		for _, child := range appState.sortedChildren(node) {
			visible = appState.flatten(visible, child, depth+1)
		}
	}
	return visible
}

func (appState *State) CurrentNode() *domain.Node {
	visible := appState.VisibleNodes()
	if len(visible) == 0 || appState.Cursor < 0 || appState.Cursor >= len(visible) {
		return nil
	}
	return visible[appState.Cursor].Node
}

func (appState *State) CurrentPath() string {
	if node, ok := appState.Tree.Nodes[appState.Current]; ok {
		return node.Path
	}
	return appState.Path
}

func (appState *State) EnterDir(id string) bool {
	node, ok := appState.Tree.Nodes[id]
	if !ok || node.Type != domain.NodeDir {
		return false
	}
	appState.Current = id
	appState.Cursor = 0
	appState.Expanded[id] = true
	return true
}

func (appState *State) LeaveDir() bool {
	node, ok := appState.Tree.Nodes[appState.Current]
	if !ok || node.ParentID == "" {
		return false
	}
	appState.Current = node.ParentID
	appState.Cursor = 0
	return true
}

func (appState *State) ToggleExpanded(id string) bool {
	if id == "" {
		return false
	}
	appState.Expanded[id] = !appState.Expanded[id]
	return appState.Expanded[id]
}

func (appState *State) IsExpanded(id string) bool {
	return appState.Expanded[id]
}

func (appState *State) ToggleSortMode() domain.SortMode {
	switch appState.Prefs.SortMode {
	case domain.SortByScore:
		appState.Prefs.SortMode = domain.SortByName
	case domain.SortByName:
		appState.Prefs.SortMode = domain.SortByLines
	default:
		appState.Prefs.SortMode = domain.SortByScore
	}
	return appState.Prefs.SortMode
}

// ShareOfParent is the node's fraction of its parent's score, or 1 for the
// root.
func (appState *State) ShareOfParent(node *domain.Node) float64 {
	if node == nil {
		return 0
	}
	parent, ok := appState.Tree.Nodes[node.ParentID]
	if !ok || parent.Score == 0 {
		return 1
	}
	return float64(node.Score) / float64(parent.Score)
}

// sortedChildren orders directories before files, then by the active sort
// mode with the name as tie-breaker. The tree itself keeps enumeration order.
func (appState *State) sortedChildren(node *domain.Node) []*domain.Node {
	children := make([]*domain.Node, 0, len(node.ChildrenIDs))
	for _, id := range node.ChildrenIDs {
		if child, ok := appState.Tree.Nodes[id]; ok {
			children = append(children, child)
		}
	}
	mode := appState.Prefs.SortMode
	slices.SortStableFunc(children, func(a, b *domain.Node) int {
		if a.Type != b.Type {
			if a.Type == domain.NodeDir {
				return -1
			}
			return 1
		}
		var byMode int
		switch mode {
		case domain.SortByName:
		case domain.SortByLines:
			byMode = cmp.Compare(b.LineCount, a.LineCount)
		default:
			byMode = cmp.Compare(b.Score, a.Score)
		}
		if byMode != 0 {
			return byMode
		}
		return strings.Compare(a.Name, b.Name)
	})
	return children
}
