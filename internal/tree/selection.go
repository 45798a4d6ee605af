package tree

import "github.com/copytree/copytree/internal/types"

// Selection tracks the checked state of a selection forest for one picker
// session. Only file leaves carry authoritative state; folder display states
// are derived from their transitive descendant file leaves. Descendant file
// lists are memoized per folder at construction time because the forest never
// mutates structurally within a session.
type Selection struct {
	forest            []*types.TreeNode
	nodeByPath        map[string]*types.TreeNode
	descendantFiles   map[string][]string
	checkedFiles      map[string]bool
	emptyFolderChecks map[string]bool
}

// NewSelection prepares selection state for the provided forest with every
// file initially unchecked.
func NewSelection(forest []*types.TreeNode) *Selection {
	selection := &Selection{
		forest:            forest,
		nodeByPath:        make(map[string]*types.TreeNode),
		descendantFiles:   make(map[string][]string),
		checkedFiles:      make(map[string]bool),
		emptyFolderChecks: make(map[string]bool),
	}
	for _, rootNode := range forest {
		selection.indexNode(rootNode)
	}
	return selection
}

// indexNode registers node paths and memoized descendant file lists for
// folders. It returns the file paths found under node.
func (selection *Selection) indexNode(node *types.TreeNode) []string {
	selection.nodeByPath[node.Path] = node

	if node.Kind == types.ItemTypeFile {
		return []string{node.Path}
	}

	var filePaths []string
	for _, childNode := range node.Children {
		filePaths = append(filePaths, selection.indexNode(childNode)...)
	}
	selection.descendantFiles[node.Path] = filePaths
	return filePaths
}

// ToggleFile sets the checked state of one file leaf. Ancestor folders derive
// their new display state from their descendant file leaves; unknown paths and
// folder paths are ignored.
func (selection *Selection) ToggleFile(filePath string, checked bool) {
	node, known := selection.nodeByPath[filePath]
	if !known || node.Kind != types.ItemTypeFile {
		return
	}
	selection.checkedFiles[filePath] = checked
}

// ToggleFolder cascades the checked state to every descendant file leaf of the
// folder. A folder with no descendant files has nothing to cascade, but its own
// visual state still records the toggled boolean.
func (selection *Selection) ToggleFolder(folderPath string, checked bool) {
	node, known := selection.nodeByPath[folderPath]
	if !known || node.Kind != types.ItemTypeFolder {
		return
	}
	filePaths := selection.descendantFiles[folderPath]
	if len(filePaths) == 0 {
		selection.emptyFolderChecks[folderPath] = checked
		return
	}
	for _, filePath := range filePaths {
		selection.checkedFiles[filePath] = checked
	}
}

// Toggle dispatches to ToggleFile or ToggleFolder based on the node kind.
func (selection *Selection) Toggle(path string, checked bool) {
	node, known := selection.nodeByPath[path]
	if !known {
		return
	}
	if node.Kind == types.ItemTypeFolder {
		selection.ToggleFolder(path, checked)
		return
	}
	selection.ToggleFile(path, checked)
}

// State returns the displayed tri-state for the node at path. Files report
// checked or unchecked from leaf truth. Folders report checked when every
// descendant file is checked, unchecked when none is, and indeterminate for a
// mix; a folder with zero descendant files mirrors its own toggled boolean and
// never reports indeterminate.
func (selection *Selection) State(path string) types.SelectionState {
	node, known := selection.nodeByPath[path]
	if !known {
		return types.StateUnchecked
	}
	if node.Kind == types.ItemTypeFile {
		if selection.checkedFiles[path] {
			return types.StateChecked
		}
		return types.StateUnchecked
	}

	filePaths := selection.descendantFiles[path]
	if len(filePaths) == 0 {
		if selection.emptyFolderChecks[path] {
			return types.StateChecked
		}
		return types.StateUnchecked
	}

	checkedCount := 0
	for _, filePath := range filePaths {
		if selection.checkedFiles[filePath] {
			checkedCount++
		}
	}
	switch checkedCount {
	case 0:
		return types.StateUnchecked
	case len(filePaths):
		return types.StateChecked
	default:
		return types.StateIndeterminate
	}
}

// CheckedFiles returns the paths of every checked file leaf in forest order.
func (selection *Selection) CheckedFiles() []string {
	var checkedPaths []string
	var walk func(node *types.TreeNode)
	walk = func(node *types.TreeNode) {
		if node.Kind == types.ItemTypeFile {
			if selection.checkedFiles[node.Path] {
				checkedPaths = append(checkedPaths, node.Path)
			}
			return
		}
		for _, childNode := range node.Children {
			walk(childNode)
		}
	}
	for _, rootNode := range selection.forest {
		walk(rootNode)
	}
	return checkedPaths
}

// CheckedCount returns the number of checked file leaves.
func (selection *Selection) CheckedCount() int {
	count := 0
	for _, checked := range selection.checkedFiles {
		if checked {
			count++
		}
	}
	return count
}

// DescendantFileCount returns the number of file leaves under the folder at
// path, or zero for files and unknown paths.
func (selection *Selection) DescendantFileCount(folderPath string) int {
	return len(selection.descendantFiles[folderPath])
}
