// Package types defines every cross-package data structure used by the copytree CLI.
package types

const (
	ItemTypeFile   = "file"
	ItemTypeFolder = "folder"
)

// SelectionState is the displayed checkbox state of a tree node.
type SelectionState int

const (
	StateUnchecked SelectionState = iota
	StateChecked
	StateIndeterminate
)

// WorkspaceItem is a single discovered file or one of its implied ancestor folders.
// RelativePath is slash-separated, relative to the workspace root, with no
// leading separator, and unique per item.
type WorkspaceItem struct {
	Type         string
	RelativePath string
}

// TreeNode is one node of the selection forest built from a WorkspaceItem set.
// Children is populated for folder nodes only and is ordered folders before
// files, case-sensitive lexical by name within each kind.
type TreeNode struct {
	Name     string
	Path     string
	Kind     string
	Children []*TreeNode
}

// SelectedNode identifies one node the user confirmed in the picker.
type SelectedNode struct {
	Path string
	Kind string
}

// FileContent pairs a workspace-relative path with its decoded content.
type FileContent struct {
	RelativePath string
	Content      string
}

// FileTokenCount pairs an exported file with its estimated token count.
type FileTokenCount struct {
	RelativePath string
	Tokens       int
}

// ExportSummary captures aggregate information about an exported document.
// FileTokens is populated only when token counting is enabled and follows the
// document's file order.
type ExportSummary struct {
	TotalFiles  int
	TotalBytes  int64
	TotalTokens int
	Model       string
	FileTokens  []FileTokenCount
}
