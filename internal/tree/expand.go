package tree

import (
	"sort"
	"strings"

	"github.com/copytree/copytree/internal/types"
)

// Expand resolves a confirmed node set against the full item list and returns
// the concrete file paths to export, lexically sorted and deduplicated.
// Folder identifiers still present at this stage expand to every file whose
// relative path sits under them. Expanding an already file-only set returns it
// unchanged apart from ordering, so the operation is idempotent.
func Expand(selectedNodes []types.SelectedNode, allItems []types.WorkspaceItem) []string {
	selectedFileSet := make(map[string]struct{})

	for _, selectedNode := range selectedNodes {
		if selectedNode.Kind == types.ItemTypeFolder {
			folderPrefix := selectedNode.Path + "/"
			for _, item := range allItems {
				if item.Type != types.ItemTypeFile {
					continue
				}
				if strings.HasPrefix(item.RelativePath, folderPrefix) || item.RelativePath == selectedNode.Path {
					selectedFileSet[item.RelativePath] = struct{}{}
				}
			}
			continue
		}
		selectedFileSet[selectedNode.Path] = struct{}{}
	}

	expandedPaths := make([]string, 0, len(selectedFileSet))
	for filePath := range selectedFileSet {
		expandedPaths = append(expandedPaths, filePath)
	}
	sort.Strings(expandedPaths)
	return expandedPaths
}
