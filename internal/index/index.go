// Package index normalizes a flat set of discovered file paths into the
// combined item list consumed by the selection tree builder.
package index

import (
	"sort"
	"strings"

	"github.com/copytree/copytree/internal/types"
)

const pathSegmentSeparator = "/"

// IndexPaths derives every proper ancestor directory of the provided
// workspace-relative file paths and returns the combined item sequence:
// all folders first, sorted lexically by path, then all files, sorted
// lexically by path. The workspace root itself is never materialized as
// an item. Tree building relies on folders preceding files.
func IndexPaths(rootRelativeFilePaths []string) []types.WorkspaceItem {
	folderPathSet := make(map[string]struct{})
	filePathSet := make(map[string]struct{})

	for _, filePath := range rootRelativeFilePaths {
		if filePath == "" || filePath == "." {
			continue
		}
		if _, exists := filePathSet[filePath]; exists {
			continue
		}
		filePathSet[filePath] = struct{}{}
		for _, ancestorPath := range AncestorDirectories(filePath) {
			folderPathSet[ancestorPath] = struct{}{}
		}
	}

	folderPaths := make([]string, 0, len(folderPathSet))
	for folderPath := range folderPathSet {
		folderPaths = append(folderPaths, folderPath)
	}
	sort.Strings(folderPaths)

	filePaths := make([]string, 0, len(filePathSet))
	for filePath := range filePathSet {
		filePaths = append(filePaths, filePath)
	}
	sort.Strings(filePaths)

	items := make([]types.WorkspaceItem, 0, len(folderPaths)+len(filePaths))
	for _, folderPath := range folderPaths {
		items = append(items, types.WorkspaceItem{Type: types.ItemTypeFolder, RelativePath: folderPath})
	}
	for _, filePath := range filePaths {
		items = append(items, types.WorkspaceItem{Type: types.ItemTypeFile, RelativePath: filePath})
	}
	return items
}

// AncestorDirectories returns every proper ancestor directory of the
// slash-separated relative path as cumulative prefixes, shallowest first.
// A path with no separator has no ancestors.
func AncestorDirectories(relativePath string) []string {
	segments := strings.Split(relativePath, pathSegmentSeparator)
	if len(segments) < 2 {
		return nil
	}
	ancestors := make([]string, 0, len(segments)-1)
	for segmentCount := 1; segmentCount < len(segments); segmentCount++ {
		ancestors = append(ancestors, strings.Join(segments[:segmentCount], pathSegmentSeparator))
	}
	return ancestors
}

// ParentPath returns the containing directory of the slash-separated relative
// path, or an empty string when the path sits directly in the workspace root.
func ParentPath(relativePath string) string {
	lastSeparatorIndex := strings.LastIndex(relativePath, pathSegmentSeparator)
	if lastSeparatorIndex < 0 {
		return ""
	}
	return relativePath[:lastSeparatorIndex]
}

// BaseName returns the final segment of the slash-separated relative path.
func BaseName(relativePath string) string {
	lastSeparatorIndex := strings.LastIndex(relativePath, pathSegmentSeparator)
	if lastSeparatorIndex < 0 {
		return relativePath
	}
	return relativePath[lastSeparatorIndex+1:]
}
