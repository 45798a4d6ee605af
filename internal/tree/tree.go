// Package tree builds the hierarchical selection forest from workspace items
// and implements tri-state checkbox propagation and selection expansion.
package tree

import (
	"sort"

	"github.com/copytree/copytree/internal/index"
	"github.com/copytree/copytree/internal/types"
)

// Build converts the flat item sequence into a forest of TreeNode values.
// Folder items must precede file items in the input, which index.IndexPaths
// guarantees; folders are fully registered before any file is attached.
// Sibling lists are ordered folders before files, then case-sensitive lexical
// by name, recursively.
func Build(items []types.WorkspaceItem) []*types.TreeNode {
	nodeByPath := make(map[string]*types.TreeNode, len(items))
	var forestRoots []*types.TreeNode

	attach := func(node *types.TreeNode) {
		parentPath := index.ParentPath(node.Path)
		if parentPath == "" {
			forestRoots = append(forestRoots, node)
			return
		}
		parentNode, parentMapped := nodeByPath[parentPath]
		if !parentMapped {
			forestRoots = append(forestRoots, node)
			return
		}
		parentNode.Children = append(parentNode.Children, node)
	}

	for _, item := range items {
		if item.Type != types.ItemTypeFolder {
			continue
		}
		folderNode := &types.TreeNode{
			Name: index.BaseName(item.RelativePath),
			Path: item.RelativePath,
			Kind: types.ItemTypeFolder,
		}
		nodeByPath[item.RelativePath] = folderNode
		attach(folderNode)
	}

	for _, item := range items {
		if item.Type != types.ItemTypeFile {
			continue
		}
		fileNode := &types.TreeNode{
			Name: index.BaseName(item.RelativePath),
			Path: item.RelativePath,
			Kind: types.ItemTypeFile,
		}
		attach(fileNode)
	}

	sortForest(forestRoots)
	return forestRoots
}

// sortForest orders sibling nodes folders-before-files, case-sensitive
// lexical by name within each kind, recursively.
func sortForest(nodes []*types.TreeNode) {
	sort.SliceStable(nodes, func(firstIndex, secondIndex int) bool {
		firstNode := nodes[firstIndex]
		secondNode := nodes[secondIndex]
		if firstNode.Kind != secondNode.Kind {
			return firstNode.Kind == types.ItemTypeFolder
		}
		return firstNode.Name < secondNode.Name
	})
	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortForest(node.Children)
		}
	}
}
