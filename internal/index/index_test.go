package index_test

import (
	"reflect"
	"testing"

	"github.com/copytree/copytree/internal/index"
	"github.com/copytree/copytree/internal/types"
)

// TestIndexPaths verifies folder derivation, ordering, and deduplication.
func TestIndexPaths(testingHandle *testing.T) {
	items := index.IndexPaths([]string{"b/x.txt", "a.txt", "b/a/y.txt", "b/x.txt"})

	expected := []types.WorkspaceItem{
		{Type: types.ItemTypeFolder, RelativePath: "b"},
		{Type: types.ItemTypeFolder, RelativePath: "b/a"},
		{Type: types.ItemTypeFile, RelativePath: "a.txt"},
		{Type: types.ItemTypeFile, RelativePath: "b/a/y.txt"},
		{Type: types.ItemTypeFile, RelativePath: "b/x.txt"},
	}
	if !reflect.DeepEqual(items, expected) {
		testingHandle.Fatalf("unexpected items: %+v", items)
	}
}

// TestIndexPathsFoldersPrecedeFiles verifies the two-phase ordering contract
// with folder names sorting after file names.
func TestIndexPathsFoldersPrecedeFiles(testingHandle *testing.T) {
	items := index.IndexPaths([]string{"zzz/deep/file.go", "aaa.txt"})
	if items[0].Type != types.ItemTypeFolder || items[1].Type != types.ItemTypeFolder {
		testingHandle.Fatalf("expected folders first, got %+v", items)
	}
	if items[0].RelativePath != "zzz" || items[1].RelativePath != "zzz/deep" {
		testingHandle.Fatalf("unexpected folder order: %+v", items)
	}
}

// TestIndexPathsEmpty verifies that no items are produced for no input.
func TestIndexPathsEmpty(testingHandle *testing.T) {
	if items := index.IndexPaths(nil); len(items) != 0 {
		testingHandle.Fatalf("expected no items, got %+v", items)
	}
}

// TestAncestorDirectories verifies cumulative prefix derivation.
func TestAncestorDirectories(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "root file", path: "a.txt", expected: nil},
		{name: "one level", path: "src/a.ts", expected: []string{"src"}},
		{name: "two levels", path: "b/a/y.txt", expected: []string{"b", "b/a"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subtestHandle *testing.T) {
			ancestors := index.AncestorDirectories(testCase.path)
			if !reflect.DeepEqual(ancestors, testCase.expected) {
				subtestHandle.Fatalf("expected %v, got %v", testCase.expected, ancestors)
			}
		})
	}
}

// TestParentPath verifies containing-directory computation.
func TestParentPath(testingHandle *testing.T) {
	if parent := index.ParentPath("b/a/y.txt"); parent != "b/a" {
		testingHandle.Fatalf("expected b/a, got %q", parent)
	}
	if parent := index.ParentPath("a.txt"); parent != "" {
		testingHandle.Fatalf("expected empty parent, got %q", parent)
	}
}
