// Package workspace discovers exportable files under the workspace root and
// reads their contents.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/copytree/copytree/internal/utils"
)

const (
	// errorRootMissingFormat reports a workspace root that does not exist.
	errorRootMissingFormat = "workspace root '%s' does not exist"
	// errorRootNotDirectoryFormat reports a workspace root that is not a directory.
	errorRootNotDirectoryFormat = "workspace root '%s' is not a directory"
	// errorWalkFormat reports a traversal failure.
	errorWalkFormat = "scanning %s: %w"
)

// DefaultExclusions is the default directory exclusion set applied during
// discovery. It is policy configuration, overridable from the config file.
var DefaultExclusions = []string{
	".git",
	"node_modules",
	".vscode",
	"out",
	"dist",
	"build",
	".next",
	".cache",
	"__pycache__",
	".pytest_cache",
}

// DiscoverFiles walks rootDirectoryPath and returns every regular file as a
// slash-separated path relative to the root, lexically sorted, excluding
// paths matched by the exclusion patterns. A missing or non-directory root is
// an environment error; an empty result is not.
func DiscoverFiles(rootDirectoryPath string, exclusionPatterns []string) ([]string, error) {
	rootInfo, rootStatError := os.Stat(rootDirectoryPath)
	if rootStatError != nil {
		if os.IsNotExist(rootStatError) {
			return nil, fmt.Errorf(errorRootMissingFormat, rootDirectoryPath)
		}
		return nil, fmt.Errorf(errorWalkFormat, rootDirectoryPath, rootStatError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, rootDirectoryPath)
	}

	var relativeFilePaths []string
	walkFunction := func(currentPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if currentPath == rootDirectoryPath {
			return nil
		}
		relativePath, relativeError := filepath.Rel(rootDirectoryPath, currentPath)
		if relativeError != nil {
			return relativeError
		}
		slashPath := filepath.ToSlash(relativePath)

		if utils.ShouldExcludePath(slashPath, exclusionPatterns) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}
		relativeFilePaths = append(relativeFilePaths, slashPath)
		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return nil, fmt.Errorf(errorWalkFormat, rootDirectoryPath, walkError)
	}

	sort.Strings(relativeFilePaths)
	return relativeFilePaths, nil
}
