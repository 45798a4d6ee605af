// Package utils contains general helper functions used across the copytree tool.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ShouldExcludePath reports whether a slash-separated workspace-relative path
// should be excluded from discovery. Each exclusion pattern is evaluated with
// filepath.Match semantics against every segment of the path, so a pattern
// such as "node_modules" excludes the directory and everything beneath it at
// any depth. A pattern containing a separator matches a hierarchical prefix of
// the path instead.
func ShouldExcludePath(relativePath string, exclusionPatterns []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, patternValue := range exclusionPatterns {
		normalizedPattern := strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator)
		normalizedPattern = strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}

		patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
		if len(patternSegments) == 1 {
			for _, pathSegment := range pathSegments {
				if isMatched, matchError := filepath.Match(normalizedPattern, pathSegment); matchError == nil && isMatched {
					return true
				}
			}
			continue
		}

		if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
			return true
		}
	}
	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using filepath.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		isMatched, matchError := filepath.Match(patternSegment, pathSegments[segmentIndex])
		if matchError != nil || !isMatched {
			return false
		}
	}
	return true
}
