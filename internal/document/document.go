// Package document assembles the exported markdown artifact from selected
// file contents: a Structure outline followed by one fenced content section
// per file.
package document

import (
	"sort"
	"strings"

	"github.com/copytree/copytree/internal/index"
	"github.com/copytree/copytree/internal/language"
	"github.com/copytree/copytree/internal/types"
)

const (
	structureHeader   = "## Structure"
	fileHeaderPrefix  = "## File: "
	fenceDelimiter    = "```"
	sectionSeparator  = "\n\n"
	directoryIndent   = "  "
	bulletPrefix      = "- "
	rootDirectoryKey  = "."
	directorySuffix   = "/"
	structureLineJoin = "\n"
)

// Generate renders the final document for the provided files. Content sections
// follow the input order; callers pass files in their desired order and the
// generator does not re-sort them. Empty input produces an empty string.
// File content is emitted verbatim inside its fence; embedded fence delimiter
// sequences are not escaped.
func Generate(files []types.FileContent) string {
	if len(files) == 0 {
		return ""
	}

	sections := make([]string, 0, len(files)+1)
	sections = append(sections, renderStructureSection(files))
	for _, file := range files {
		sections = append(sections, renderContentSection(file))
	}
	return strings.Join(sections, sectionSeparator)
}

// renderStructureSection groups files by containing directory. Root files are
// listed first as top-level bullets; every other directory follows in lexical
// order as a bullet with a trailing slash and its file basenames nested one
// indent deeper, sorted lexically.
func renderStructureSection(files []types.FileContent) string {
	basenamesByDirectory := make(map[string][]string)
	for _, file := range files {
		directoryPath := index.ParentPath(file.RelativePath)
		if directoryPath == "" {
			directoryPath = rootDirectoryKey
		}
		basenamesByDirectory[directoryPath] = append(basenamesByDirectory[directoryPath], index.BaseName(file.RelativePath))
	}

	var directoryPaths []string
	for directoryPath := range basenamesByDirectory {
		if directoryPath == rootDirectoryKey {
			continue
		}
		directoryPaths = append(directoryPaths, directoryPath)
	}
	sort.Strings(directoryPaths)

	lines := []string{structureHeader, ""}

	rootBasenames := basenamesByDirectory[rootDirectoryKey]
	sort.Strings(rootBasenames)
	for _, baseName := range rootBasenames {
		lines = append(lines, bulletPrefix+baseName)
	}

	for _, directoryPath := range directoryPaths {
		lines = append(lines, bulletPrefix+directoryPath+directorySuffix)
		baseNames := basenamesByDirectory[directoryPath]
		sort.Strings(baseNames)
		for _, baseName := range baseNames {
			lines = append(lines, directoryIndent+bulletPrefix+baseName)
		}
	}

	return strings.Join(lines, structureLineJoin)
}

// renderContentSection emits the header and fenced block for one file. The
// fence opens with the resolved language tag, or bare when no tag is known.
func renderContentSection(file types.FileContent) string {
	var builder strings.Builder
	builder.WriteString(fileHeaderPrefix)
	builder.WriteString(file.RelativePath)
	builder.WriteString(sectionSeparator)
	builder.WriteString(fenceDelimiter)
	builder.WriteString(language.Resolve(file.RelativePath))
	builder.WriteString("\n")
	builder.WriteString(file.Content)
	builder.WriteString("\n")
	builder.WriteString(fenceDelimiter)
	return builder.String()
}
