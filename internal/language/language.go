// Package language maps file paths to markdown fence language tags.
package language

import (
	"path"
	"strings"
)

// Basename special cases take priority over extension lookup.
var basenameTags = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// extensionTags maps a lowercased extension, including the leading dot, to a
// fence language tag. The table is pure configuration and never mutated.
var extensionTags = map[string]string{
	".go":         "go",
	".py":         "python",
	".rb":         "ruby",
	".rs":         "rust",
	".c":          "c",
	".h":          "c",
	".cpp":        "cpp",
	".cc":         "cpp",
	".hpp":        "cpp",
	".cs":         "csharp",
	".java":       "java",
	".kt":         "kotlin",
	".swift":      "swift",
	".js":         "javascript",
	".jsx":        "javascriptreact",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".ts":         "typescript",
	".tsx":        "typescriptreact",
	".php":        "php",
	".pl":         "perl",
	".lua":        "lua",
	".scala":      "scala",
	".dart":       "dart",
	".r":          "r",
	".html":       "html",
	".htm":        "html",
	".css":        "css",
	".scss":       "scss",
	".less":       "less",
	".vue":        "vue",
	".svelte":     "svelte",
	".md":         "markdown",
	".markdown":   "markdown",
	".tex":        "latex",
	".json":       "json",
	".jsonc":      "jsonc",
	".yml":        "yaml",
	".yaml":       "yaml",
	".toml":       "toml",
	".xml":        "xml",
	".csv":        "csv",
	".ini":        "ini",
	".cfg":        "ini",
	".conf":       "ini",
	".properties": "properties",
	".env":        "dotenv",
	".sh":         "shellscript",
	".bash":       "shellscript",
	".zsh":        "shellscript",
	".fish":       "fish",
	".ps1":        "powershell",
	".bat":        "bat",
	".cmd":        "bat",
	".sql":        "sql",
	".graphql":    "graphql",
	".proto":      "proto",
	".tf":         "terraform",
	".gradle":     "groovy",
	".groovy":     "groovy",
	".vim":        "vim",
	".txt":        "plaintext",
}

// Resolve returns the fence language tag for the file at relativePath.
// The basename is matched case-insensitively against known extensionless
// formats first; otherwise the lowercased extension is looked up in the
// static table. An unknown path resolves to the empty tag, which renders
// as an untyped fence.
func Resolve(relativePath string) string {
	baseName := strings.ToLower(path.Base(relativePath))
	if tag, known := basenameTags[baseName]; known {
		return tag
	}
	extension := strings.ToLower(path.Ext(relativePath))
	return extensionTags[extension]
}
