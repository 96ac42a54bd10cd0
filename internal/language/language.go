// Package language maps file extensions to the language tags used in prompt sections.
package language

import (
	"path/filepath"
	"strings"
)

// TagPython identifies Python sources, the one language with interface extraction support.
const TagPython = "python"

// extensionTags is the fixed enumeration of recognized source file extensions.
var extensionTags = map[string]string{
	".py":   TagPython,
	".json": "json",
	".js":   "javascript",
	".ts":   "typescript",
	".html": "html",
	".css":  "css",
	".java": "java",
	".c":    "c",
	".cpp":  "cpp",
	".h":    "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".go":   "go",
	".rs":   "rust",
	".sh":   "bash",
	".bat":  "batch",
	".ps1":  "powershell",
	".yaml": "yaml",
	".yml":  "yaml",
	".toml": "toml",
	".xml":  "xml",
	".sql":  "sql",
	".md":   "markdown",
	".txt":  "text",
}

// Detect returns the language tag for fileName based on its extension.
// Unknown extensions yield an empty tag and the file is rendered without one.
func Detect(fileName string) string {
	extension := strings.ToLower(filepath.Ext(fileName))
	return extensionTags[extension]
}
