package analyzer

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mvp-joe/classmeta/internal/analyzer/parsers"
)

// languages maps a lowercase file extension to its language. Headers are read
// as C++ since the C++ grammar accepts C declarations as well.
var languages = map[string]string{
	".c":    "c",
	".h":    "cpp",
	".hh":   "cpp",
	".hpp":  "cpp",
	".hxx":  "cpp",
	".cc":   "cpp",
	".cpp":  "cpp",
	".cxx":  "cpp",
	".go":   "go",
	".java": "java",
	".php":  "php",
	".py":   "python",
	".rs":   "rust",
	".ts":   "typescript",
	".tsx":  "typescript",
}

// DetectLanguage returns the language of a file from its extension, or
// "unknown".
func DetectLanguage(filePath string) string {
	if lang, ok := languages[strings.ToLower(filepath.Ext(filePath))]; ok {
		return lang
	}
	return "unknown"
}

// SupportedExtensions returns every file extension the analyzer can parse,
// sorted.
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(languages))
}

// registry routes files to language parsers. Parsers hold no per-file state
// and are shared by all workers.
type registry struct {
	c, cpp, golang, java, php, python, rust, ts, tsx parsers.Parser
}

func newRegistry() *registry {
	return &registry{
		c:      parsers.NewCParser(),
		cpp:    parsers.NewCppParser(),
		golang: parsers.NewGoParser(),
		java:   parsers.NewJavaParser(),
		php:    parsers.NewPhpParser(),
		python: parsers.NewPythonParser(),
		rust:   parsers.NewRustParser(),
		ts:     parsers.NewTypeScriptParser(),
		tsx:    parsers.NewTSXParser(),
	}
}

// parserFor returns the parser for filePath, or nil if the extension is not
// supported.
func (r *registry) parserFor(filePath string) parsers.Parser {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".tsx" {
		return r.tsx
	}

	switch languages[ext] {
	case "c":
		return r.c
	case "cpp":
		return r.cpp
	case "go":
		return r.golang
	case "java":
		return r.java
	case "php":
		return r.php
	case "python":
		return r.python
	case "rust":
		return r.rust
	case "typescript":
		return r.ts
	}
	return nil
}
