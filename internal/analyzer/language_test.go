package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for language routing:
// - Extensions map to languages case-insensitively
// - Headers are routed to the C++ parser
// - Every supported extension has a parser
// - Unknown extensions have none

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"main.c", "c"},
		{"point.h", "cpp"},
		{"point.HPP", "cpp"},
		{"src/outer.cc", "cpp"},
		{"geo/point.go", "go"},
		{"Point.java", "java"},
		{"User.php", "php"},
		{"shapes.py", "python"},
		{"lib.rs", "rust"},
		{"shapes.ts", "typescript"},
		{"view.tsx", "typescript"},
		{"README.md", "unknown"},
		{"Makefile", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.path))
		})
	}
}

func TestRegistry_ParserFor(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	for _, ext := range SupportedExtensions() {
		assert.NotNil(t, r.parserFor("file"+ext), ext)
	}
	assert.Nil(t, r.parserFor("notes.txt"))
	assert.Same(t, r.tsx, r.parserFor("view.tsx"))
	assert.Same(t, r.cpp, r.parserFor("point.h"))
}
