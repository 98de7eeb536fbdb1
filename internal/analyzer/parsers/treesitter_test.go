package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// Test Plan for shared parser helpers:
// - SyntaxError renders file:line:col with an optional message
// - qualify joins scopes with the language separator
// - push never aliases the caller's scope slice
// - Cancelled contexts abort parsing before any work is done

func parseSource(t *testing.T, p Parser, path, src string) *FileExtraction {
	t.Helper()
	result, err := p.ParseSource(context.Background(), path, []byte(src))
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func findDecl(t *testing.T, result *FileExtraction, name string) extraction.Declaration {
	t.Helper()
	for _, decl := range result.Declarations {
		if decl.Name == name {
			return decl
		}
	}
	require.Failf(t, "declaration not found", "%s not in %v", name, declNames(result))
	return extraction.Declaration{}
}

func declNames(result *FileExtraction) []string {
	names := make([]string, 0, len(result.Declarations))
	for _, decl := range result.Declarations {
		names = append(names, decl.Name)
	}
	return names
}

func TestSyntaxError_Error(t *testing.T) {
	t.Parallel()

	err := &SyntaxError{File: "a.c", Line: 3, Column: 7}
	assert.Equal(t, "a.c:3:7: syntax error", err.Error())

	err.Msg = "missing ;"
	assert.Equal(t, "a.c:3:7: syntax error: missing ;", err.Error())
}

func TestQualify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Point", qualify(nil, "Point", "::"))
	assert.Equal(t, "a::b::Point", qualify([]string{"a", "b"}, "Point", "::"))
	assert.Equal(t, "com.acme.Point", qualify([]string{"com.acme"}, "Point", "."))
}

func TestPush_DoesNotAlias(t *testing.T) {
	t.Parallel()

	base := make([]string, 1, 8)
	base[0] = "ns"

	left := push(base, "A")
	right := push(base, "B")

	assert.Equal(t, []string{"ns", "A"}, left)
	assert.Equal(t, []string{"ns", "B"}, right)
	assert.Equal(t, []string{"ns"}, base)
}

func TestParse_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, p := range []Parser{NewCppParser(), NewGoParser()} {
		_, err := p.ParseSource(ctx, "x", []byte("struct A { int x; };"))
		assert.ErrorIs(t, err, context.Canceled)
	}
}
