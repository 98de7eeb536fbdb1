package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// Test Plan for TypeScript Parser:
// - Class field definitions are extracted; static fields and methods are not
// - Untyped fields are reported as any
// - Interfaces and object type aliases are recorded with their properties
// - Namespaces qualify names with .
// - The TSX grammar handles the same declarations

func TestTypeScriptParser_Declarations(t *testing.T) {
	t.Parallel()

	src := `
namespace shapes {
  export class Circle {
    radius: number;
    static count: number;
    label = "c";
    area(): number { return 0; }
  }
}

interface User {
  id: string;
  tags?: string[];
}

type Pair = { a: number; b: string };
type Id = string;

function f() {
  class Local { z: number; }
}
`
	result := parseSource(t, NewTypeScriptParser(), "shapes.ts", src)

	assert.Equal(t, "typescript", result.Language)
	assert.Equal(t, []string{"shapes.Circle", "User", "Pair"}, declNames(result))

	circle := findDecl(t, result, "shapes.Circle")
	assert.Equal(t, "class", circle.Kind)
	assert.Equal(t, []extraction.Member{
		{Type: "number", Name: "shapes.Circle.radius"},
		{Type: "any", Name: "shapes.Circle.label"},
	}, circle.Members)

	user := findDecl(t, result, "User")
	assert.Equal(t, "interface", user.Kind)
	assert.Equal(t, []extraction.Member{
		{Type: "string", Name: "User.id"},
		{Type: "string[]", Name: "User.tags"},
	}, user.Members)

	pair := findDecl(t, result, "Pair")
	assert.Equal(t, "type", pair.Kind)
	assert.Len(t, pair.Members, 2)
}

func TestTSXParser_Class(t *testing.T) {
	t.Parallel()

	src := `
export class View {
  title: string;
  render() { return <div>{this.title}</div>; }
}
`
	result := parseSource(t, NewTSXParser(), "view.tsx", src)

	view := findDecl(t, result, "View")
	assert.Equal(t, []extraction.Member{{Type: "string", Name: "View.title"}}, view.Members)
}
