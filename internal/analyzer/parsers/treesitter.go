package parsers

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// treeSitterParser provides common tree-sitter parsing functionality.
type treeSitterParser struct {
	language *sitter.Language
	lang     string
}

// newTreeSitterParser creates a new tree-sitter parser for the given language.
func newTreeSitterParser(language *sitter.Language, lang string) *treeSitterParser {
	return &treeSitterParser{
		language: language,
		lang:     lang,
	}
}

// parse parses source and hands the root node to extract. The syntax tree is
// released when parse returns, so extract must copy everything it keeps.
func (p *treeSitterParser) parse(ctx context.Context, filePath string, source []byte, extract func(root *sitter.Node) []extraction.Declaration) (*FileExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", p.lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", p.lang, filePath)
	}
	defer tree.Close()

	rootNode := tree.RootNode()

	result := &FileExtraction{
		Language:     p.lang,
		FilePath:     filePath,
		Declarations: []extraction.Declaration{},
	}
	if rootNode.HasError() {
		result.Syntax = firstSyntaxError(rootNode, filePath)
	}

	if decls := extract(rootNode); decls != nil {
		result.Declarations = decls
	}
	for i := range result.Declarations {
		result.Declarations[i].Language = p.lang
		result.Declarations[i].File = filePath
	}

	return result, nil
}

// firstSyntaxError returns the position of the first ERROR or MISSING node.
func firstSyntaxError(root *sitter.Node, filePath string) *SyntaxError {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	if found == nil {
		found = root
	}

	pos := found.StartPosition()
	se := &SyntaxError{
		File:   filePath,
		Line:   int(pos.Row) + 1,
		Column: int(pos.Column) + 1,
	}
	if found.IsMissing() {
		se.Msg = fmt.Sprintf("missing %s", found.Kind())
	}
	return se
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// normalizeSpace collapses runs of whitespace (including newlines inside a
// multi-line type) to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodeLine returns the 1-based start line of a node.
func nodeLine(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

// qualify joins an enclosing scope and a name with sep.
func qualify(scope []string, name, sep string) string {
	if len(scope) == 0 {
		return name
	}
	return strings.Join(scope, sep) + sep + name
}

// push returns a copy of scope extended with name.
func push(scope []string, name string) []string {
	next := make([]string, len(scope), len(scope)+1)
	copy(next, scope)
	return append(next, name)
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// children returns all direct children of node.
func children(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	results := make([]*sitter.Node, 0, node.ChildCount())
	for i := 0; i < int(node.ChildCount()); i++ {
		results = append(results, node.Child(uint(i)))
	}
	return results
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

// hasChildToken reports whether node has a direct child whose text is token,
// e.g. a "static" keyword or modifier.
func hasChildToken(node *sitter.Node, source []byte, token string) bool {
	for _, child := range children(node) {
		if extractNodeText(child, source) == token {
			return true
		}
	}
	return false
}
