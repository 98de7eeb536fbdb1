package parsers

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// javaParser extracts classes and records from Java files.
type javaParser struct {
	*treeSitterParser
}

// NewJavaParser creates a new Java parser.
func NewJavaParser() *javaParser {
	lang := sitter.NewLanguage(java.Language())
	return &javaParser{
		treeSitterParser: newTreeSitterParser(lang, "java"),
	}
}

// ParseSource parses a Java source file.
func (p *javaParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		var scope []string
		if pkg := findChildByType(root, "package_declaration"); pkg != nil && pkg.NamedChildCount() > 0 {
			scope = []string{extractNodeText(pkg.NamedChild(0), source)}
		}

		w := &javaWalker{source: source}
		w.visit(root, scope)
		return w.decls
	})
}

type javaWalker struct {
	source []byte
	decls  []extraction.Declaration
}

func (w *javaWalker) visit(node *sitter.Node, scope []string) {
	switch node.Kind() {
	case "class_declaration", "record_declaration":
		w.visitClass(node, scope)
		return

	case "interface_declaration", "enum_declaration", "annotation_type_declaration":
		// Not data records themselves, but they may nest classes.
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			w.visitChildren(node.ChildByFieldName("body"), push(scope, extractNodeText(nameNode, w.source)))
		}
		return

	case "method_declaration", "constructor_declaration", "compact_constructor_declaration",
		"field_declaration", "static_initializer", "block", "package_declaration":
		return
	}

	w.visitChildren(node, scope)
}

func (w *javaWalker) visitChildren(node *sitter.Node, scope []string) {
	for _, child := range children(node) {
		w.visit(child, scope)
	}
}

func (w *javaWalker) visitClass(node *sitter.Node, scope []string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	name := extractNodeText(nameNode, w.source)
	qualified := qualify(scope, name, ".")
	decl := extraction.Declaration{
		Name: qualified,
		Kind: "class",
		Line: nodeLine(node),
	}

	if node.Kind() == "record_declaration" {
		decl.Kind = "record"
		params := node.ChildByFieldName("parameters")
		for _, param := range findChildrenByType(params, "formal_parameter") {
			if m, ok := w.member(param, param.ChildByFieldName("type"), qualified); ok {
				decl.Members = append(decl.Members, m)
			}
		}
	}

	body := node.ChildByFieldName("body")
	for _, field := range findChildrenByType(body, "field_declaration") {
		if modifiers := findChildByType(field, "modifiers"); modifiers != nil && hasChildToken(modifiers, w.source, "static") {
			continue
		}
		typeNode := field.ChildByFieldName("type")
		for _, declarator := range findChildrenByType(field, "variable_declarator") {
			if m, ok := w.member(declarator, typeNode, qualified); ok {
				decl.Members = append(decl.Members, m)
			}
		}
	}

	w.decls = append(w.decls, decl)
	w.visitChildren(body, push(scope, name))
}

// member builds a member from a declarator or record component. C-style
// array dimensions on the name (int x[]) are appended to the type.
func (w *javaWalker) member(node, typeNode *sitter.Node, owner string) (extraction.Member, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil || typeNode == nil {
		return extraction.Member{}, false
	}

	typ := normalizeSpace(extractNodeText(typeNode, w.source))
	if dims := node.ChildByFieldName("dimensions"); dims != nil {
		typ += normalizeSpace(extractNodeText(dims, w.source))
	}

	return extraction.Member{
		Type: typ,
		Name: owner + "." + extractNodeText(nameNode, w.source),
	}, true
}
