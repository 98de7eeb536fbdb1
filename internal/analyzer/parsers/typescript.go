package parsers

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// untypedTS is reported for properties without a type annotation.
const untypedTS = "any"

// typeScriptParser extracts classes, interfaces and object type aliases from
// TypeScript files.
type typeScriptParser struct {
	*treeSitterParser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *typeScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &typeScriptParser{
		treeSitterParser: newTreeSitterParser(lang, "typescript"),
	}
}

// NewTSXParser creates a TypeScript parser for .tsx files.
func NewTSXParser() *typeScriptParser {
	lang := sitter.NewLanguage(typescript.LanguageTSX())
	return &typeScriptParser{
		treeSitterParser: newTreeSitterParser(lang, "typescript"),
	}
}

// ParseSource parses a TypeScript source file.
func (p *typeScriptParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		var decls []extraction.Declaration
		p.visit(root, source, nil, &decls)
		return decls
	})
}

func (p *typeScriptParser) visit(node *sitter.Node, source []byte, scope []string, decls *[]extraction.Declaration) {
	switch node.Kind() {
	case "internal_module", "module":
		nameNode := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		if nameNode == nil || body == nil {
			return
		}
		scope = push(scope, extractNodeText(nameNode, source))
		for _, child := range children(body) {
			p.visit(child, source, scope, decls)
		}
		return

	case "class_declaration", "abstract_class_declaration":
		p.extractClass(node, source, scope, decls)
		return

	case "interface_declaration":
		p.extractObjectType(node, node.ChildByFieldName("body"), "interface", source, scope, decls)
		return

	case "type_alias_declaration":
		if value := node.ChildByFieldName("value"); value != nil && value.Kind() == "object_type" {
			p.extractObjectType(node, value, "type", source, scope, decls)
		}
		return

	case "function_declaration", "generator_function_declaration", "arrow_function",
		"function_expression", "method_definition", "lexical_declaration", "variable_declaration":
		return
	}

	for _, child := range children(node) {
		p.visit(child, source, scope, decls)
	}
}

// extractClass extracts a class and its instance field definitions.
func (p *typeScriptParser) extractClass(node *sitter.Node, source []byte, scope []string, decls *[]extraction.Declaration) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	qualified := qualify(scope, extractNodeText(nameNode, source), ".")
	decl := extraction.Declaration{
		Name: qualified,
		Kind: "class",
		Line: nodeLine(node),
	}

	for _, field := range findChildrenByType(node.ChildByFieldName("body"), "public_field_definition") {
		if hasChildToken(field, source, "static") {
			continue
		}
		if m, ok := p.property(field, qualified, source); ok {
			decl.Members = append(decl.Members, m)
		}
	}

	*decls = append(*decls, decl)
}

// extractObjectType extracts the property signatures of an interface body or
// an object type literal.
func (p *typeScriptParser) extractObjectType(node, body *sitter.Node, kind string, source []byte, scope []string, decls *[]extraction.Declaration) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	qualified := qualify(scope, extractNodeText(nameNode, source), ".")
	decl := extraction.Declaration{
		Name: qualified,
		Kind: kind,
		Line: nodeLine(node),
	}

	for _, prop := range findChildrenByType(body, "property_signature") {
		if m, ok := p.property(prop, qualified, source); ok {
			decl.Members = append(decl.Members, m)
		}
	}

	*decls = append(*decls, decl)
}

// property builds a member from a field definition or property signature.
func (p *typeScriptParser) property(node *sitter.Node, owner string, source []byte) (extraction.Member, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return extraction.Member{}, false
	}

	typ := untypedTS
	if annotation := node.ChildByFieldName("type"); annotation != nil && annotation.NamedChildCount() > 0 {
		typ = normalizeSpace(extractNodeText(annotation.NamedChild(0), source))
	}

	return extraction.Member{
		Type: typ,
		Name: owner + "." + extractNodeText(nameNode, source),
	}, true
}
