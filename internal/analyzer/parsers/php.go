package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// untypedPHP is reported for properties without a declared type.
const untypedPHP = "mixed"

// phpParser extracts classes and traits from PHP files.
type phpParser struct {
	*treeSitterParser
}

// NewPhpParser creates a new PHP parser.
func NewPhpParser() *phpParser {
	lang := sitter.NewLanguage(php.LanguagePHP())
	return &phpParser{
		treeSitterParser: newTreeSitterParser(lang, "php"),
	}
}

// ParseSource parses a PHP source file.
func (p *phpParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		var decls []extraction.Declaration
		p.visitStatements(root, source, "", &decls)
		return decls
	})
}

// visitStatements walks a statement list. A namespace declaration without a
// body applies to every statement that follows it.
func (p *phpParser) visitStatements(node *sitter.Node, source []byte, namespace string, decls *[]extraction.Declaration) {
	for _, child := range children(node) {
		switch child.Kind() {
		case "namespace_definition":
			name := ""
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				name = extractNodeText(nameNode, source)
			}
			if body := child.ChildByFieldName("body"); body != nil {
				p.visitStatements(body, source, name, decls)
			} else {
				namespace = name
			}

		case "class_declaration", "trait_declaration":
			p.extractClass(child, source, namespace, decls)

		case "function_definition", "interface_declaration", "enum_declaration":
			continue

		default:
			p.visitStatements(child, source, namespace, decls)
		}
	}
}

// extractClass extracts a class or trait with its instance properties,
// including properties promoted from constructor parameters.
func (p *phpParser) extractClass(node *sitter.Node, source []byte, namespace string, decls *[]extraction.Declaration) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	qualified := extractNodeText(nameNode, source)
	if namespace != "" {
		qualified = namespace + `\` + qualified
	}

	decl := extraction.Declaration{
		Name: qualified,
		Kind: "class",
		Line: nodeLine(node),
	}
	if node.Kind() == "trait_declaration" {
		decl.Kind = "trait"
	}

	for _, member := range children(node.ChildByFieldName("body")) {
		switch member.Kind() {
		case "property_declaration":
			if findChildByType(member, "static_modifier") != nil {
				continue
			}
			typ := p.declaredType(member, source)
			for _, element := range findChildrenByType(member, "property_element") {
				if name := variableName(element, source); name != "" {
					decl.Members = append(decl.Members, extraction.Member{
						Type: typ,
						Name: qualified + "::" + name,
					})
				}
			}

		case "method_declaration":
			methodName := member.ChildByFieldName("name")
			if methodName == nil || !strings.EqualFold(extractNodeText(methodName, source), "__construct") {
				continue
			}
			for _, param := range findChildrenByType(member.ChildByFieldName("parameters"), "property_promotion_parameter") {
				if name := variableName(param, source); name != "" {
					decl.Members = append(decl.Members, extraction.Member{
						Type: p.declaredType(param, source),
						Name: qualified + "::" + name,
					})
				}
			}
		}
	}

	*decls = append(*decls, decl)
}

func (p *phpParser) declaredType(node *sitter.Node, source []byte) string {
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		return normalizeSpace(extractNodeText(typeNode, source))
	}
	return untypedPHP
}

// variableName returns the property name without its leading "$".
func variableName(node *sitter.Node, source []byte) string {
	var name string
	walkTree(node, func(n *sitter.Node) bool {
		if name != "" {
			return false
		}
		if n.Kind() == "variable_name" {
			name = strings.TrimPrefix(extractNodeText(n, source), "$")
			return false
		}
		return true
	})
	return name
}
