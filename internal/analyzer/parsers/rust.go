package parsers

import (
	"context"
	"strconv"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// rustParser extracts structs and unions from Rust files.
type rustParser struct {
	*treeSitterParser
}

// NewRustParser creates a new Rust parser.
func NewRustParser() *rustParser {
	lang := sitter.NewLanguage(rust.Language())
	return &rustParser{
		treeSitterParser: newTreeSitterParser(lang, "rust"),
	}
}

// ParseSource parses a Rust source file. Inline mod blocks become part of the
// qualified name; the crate and file module path is not known here.
func (p *rustParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		var decls []extraction.Declaration
		p.visit(root, source, nil, &decls)
		return decls
	})
}

func (p *rustParser) visit(node *sitter.Node, source []byte, scope []string, decls *[]extraction.Declaration) {
	switch node.Kind() {
	case "mod_item":
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

	case "struct_item", "union_item":
		p.extractStruct(node, source, scope, decls)
		return

	case "function_item", "impl_item", "trait_item", "macro_definition":
		return
	}

	for _, child := range children(node) {
		p.visit(child, source, scope, decls)
	}
}

// extractStruct extracts a struct or union definition. Tuple struct fields are
// named by position.
func (p *rustParser) extractStruct(node *sitter.Node, source []byte, scope []string, decls *[]extraction.Declaration) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	qualified := qualify(scope, extractNodeText(nameNode, source), "::")
	decl := extraction.Declaration{
		Name: qualified,
		Kind: "struct",
		Line: nodeLine(node),
	}
	if node.Kind() == "union_item" {
		decl.Kind = "union"
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		switch body.Kind() {
		case "field_declaration_list":
			for _, field := range findChildrenByType(body, "field_declaration") {
				fieldName := field.ChildByFieldName("name")
				fieldType := field.ChildByFieldName("type")
				if fieldName == nil || fieldType == nil {
					continue
				}
				decl.Members = append(decl.Members, extraction.Member{
					Type: normalizeSpace(extractNodeText(fieldType, source)),
					Name: qualified + "::" + extractNodeText(fieldName, source),
				})
			}

		case "ordered_field_declaration_list":
			position := 0
			for i := 0; i < int(body.NamedChildCount()); i++ {
				child := body.NamedChild(uint(i))
				switch child.Kind() {
				case "visibility_modifier", "attribute_item", "line_comment", "block_comment":
					continue
				}
				decl.Members = append(decl.Members, extraction.Member{
					Type: normalizeSpace(extractNodeText(child, source)),
					Name: qualified + "::" + strconv.Itoa(position),
				})
				position++
			}
		}
	}

	*decls = append(*decls, decl)
}
