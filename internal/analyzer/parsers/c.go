package parsers

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// cParser extracts struct, union and class definitions from C and C++ files.
// Both grammars share node kinds for records and fields; the C++ dialect adds
// namespaces, classes and nested scopes.
type cParser struct {
	*treeSitterParser
	cpp bool
}

// NewCParser creates a new C parser.
func NewCParser() *cParser {
	lang := sitter.NewLanguage(c.Language())
	return &cParser{
		treeSitterParser: newTreeSitterParser(lang, "c"),
	}
}

// NewCppParser creates a new C++ parser.
func NewCppParser() *cParser {
	lang := sitter.NewLanguage(cpp.Language())
	return &cParser{
		treeSitterParser: newTreeSitterParser(lang, "cpp"),
		cpp:              true,
	}
}

// ParseSource parses a C or C++ source file.
func (p *cParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		w := &recordWalker{source: source, cpp: p.cpp}
		w.visit(root, nil)
		return w.decls
	})
}

var recordKinds = map[string]string{
	"struct_specifier": "struct",
	"union_specifier":  "union",
	"class_specifier":  "class",
}

// declaratorKinds are the field_declaration children that name a member.
var declaratorKinds = map[string]bool{
	"field_identifier":         true,
	"pointer_declarator":       true,
	"reference_declarator":     true,
	"array_declarator":         true,
	"function_declarator":      true,
	"parenthesized_declarator": true,
}

type recordWalker struct {
	source []byte
	cpp    bool
	decls  []extraction.Declaration
}

func (w *recordWalker) visit(node *sitter.Node, scope []string) {
	switch node.Kind() {
	case "namespace_definition":
		name := "(anonymous namespace)"
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			name = normalizeSpace(extractNodeText(nameNode, w.source))
		}
		w.visitChildren(node.ChildByFieldName("body"), push(scope, name))
		return

	case "struct_specifier", "union_specifier", "class_specifier":
		w.visitRecord(node, scope, "")
		return

	case "type_definition":
		// typedef struct { ... } Name; names an otherwise anonymous record.
		typeNode := node.ChildByFieldName("type")
		if typeNode != nil && recordKinds[typeNode.Kind()] != "" && typeNode.ChildByFieldName("name") == nil {
			if alias := findChildByType(node, "type_identifier"); alias != nil {
				w.visitRecord(typeNode, scope, extractNodeText(alias, w.source))
				return
			}
		}

	case "function_definition", "lambda_expression":
		// Types local to a function body are not part of the public shape.
		return
	}

	w.visitChildren(node, scope)
}

func (w *recordWalker) visitChildren(node *sitter.Node, scope []string) {
	for _, child := range children(node) {
		w.visit(child, scope)
	}
}

// visitRecord records a record definition and then descends into its body for
// nested records. alias names an anonymous record declared through typedef.
func (w *recordWalker) visitRecord(node *sitter.Node, scope []string, alias string) {
	body := node.ChildByFieldName("body")
	if body == nil {
		// Forward declaration or elaborated type use.
		return
	}

	name := alias
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = normalizeSpace(extractNodeText(nameNode, w.source))
	}
	if name == "" {
		// Members of an anonymous record are attributed to the enclosing
		// record by recordMembers; only nested named records are visited.
		w.visitChildren(body, scope)
		return
	}

	qualified := name
	memberScope := scope
	if w.cpp {
		qualified = qualify(scope, name, "::")
		memberScope = push(scope, name)
	}

	idx := len(w.decls)
	w.decls = append(w.decls, extraction.Declaration{
		Name: qualified,
		Kind: recordKinds[node.Kind()],
		Line: nodeLine(node),
	})

	w.decls[idx].Members = w.recordMembers(body, qualified)

	w.visitChildren(body, memberScope)
}

// recordMembers collects the data members of a record body. Members of an
// anonymous struct or union are flattened into owner.
func (w *recordWalker) recordMembers(body *sitter.Node, owner string) []extraction.Member {
	var members []extraction.Member
	for _, child := range children(body) {
		if child.Kind() != "field_declaration" {
			continue
		}
		if inner := w.anonymousRecord(child); inner != nil {
			members = append(members, w.recordMembers(inner.ChildByFieldName("body"), owner)...)
			continue
		}
		members = append(members, w.fieldMembers(child, owner)...)
	}
	return members
}

// anonymousRecord returns the record defined by a field declaration such as
// "union { int i; float f; };", which has neither a tag nor a declarator.
func (w *recordWalker) anonymousRecord(field *sitter.Node) *sitter.Node {
	typeNode := field.ChildByFieldName("type")
	if typeNode == nil || recordKinds[typeNode.Kind()] == "" {
		return nil
	}
	if typeNode.ChildByFieldName("name") != nil || typeNode.ChildByFieldName("body") == nil {
		return nil
	}
	for _, child := range children(field) {
		if declaratorKinds[child.Kind()] {
			return nil
		}
	}
	return typeNode
}

// fieldMembers returns one member per declarator of a field declaration.
// Static members, method declarations and unnamed members are skipped.
func (w *recordWalker) fieldMembers(node *sitter.Node, owner string) []extraction.Member {
	for _, child := range children(node) {
		if child.Kind() == "storage_class_specifier" && extractNodeText(child, w.source) == "static" {
			return nil
		}
	}

	base := w.baseType(node)
	var members []extraction.Member
	for _, child := range children(node) {
		if !declaratorKinds[child.Kind()] {
			continue
		}
		typ, name, ok := w.declarator(child, base, "")
		if !ok || name == "" {
			continue
		}
		members = append(members, extraction.Member{
			Type: typ,
			Name: owner + "::" + name,
		})
	}
	return members
}

// baseType renders the declaration's type specifier with its qualifiers.
func (w *recordWalker) baseType(node *sitter.Node) string {
	var qualifiers []string
	for _, child := range children(node) {
		if child.Kind() != "type_qualifier" {
			continue
		}
		// mutable is a storage property, not part of the type.
		if text := extractNodeText(child, w.source); text != "mutable" {
			qualifiers = append(qualifiers, text)
		}
	}

	typeNode := node.ChildByFieldName("type")
	typeText := ""
	if typeNode != nil {
		typeText = w.typeSpecifier(typeNode)
	}

	return normalizeSpace(strings.Join(append(qualifiers, typeText), " "))
}

// typeSpecifier renders a type node. Inline record definitions are shortened
// to their tag so the field type does not carry the whole body.
func (w *recordWalker) typeSpecifier(typeNode *sitter.Node) string {
	keyword, isRecord := recordKinds[typeNode.Kind()]
	if !isRecord && typeNode.Kind() != "enum_specifier" {
		return extractNodeText(typeNode, w.source)
	}
	if !isRecord {
		keyword = "enum"
	}
	if typeNode.ChildByFieldName("body") == nil {
		return extractNodeText(typeNode, w.source)
	}
	if nameNode := typeNode.ChildByFieldName("name"); nameNode != nil {
		return keyword + " " + extractNodeText(nameNode, w.source)
	}
	return keyword + " (anonymous)"
}

// declarator unwraps a declarator into the member name and its full type.
// Pointers and references extend base directly; array extents accumulate in
// suffix so that int a[2][3] renders as "int [2][3]" and int *a[3] as
// "int *[3]". ok is false for method declarations.
func (w *recordWalker) declarator(node *sitter.Node, base, suffix string) (typ, name string, ok bool) {
	if node == nil {
		return "", "", false
	}

	switch node.Kind() {
	case "field_identifier", "identifier":
		typ = base
		switch {
		case suffix == "":
		case strings.HasSuffix(base, "*") || strings.HasSuffix(base, "&"):
			typ += suffix
		default:
			typ += " " + suffix
		}
		return typ, extractNodeText(node, w.source), true

	case "pointer_declarator":
		ptr := pointerSuffix(base, "*")
		for _, child := range children(node) {
			if child.Kind() == "type_qualifier" {
				ptr += " " + extractNodeText(child, w.source)
			}
		}
		return w.declarator(node.ChildByFieldName("declarator"), ptr, suffix)

	case "reference_declarator":
		ref := "&"
		if hasChildToken(node, w.source, "&&") {
			ref = "&&"
		}
		inner := lastNamedChild(node)
		if inner == nil {
			return "", "", false
		}
		return w.declarator(inner, pointerSuffix(base, ref), suffix)

	case "array_declarator":
		size := ""
		if sizeNode := node.ChildByFieldName("size"); sizeNode != nil {
			size = normalizeSpace(extractNodeText(sizeNode, w.source))
		}
		return w.declarator(node.ChildByFieldName("declarator"), base, "["+size+"]"+suffix)

	case "function_declarator":
		inner := node.ChildByFieldName("declarator")
		if inner == nil || inner.Kind() != "parenthesized_declarator" {
			// A method declaration, not a data member.
			return "", "", false
		}
		params := normalizeSpace(extractNodeText(node.ChildByFieldName("parameters"), w.source))
		name = innermostName(inner, w.source)
		return base + " (*)" + params, name, name != ""

	case "parenthesized_declarator":
		inner := lastNamedChild(node)
		if inner == nil {
			return "", "", false
		}
		return w.declarator(inner, base, suffix)
	}

	return "", "", false
}

func pointerSuffix(base, marker string) string {
	if strings.HasSuffix(base, "*") || strings.HasSuffix(base, "&") {
		return base + marker
	}
	return base + " " + marker
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil || node.NamedChildCount() == 0 {
		return nil
	}
	return node.NamedChild(node.NamedChildCount() - 1)
}

// innermostName finds the identifier wrapped by nested declarators.
func innermostName(node *sitter.Node, source []byte) string {
	var name string
	walkTree(node, func(n *sitter.Node) bool {
		if name != "" {
			return false
		}
		if n.Kind() == "field_identifier" || n.Kind() == "identifier" {
			name = extractNodeText(n, source)
			return false
		}
		return true
	})
	return name
}
