package parsers

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// pythonParser extracts classes with annotated attributes from Python files.
// Only annotated names count as fields: class-level "x: int" and "self.x: int"
// inside __init__.
type pythonParser struct {
	*treeSitterParser
}

// NewPythonParser creates a new Python parser.
func NewPythonParser() *pythonParser {
	lang := sitter.NewLanguage(python.Language())
	return &pythonParser{
		treeSitterParser: newTreeSitterParser(lang, "python"),
	}
}

// ParseSource parses a Python source file. Names are qualified with the
// module name derived from the file path.
func (p *pythonParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	return p.parse(ctx, filePath, source, func(root *sitter.Node) []extraction.Declaration {
		w := &pythonWalker{source: source}
		w.visitBlock(root, []string{pythonModule(filePath)})
		return w.decls
	})
}

// pythonModule returns the module name for a file. A package's __init__.py
// takes the name of its directory.
func pythonModule(filePath string) string {
	stem := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	if stem == "__init__" {
		if dir := filepath.Base(filepath.Dir(filePath)); dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return stem
}

type pythonWalker struct {
	source []byte
	decls  []extraction.Declaration
}

// visitBlock visits the statements of a module or class body. Function bodies
// are not entered.
func (w *pythonWalker) visitBlock(node *sitter.Node, scope []string) {
	for _, child := range children(node) {
		if class := classNode(child); class != nil {
			w.visitClass(class, scope)
			continue
		}
		switch child.Kind() {
		case "if_statement", "try_statement", "else_clause", "elif_clause", "except_clause", "finally_clause", "block":
			w.visitBlock(child, scope)
		}
	}
}

// classNode unwraps a decorated class definition.
func classNode(node *sitter.Node) *sitter.Node {
	switch node.Kind() {
	case "class_definition":
		return node
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil && def.Kind() == "class_definition" {
			return def
		}
	}
	return nil
}

func (w *pythonWalker) visitClass(node *sitter.Node, scope []string) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return
	}

	name := extractNodeText(nameNode, w.source)
	qualified := qualify(scope, name, ".")
	decl := extraction.Declaration{
		Name: qualified,
		Kind: "class",
		Line: nodeLine(node),
	}

	seen := make(map[string]bool)
	add := func(typ, field string) {
		if seen[field] || isClassVar(typ) {
			return
		}
		seen[field] = true
		decl.Members = append(decl.Members, extraction.Member{
			Type: typ,
			Name: qualified + "." + field,
		})
	}

	for _, stmt := range children(body) {
		switch stmt.Kind() {
		case "expression_statement":
			if typ, field, ok := w.annotation(stmt, false); ok {
				add(typ, field)
			}

		case "function_definition", "decorated_definition":
			fn := stmt
			if stmt.Kind() == "decorated_definition" {
				fn = stmt.ChildByFieldName("definition")
			}
			if fn == nil || fn.Kind() != "function_definition" {
				continue
			}
			if fnName := fn.ChildByFieldName("name"); fnName == nil || extractNodeText(fnName, w.source) != "__init__" {
				continue
			}
			walkTree(fn.ChildByFieldName("body"), func(n *sitter.Node) bool {
				switch n.Kind() {
				case "function_definition", "class_definition", "lambda":
					return false
				case "expression_statement":
					if typ, field, ok := w.annotation(n, true); ok {
						add(typ, field)
					}
					return false
				}
				return true
			})
		}
	}

	w.decls = append(w.decls, decl)
	w.visitBlock(body, push(scope, name))
}

// annotation reads an annotated assignment statement. With onSelf, only
// "self.name: T" targets are accepted; otherwise only bare identifiers.
func (w *pythonWalker) annotation(stmt *sitter.Node, onSelf bool) (typ, field string, ok bool) {
	if stmt.NamedChildCount() == 0 {
		return "", "", false
	}
	assign := stmt.NamedChild(0)
	if assign.Kind() != "assignment" {
		return "", "", false
	}
	typeNode := assign.ChildByFieldName("type")
	left := assign.ChildByFieldName("left")
	if typeNode == nil || left == nil {
		return "", "", false
	}

	typ = normalizeSpace(extractNodeText(typeNode, w.source))
	switch {
	case !onSelf && left.Kind() == "identifier":
		return typ, extractNodeText(left, w.source), true

	case onSelf && left.Kind() == "attribute":
		object := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if object == nil || attr == nil || extractNodeText(object, w.source) != "self" {
			return "", "", false
		}
		return typ, extractNodeText(attr, w.source), true
	}
	return "", "", false
}

// isClassVar reports whether an annotation marks a class variable rather than
// an instance field.
func isClassVar(typ string) bool {
	return typ == "ClassVar" || typ == "typing.ClassVar" ||
		strings.HasPrefix(typ, "ClassVar[") || strings.HasPrefix(typ, "typing.ClassVar[")
}
