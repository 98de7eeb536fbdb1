package parsers

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// goParser extracts struct types from Go files using the standard library's
// own front end.
type goParser struct{}

// NewGoParser creates a new Go parser.
func NewGoParser() *goParser {
	return &goParser{}
}

// ParseSource parses a Go source file. Only package-level struct types are
// extracted; embedded fields are named after their type.
func (p *goParser) ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, source, parser.SkipObjectResolution|parser.AllErrors)

	result := &FileExtraction{
		Language:     "go",
		FilePath:     filePath,
		Declarations: []extraction.Declaration{},
	}

	if err != nil {
		var list scanner.ErrorList
		if !errors.As(err, &list) || len(list) == 0 {
			return nil, err
		}
		first := list[0]
		result.Syntax = &SyntaxError{
			File:   filePath,
			Line:   first.Pos.Line,
			Column: first.Pos.Column,
			Msg:    first.Msg,
		}
	}
	if file == nil || file.Name == nil {
		return result, nil
	}

	pkg := file.Name.Name
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			result.Declarations = append(result.Declarations, p.structDecl(pkg, ts, st, fset, filePath))
		}
	}

	return result, nil
}

func (p *goParser) structDecl(pkg string, ts *ast.TypeSpec, st *ast.StructType, fset *token.FileSet, filePath string) extraction.Declaration {
	qualified := pkg + "." + ts.Name.Name
	decl := extraction.Declaration{
		Name:     qualified,
		Kind:     "struct",
		Language: "go",
		File:     filePath,
		Line:     fset.Position(ts.Pos()).Line,
	}
	if st.Fields == nil {
		return decl
	}

	for _, field := range st.Fields.List {
		typ := types.ExprString(field.Type)
		if len(field.Names) == 0 {
			decl.Members = append(decl.Members, extraction.Member{
				Type: typ,
				Name: qualified + "." + embeddedName(field.Type),
			})
			continue
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			decl.Members = append(decl.Members, extraction.Member{
				Type: typ,
				Name: qualified + "." + name.Name,
			})
		}
	}
	return decl
}

// embeddedName returns the implicit field name of an embedded type: the
// type name without package qualifier, pointer or type arguments.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	}
	return types.ExprString(expr)
}
