// Package marker finds function-level //autobox: directives.
package marker

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/mpyw/autobox/internal/directive/declare"
)

// Directives holds the directives attached to one function declaration.
type Directives struct {
	Entrypoint bool // //autobox:entrypoint
	Infer      bool // //autobox:infer

	// Declare is the raw text of an //autobox:declare comment, if any.
	Declare    string
	DeclarePos token.Pos
}

// Map holds directives per function declaration of one file.
type Map map[*ast.FuncDecl]*Directives

// Build scans the doc comment of every function declaration in file.
func Build(file *ast.File) Map {
	m := make(Map)

	for _, d := range file.Decls {
		funcDecl, ok := d.(*ast.FuncDecl)
		if !ok || funcDecl.Doc == nil {
			continue
		}

		var dirs Directives
		found := false
		for _, c := range funcDecl.Doc.List {
			switch {
			case isMarker(c.Text, "entrypoint"):
				dirs.Entrypoint = true
			case isMarker(c.Text, "infer"):
				dirs.Infer = true
			case declare.IsDirective(c.Text):
				dirs.Declare = c.Text
				dirs.DeclarePos = c.Pos()
			default:
				continue
			}
			found = true
		}

		if found {
			m[funcDecl] = &dirs
		}
	}

	return m
}

// Entrypoint reports whether decl is marked as an entry point.
func (m Map) Entrypoint(decl *ast.FuncDecl) bool {
	d, ok := m[decl]
	return ok && d.Entrypoint
}

// Infer reports whether decl is explicitly marked for inference.
func (m Map) Infer(decl *ast.FuncDecl) bool {
	d, ok := m[decl]
	return ok && d.Infer
}

// Declared returns the declare directive of decl, if any.
func (m Map) Declared(decl *ast.FuncDecl) (string, bool) {
	d, ok := m[decl]
	if !ok || d.Declare == "" {
		return "", false
	}
	return d.Declare, true
}

// isMarker checks if a comment is the marker directive autobox:<name>.
func isMarker(text, name string) bool {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)
	rest, ok := strings.CutPrefix(text, "autobox:"+name)
	return ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t')
}
