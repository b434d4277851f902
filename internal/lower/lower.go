// Package lower translates Go function bodies into the straight-line
// statement language of [funcspec.Stmt].
package lower

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/mpyw/autobox/internal/directive/ignore"
	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/funcspec"
	"github.com/mpyw/autobox/internal/typeutil"
)

// Context carries what lowering needs from the type checker.
type Context struct {
	Fset    *token.FileSet
	Info    *types.Info
	Ignores ignore.Map // of the file containing the function; may be nil
}

// Func lowers decl into an inferred spec named key.
//
// Lowering stops at the first construct outside the statement language
// and records it as [funcspec.Unsupported]; the engine aborts there.
func Func(ctx *Context, key string, decl *ast.FuncDecl) *funcspec.Spec {
	l := &lowerer{
		ctx:   ctx,
		names: make(map[types.Object]string),
		seen:  make(map[string]int),
	}
	l.declareParams(decl.Type)

	spec := &funcspec.Spec{
		Name:   key,
		Kind:   funcspec.KindInferred,
		Params: Params(decl.Type),
		Pos:    decl.Pos(),
	}
	if decl.Body != nil {
		l.block(decl.Body.List)
	}
	spec.Body = l.out
	return spec
}

// Params returns the parameter names of a function type. Blank and
// unnamed parameters get positional names that no Go identifier can take.
func Params(ft *ast.FuncType) []string {
	var params []string
	if ft.Params == nil {
		return nil
	}
	for _, field := range ft.Params.List {
		if len(field.Names) == 0 {
			params = append(params, fmt.Sprintf("#%d", len(params)))
			continue
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				params = append(params, fmt.Sprintf("#%d", len(params)))
				continue
			}
			params = append(params, name.Name)
		}
	}
	return params
}

type lowerer struct {
	ctx   *Context
	out   []funcspec.Stmt
	temps int
	done  bool // an unsupported construct was emitted

	// names maps each local variable to its binding name. A variable
	// shadowing an earlier one of the same spelling is named "p#2", "p#3"...
	names map[types.Object]string
	seen  map[string]int
}

func (l *lowerer) declareParams(ft *ast.FuncType) {
	if ft.Params == nil {
		return
	}
	for _, field := range ft.Params.List {
		for _, id := range field.Names {
			if id.Name != "_" {
				l.name(id)
			}
		}
	}
}

// name returns the binding name of the variable id refers to.
// Package-level objects keep their spelling.
func (l *lowerer) name(id *ast.Ident) string {
	obj, ok := l.ctx.Info.ObjectOf(id).(*types.Var)
	if !ok || obj.Pkg() == nil || obj.Parent() == obj.Pkg().Scope() {
		return id.Name
	}
	if n, ok := l.names[obj]; ok {
		return n
	}

	l.seen[id.Name]++
	n := id.Name
	if c := l.seen[id.Name]; c > 1 {
		n = fmt.Sprintf("%s#%d", id.Name, c)
	}
	l.names[obj] = n
	return n
}

func (l *lowerer) temp() string {
	l.temps++
	return fmt.Sprintf("#tmp%d", l.temps)
}

func (l *lowerer) emit(s funcspec.Stmt) {
	if !l.done {
		l.out = append(l.out, s)
	}
}

func (l *lowerer) unsupported(node ast.Node, construct string) {
	l.emit(funcspec.Unsupported{Construct: construct, Pos: node.Pos()})
	l.done = true
}

func (l *lowerer) block(stmts []ast.Stmt) {
	for _, s := range stmts {
		if l.done {
			return
		}
		l.stmt(s)
	}
}

func (l *lowerer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		l.assign(s)

	case *ast.DeclStmt:
		l.declStmt(s)

	case *ast.ExprStmt:
		call, ok := ast.Unparen(s.X).(*ast.CallExpr)
		if !ok {
			return
		}
		l.call("", call)

	case *ast.ReturnStmt:
		ret := funcspec.Return{Pos: s.Pos()}
		if len(s.Results) > 0 {
			ret.Value = l.value(s.Results[0])
		}
		l.emit(ret)
		l.done = true

	case *ast.BlockStmt:
		l.block(s.List)

	case *ast.EmptyStmt, *ast.IncDecStmt:
		// no string value flows through these

	case *ast.IfStmt:
		l.unsupported(s, "if statement")
	case *ast.ForStmt:
		l.unsupported(s, "for statement")
	case *ast.RangeStmt:
		l.unsupported(s, "range statement")
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		l.unsupported(s, "switch statement")
	case *ast.SelectStmt:
		l.unsupported(s, "select statement")
	case *ast.GoStmt:
		l.unsupported(s, "go statement")
	case *ast.DeferStmt:
		l.unsupported(s, "defer statement")
	case *ast.LabeledStmt:
		l.unsupported(s, "labeled statement")
	case *ast.BranchStmt:
		l.unsupported(s, s.Tok.String()+" statement")
	case *ast.SendStmt:
		l.unsupported(s, "send statement")
	default:
		l.unsupported(s, fmt.Sprintf("%T", s))
	}
}

func (l *lowerer) assign(s *ast.AssignStmt) {
	switch s.Tok {
	case token.ASSIGN, token.DEFINE:
	case token.ADD_ASSIGN:
		if len(s.Lhs) == 1 && typeutil.IsString(l.ctx.Info, s.Lhs[0]) {
			target := l.target(s.Lhs[0])
			value := expr.Cat(expr.Var(target), l.value(s.Rhs[0]))
			l.emit(funcspec.ExprAssign{Target: target, Value: value, Pos: s.Pos()})
			return
		}
		l.unsupported(s, "operator "+s.Tok.String())
		return
	default:
		l.unsupported(s, "operator "+s.Tok.String())
		return
	}

	// v, err := f(): the first result is the value.
	if len(s.Rhs) == 1 && len(s.Lhs) > 1 {
		if call, ok := ast.Unparen(s.Rhs[0]).(*ast.CallExpr); ok {
			l.call(l.target(s.Lhs[0]), call)
		}
		return
	}

	l.bindAll(s.Lhs, s.Rhs, s.Pos())
}

// bindAll lowers lhs... = rhs.... With several pairs every right-hand side
// goes through a temporary first, so a, b = b, a swaps.
func (l *lowerer) bindAll(lhs, rhs []ast.Expr, pos token.Pos) {
	if len(rhs) == 1 {
		l.bind(l.target(lhs[0]), rhs[0], pos)
		return
	}

	temps := make([]string, len(rhs))
	for i, r := range rhs {
		temps[i] = l.temp()
		l.bind(temps[i], r, pos)
	}
	for i, tmp := range temps {
		if i >= len(lhs) {
			break
		}
		if name := l.target(lhs[i]); name != "" {
			l.emit(funcspec.MoveAssign{Target: name, Source: tmp, Pos: pos})
		}
	}
}

func (l *lowerer) declStmt(s *ast.DeclStmt) {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return
	}
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if len(vs.Values) == 0 {
			for _, name := range vs.Names {
				if name.Name != "_" && typeutil.IsString(l.ctx.Info, name) {
					l.emit(funcspec.LiteralAssign{Target: l.name(name), Value: "", Pos: name.Pos()})
				}
			}
			continue
		}
		if len(vs.Values) == 1 && len(vs.Names) > 1 {
			if call, ok := ast.Unparen(vs.Values[0]).(*ast.CallExpr); ok {
				l.call(l.target(vs.Names[0]), call)
			}
			continue
		}
		lhs := make([]ast.Expr, len(vs.Names))
		for i, name := range vs.Names {
			lhs[i] = name
		}
		l.bindAll(lhs, vs.Values, vs.Pos())
	}
}

// bind lowers name = rhs into the most specific statement form.
func (l *lowerer) bind(name string, rhs ast.Expr, pos token.Pos) {
	if call, ok := ast.Unparen(rhs).(*ast.CallExpr); ok && !typeutil.IsConversion(l.ctx.Info, call) {
		l.call(name, call)
		return
	}
	if name == "" {
		// _ = x still lowers nested calls for their effects.
		l.value(rhs)
		return
	}

	if s, ok := typeutil.StringConst(l.ctx.Info, rhs); ok {
		l.emit(funcspec.LiteralAssign{Target: name, Value: s, Pos: pos})
		return
	}
	if id, ok := ast.Unparen(rhs).(*ast.Ident); ok {
		l.emit(funcspec.MoveAssign{Target: name, Source: l.name(id), Pos: pos})
		return
	}
	l.emit(funcspec.ExprAssign{Target: name, Value: l.value(rhs), Pos: pos})
}

// call emits a call assignment, lowering arguments first.
func (l *lowerer) call(name string, call *ast.CallExpr) {
	if typeutil.IsConversion(l.ctx.Info, call) {
		v := l.value(call)
		if name != "" {
			l.emit(funcspec.ExprAssign{Target: name, Value: v, Pos: call.Pos()})
		}
		return
	}

	fn := typeutil.CalleeOf(l.ctx.Info, call)
	if fn == nil {
		// builtins and calls through function values
		for _, a := range call.Args {
			l.value(a)
		}
		if name != "" {
			l.emit(funcspec.ExprAssign{Target: name, Value: opaque(call), Pos: call.Pos()})
		}
		return
	}

	if sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr); ok {
		// the receiver is not an argument, but calls inside it still run
		if !l.isPackage(sel.X) {
			l.value(sel.X)
		}
	}

	args := make([]expr.Expr, len(call.Args))
	for i, a := range call.Args {
		args[i] = l.value(a)
	}

	s := funcspec.CallAssign{
		Target: name,
		Callee: funcspec.NameOf(fn).Key(),
		Args:   args,
		Pos:    call.Pos(),
	}
	if l.ctx.Ignores != nil {
		line := l.ctx.Fset.Position(call.Pos()).Line
		if entry, ok := l.ctx.Ignores.Lookup(line); ok {
			s.IgnoreAll = entry.All()
			s.Ignore = entry.Labels
		}
	}
	l.emit(s)
}

// value lowers an operand. Nested calls are hoisted into temporaries.
func (l *lowerer) value(e ast.Expr) expr.Expr {
	if s, ok := typeutil.StringConst(l.ctx.Info, e); ok {
		return expr.Lit(s)
	}

	switch e := e.(type) {
	case *ast.ParenExpr:
		return l.value(e.X)

	case *ast.Ident:
		return expr.Var(l.name(e))

	case *ast.BinaryExpr:
		if e.Op == token.ADD && typeutil.IsString(l.ctx.Info, e) {
			return expr.Cat(l.value(e.X), l.value(e.Y))
		}
		l.unsupported(e, "operator "+e.Op.String())
		return opaque(e)

	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return l.value(e.X)
		}
		return opaque(e)

	case *ast.StarExpr:
		return l.value(e.X)

	case *ast.CallExpr:
		if typeutil.IsConversion(l.ctx.Info, e) {
			if len(e.Args) == 1 {
				return l.value(e.Args[0])
			}
			return opaque(e)
		}
		tmp := l.temp()
		l.call(tmp, e)
		return expr.Var(tmp)

	case *ast.FuncLit:
		l.unsupported(e, "function literal")
		return opaque(e)
	}

	return expr.Var(types.ExprString(e))
}

// target names the variable written by an assignment to lhs.
// Fields and index expressions are tracked by their source text.
func (l *lowerer) target(lhs ast.Expr) string {
	lhs = ast.Unparen(lhs)
	if id, ok := lhs.(*ast.Ident); ok {
		if id.Name == "_" {
			return ""
		}
		return l.name(id)
	}
	if star, ok := lhs.(*ast.StarExpr); ok {
		return l.target(star.X)
	}
	return types.ExprString(lhs)
}

func (l *lowerer) isPackage(e ast.Expr) bool {
	id, ok := ast.Unparen(e).(*ast.Ident)
	if !ok {
		return false
	}
	_, ok = l.ctx.Info.ObjectOf(id).(*types.PkgName)
	return ok
}

// opaque is the unresolved value of an expression lowering cannot follow.
func opaque(e ast.Expr) expr.Expr {
	return expr.Var(types.ExprString(e))
}
