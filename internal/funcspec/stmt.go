package funcspec

import (
	"go/token"

	"github.com/mpyw/autobox/internal/expr"
)

// Stmt is one normalized statement of an inferred function body.
// It is one of [LiteralAssign], [MoveAssign], [ExprAssign], [CallAssign],
// [Return] or [Unsupported].
type Stmt interface {
	StmtPos() token.Pos

	isStmt()
}

// LiteralAssign is x = "s".
type LiteralAssign struct {
	Target string
	Value  string
	Pos    token.Pos
}

// MoveAssign is x = y.
type MoveAssign struct {
	Target string
	Source string
	Pos    token.Pos
}

// ExprAssign is x = <concatenation>.
type ExprAssign struct {
	Target string
	Value  expr.Expr
	Pos    token.Pos
}

// CallAssign is x = f(a1, ..., an), or a bare call when Target is empty.
type CallAssign struct {
	Target string
	Callee string
	Args   []expr.Expr

	// IgnoreAll drops the call entirely; Ignore drops only effects with
	// the listed labels. Both come from ignore directives.
	IgnoreAll bool
	Ignore    []string

	Pos token.Pos
}

// Return ends the walk and defines the function's return value.
type Return struct {
	Value expr.Expr // nil for a bare return
	Pos   token.Pos
}

// Unsupported stands for any construct outside the statement language.
// Reaching it aborts inference of the enclosing function.
type Unsupported struct {
	Construct string
	Pos       token.Pos
}

func (s LiteralAssign) StmtPos() token.Pos { return s.Pos }
func (s MoveAssign) StmtPos() token.Pos    { return s.Pos }
func (s ExprAssign) StmtPos() token.Pos    { return s.Pos }
func (s CallAssign) StmtPos() token.Pos    { return s.Pos }
func (s Return) StmtPos() token.Pos        { return s.Pos }
func (s Unsupported) StmtPos() token.Pos   { return s.Pos }

func (LiteralAssign) isStmt() {}
func (MoveAssign) isStmt()    {}
func (ExprAssign) isStmt()    {}
func (CallAssign) isStmt()    {}
func (Return) isStmt()        {}
func (Unsupported) isStmt()   {}

// Ignores reports whether effects labeled label are dropped at this call.
func (s CallAssign) Ignores(label string) bool {
	if s.IgnoreAll {
		return true
	}
	for _, l := range s.Ignore {
		if l == label {
			return true
		}
	}
	return false
}
