package autobox

import (
	"bytes"
	"encoding/gob"
	"go/token"
	"maps"
	"slices"
	"strings"

	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/funcspec"
)

// Declarations is a package fact carrying the specs of every function of
// a package, so that importing packages can infer through them.
type Declarations struct {
	Specs []*funcspec.Spec
}

// AFact implements analysis.Fact.
func (*Declarations) AFact() {}

func (d *Declarations) String() string {
	names := make([]string, len(d.Specs))
	for i, s := range d.Specs {
		names[i] = s.Name
	}
	return "declarations(" + strings.Join(names, ", ") + ")"
}

func init() {
	gob.Register(expr.Literal{})
	gob.Register(expr.Variable{})
	gob.Register(expr.Concat{})
	gob.Register(expr.EffectOutput{})

	gob.Register(funcspec.LiteralAssign{})
	gob.Register(funcspec.MoveAssign{})
	gob.Register(funcspec.ExprAssign{})
	gob.Register(funcspec.CallAssign{})
	gob.Register(funcspec.Return{})
	gob.Register(funcspec.Unsupported{})
}

// wireSpec is a spec with its updates flattened in parameter order, so
// that the encoding of a fact is deterministic.
type wireSpec struct {
	Spec    funcspec.Spec
	Updates []wireUpdate
}

type wireUpdate struct {
	Param string
	Value expr.Expr
}

// GobEncode implements gob.GobEncoder.
func (d *Declarations) GobEncode() ([]byte, error) {
	wire := make([]wireSpec, len(d.Specs))
	for i, s := range d.Specs {
		w := wireSpec{Spec: *s}
		w.Spec.Updates = nil
		for _, param := range slices.Sorted(maps.Keys(s.Updates)) {
			w.Updates = append(w.Updates, wireUpdate{Param: param, Value: s.Updates[param]})
		}
		wire[i] = w
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (d *Declarations) GobDecode(data []byte) error {
	var wire []wireSpec
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return err
	}

	d.Specs = make([]*funcspec.Spec, len(wire))
	for i, w := range wire {
		s := w.Spec
		if len(w.Updates) > 0 {
			s.Updates = make(map[string]expr.Expr, len(w.Updates))
			for _, u := range w.Updates {
				s.Updates[u.Param] = u.Value
			}
		}
		d.Specs[i] = &s
	}
	return nil
}

// exportable copies specs with positions cleared. Positions belong to the
// file set of the current pass and mean nothing to an importer.
func exportable(specs []*funcspec.Spec) *Declarations {
	out := make([]*funcspec.Spec, len(specs))
	for i, s := range specs {
		c := *s
		c.Pos = token.NoPos
		c.Body = nil
		for _, st := range s.Body {
			c.Body = append(c.Body, stripPos(st))
		}
		out[i] = &c
	}
	return &Declarations{Specs: out}
}

func stripPos(s funcspec.Stmt) funcspec.Stmt {
	switch s := s.(type) {
	case funcspec.LiteralAssign:
		s.Pos = token.NoPos
		return s
	case funcspec.MoveAssign:
		s.Pos = token.NoPos
		return s
	case funcspec.ExprAssign:
		s.Pos = token.NoPos
		return s
	case funcspec.CallAssign:
		s.Pos = token.NoPos
		return s
	case funcspec.Return:
		s.Pos = token.NoPos
		return s
	case funcspec.Unsupported:
		s.Pos = token.NoPos
		return s
	}
	return s
}
