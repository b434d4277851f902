package funcspec

import (
	"errors"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/mpyw/autobox/internal/expr"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantKey string
	}{
		{in: "fn_with_effects", want: Name{FuncName: "fn_with_effects"}, wantKey: "fn_with_effects"},
		{in: "os.ReadFile", want: Name{PkgPath: "os", FuncName: "ReadFile"}, wantKey: "ReadFile"},
		{
			in:      "github.com/example/pkg.Config.Load",
			want:    Name{PkgPath: "github.com/example/pkg", TypeName: "Config", FuncName: "Load"},
			wantKey: "Config.Load",
		},
		{
			in:      "gopkg.in/yaml.v3.Unmarshal",
			want:    Name{PkgPath: "gopkg.in/yaml.v3", FuncName: "Unmarshal"},
			wantKey: "Unmarshal",
		},
		{in: "Config.Load", want: Name{TypeName: "Config", FuncName: "Load"}, wantKey: "Config.Load"},
		{in: "net/http.Get", want: Name{PkgPath: "net/http", FuncName: "Get"}, wantKey: "Get"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseName(tt.in)
			if got != tt.want {
				t.Errorf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if key := got.Key(); key != tt.wantKey {
				t.Errorf("Key() = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestNameOf(t *testing.T) {
	pkg := types.NewPackage("example.com/app", "app")
	sig := types.NewSignatureType(nil, nil, nil, nil, nil, false)
	fn := types.NewFunc(token.NoPos, pkg, "Run", sig)

	if got := NameOf(fn); got != (Name{PkgPath: "example.com/app", FuncName: "Run"}) {
		t.Errorf("NameOf(func) = %+v", got)
	}

	obj := types.NewTypeName(token.NoPos, pkg, "Config", nil)
	named := types.NewNamed(obj, types.NewStruct(nil, nil), nil)
	recv := types.NewVar(token.NoPos, pkg, "c", types.NewPointer(named))
	msig := types.NewSignatureType(recv, nil, nil, nil, nil, false)
	method := types.NewFunc(token.NoPos, pkg, "Load", msig)

	got := NameOf(method)
	if got.Key() != "Config.Load" {
		t.Errorf("NameOf(method).Key() = %q, want %q", got.Key(), "Config.Load")
	}
	if got.FullName() != "app.Config.Load" {
		t.Errorf("FullName() = %q", got.FullName())
	}
}

func TestParseClause(t *testing.T) {
	tests := []struct {
		in   string
		want Clause
	}{
		{
			in:   "reads_file(A + '/' + B)",
			want: Clause{Label: "reads_file", Args: []expr.Expr{expr.Cat(expr.Var("A"), expr.Lit("/"), expr.Var("B"))}},
		},
		{
			in:   "read_file(bar, baz) as qux",
			want: Clause{Label: "read_file", Args: []expr.Expr{expr.Var("bar"), expr.Var("baz")}, Output: "qux"},
		},
		{
			in:   "eval(T + '/') as U",
			want: Clause{Label: "eval", Args: []expr.Expr{expr.Cat(expr.Var("T"), expr.Lit("/"))}, Output: "U"},
		},
		{
			in:   "clock()",
			want: Clause{Label: "clock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClause(tt.in)
			if err != nil {
				t.Fatalf("ParseClause(%q) error: %v", tt.in, err)
			}
			if got.Label != tt.want.Label || got.Output != tt.want.Output || len(got.Args) != len(tt.want.Args) {
				t.Fatalf("ParseClause(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			for i := range got.Args {
				if !expr.Equal(got.Args[i], tt.want.Args[i]) {
					t.Errorf("arg %d = %s, want %s", i, got.Args[i], tt.want.Args[i])
				}
			}
		})
	}
}

func TestParseClauses(t *testing.T) {
	clauses, err := ParseClauses("eval(T + '/') as U, eval(T), read_file(bar, baz) as qux")
	if err != nil {
		t.Fatal(err)
	}
	if len(clauses) != 3 {
		t.Fatalf("got %d clauses, want 3", len(clauses))
	}
	if clauses[0].Output != "U" || clauses[1].Output != "" || clauses[2].Output != "qux" {
		t.Errorf("outputs = %q %q %q", clauses[0].Output, clauses[1].Output, clauses[2].Output)
	}
	if got := clauses[2].String(); got != "read_file(bar, baz) as qux" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseClauseErrors(t *testing.T) {
	for _, in := range []string{
		"reads_file",
		"9x(a)",
		"reads_file(a",
		"reads_file(a +)",
		"reads_file(a) trailing",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseClause(in); !errors.Is(err, expr.ErrSyntax) {
				t.Errorf("ParseClause(%q) error = %v, want ErrSyntax", in, err)
			}
		})
	}
}

func declared(t *testing.T, params []string, effects string, returns string) *Spec {
	t.Helper()

	s := &Spec{Name: "f", Kind: KindDeclared, Params: params}
	if effects != "" {
		clauses, err := ParseClauses(effects)
		if err != nil {
			t.Fatal(err)
		}
		s.Effects = clauses
	}
	if returns != "" {
		r, err := expr.Parse(returns)
		if err != nil {
			t.Fatal(err)
		}
		s.Returns = r
	}
	BindOutputs(s)
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    func(t *testing.T) *Spec
		wantErr string
	}{
		{
			name: "valid",
			spec: func(t *testing.T) *Spec {
				return declared(t, []string{"A", "B"}, "eval(A + '/') as U, read_file(U + B) as O", "O")
			},
		},
		{
			name: "unknown name",
			spec: func(t *testing.T) *Spec {
				return declared(t, []string{"A"}, "read_file(Z)", "")
			},
			wantErr: `unknown name "Z"`,
		},
		{
			name: "forward output reference",
			spec: func(t *testing.T) *Spec {
				return declared(t, []string{"A"}, "read_file(O), eval(A) as O", "")
			},
			wantErr: `output "O" before it is bound`,
		},
		{
			name: "eval without output",
			spec: func(t *testing.T) *Spec {
				return declared(t, []string{"A"}, "eval(A)", "")
			},
			wantErr: "eval takes exactly one argument",
		},
		{
			name: "duplicate parameter",
			spec: func(t *testing.T) *Spec {
				return declared(t, []string{"A", "A"}, "", "")
			},
			wantErr: `duplicate parameter "A"`,
		},
		{
			name: "update of unknown parameter",
			spec: func(t *testing.T) *Spec {
				s := declared(t, []string{"A"}, "", "")
				s.Updates = map[string]expr.Expr{"B": expr.Var("A")}
				return s
			},
			wantErr: `update of unknown parameter "B"`,
		},
		{
			name: "inferred with effects",
			spec: func(t *testing.T) *Spec {
				s := declared(t, []string{"A"}, "read_file(A)", "")
				s.Kind = KindInferred
				return s
			},
			wantErr: "inferred function carries declared effects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec(t).Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("Validate() = %v, want ErrInvalidSpec", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestCallAssignIgnores(t *testing.T) {
	s := CallAssign{Callee: "f", Ignore: []string{"net_connect"}}
	if !s.Ignores("net_connect") || s.Ignores("reads_file") {
		t.Errorf("Ignores() mismatch for %+v", s)
	}
	s.IgnoreAll = true
	if !s.Ignores("reads_file") {
		t.Errorf("IgnoreAll should ignore every label")
	}
}
