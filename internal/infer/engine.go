package infer

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/mpyw/autobox/internal/binding"
	"github.com/mpyw/autobox/internal/eval"
	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/funcspec"
	"github.com/mpyw/autobox/internal/registry"
)

// Config holds engine options. The zero value is usable.
type Config struct {
	// MaxDepth bounds the number of inferred functions being walked at
	// once. Zero means no limit.
	MaxDepth int

	// Logger receives debug traces of the walk. Nil discards them.
	Logger *slog.Logger
}

// Effect is one side effect with its arguments substituted as far as the
// caller context allows.
type Effect struct {
	Label string
	Args  []expr.Expr

	// Origin is the declared function whose clause produced the effect.
	Origin string
}

// Outcome is the result of inferring one call.
type Outcome struct {
	Effects []Effect

	// Returns is the value of the call. Opaque calls return a variable
	// named after the callee, which is never bound.
	Returns expr.Expr

	// Updates holds post-call values of arguments, keyed by position.
	// Only declared functions update their arguments.
	Updates map[int]expr.Expr
}

// template is the body walk of an inferred function under symbolic
// parameters. Its parameter placeholders are owned by the function.
type template struct {
	effects []Effect
	returns expr.Expr
}

// Engine walks the call graph from one entry point.
//
// The engine owns its cache and recursion stack and is not safe for
// concurrent use. Analyze independent entry points with separate engines
// over the same registry.
type Engine struct {
	reg *registry.Registry
	cfg Config
	log *slog.Logger

	cache  map[string]*template
	broken map[string]bool
	stack  []string

	// cut is the lowest stack index whose walk was cut short by a cycle
	// or the depth limit since the innermost walk in progress started.
	// A template depending on a frame below its own is not cached.
	cut int

	diagnostics []Diagnostic
	reported    map[diagnosticKey]bool
}

// New creates an engine over reg.
func New(reg *registry.Registry, cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		reg:      reg,
		cfg:      cfg,
		log:      log,
		cache:    make(map[string]*template),
		broken:   make(map[string]bool),
		reported: make(map[diagnosticKey]bool),
		cut:      noCut,
	}
}

// Run infers the entry function with every parameter left symbolic.
func (e *Engine) Run(entry string) Outcome {
	var args []expr.Expr
	if spec, ok := e.reg.Lookup(entry); ok {
		for _, p := range spec.Params {
			args = append(args, expr.Var(p))
		}
	}
	return e.Infer(entry, args)
}

// Infer resolves the effects and return value of calling name with args.
func (e *Engine) Infer(name string, args []expr.Expr) Outcome {
	return e.call(name, args, token.NoPos)
}

func (e *Engine) call(name string, args []expr.Expr, pos token.Pos) Outcome {
	spec, ok := e.reg.Lookup(name)
	if !ok {
		e.diagnose(Diagnostic{
			Kind:     UnknownFunction,
			Function: name,
			Message:  fmt.Sprintf("unknown function %s treated as opaque", name),
			Pos:      pos,
		})
		return opaque(name)
	}

	if len(args) != len(spec.Params) {
		e.diagnose(Diagnostic{
			Kind:     Arity,
			Function: name,
			Subject:  fmt.Sprint(len(args)),
			Message:  fmt.Sprintf("%s called with %d arguments, want %d", name, len(args), len(spec.Params)),
			Pos:      pos,
		})
	}

	if e.broken[name] {
		return opaque(name)
	}

	if spec.Kind == funcspec.KindDeclared {
		out, err := e.declared(spec, args)
		if err != nil {
			e.fail(spec, err)
			return opaque(name)
		}
		return out
	}

	t, ok := e.template(spec, pos)
	if !ok {
		return opaque(name)
	}
	return instantiate(spec, t, args)
}

// declared evaluates a declared spec directly against the call arguments.
func (e *Engine) declared(spec *funcspec.Spec, args []expr.Expr) (Outcome, error) {
	env := bindParams(spec.Params, args)

	var out Outcome
	for _, c := range spec.Effects {
		values := make([]expr.Expr, len(c.Args))
		for i, a := range c.Args {
			v, err := eval.Evaluate(a, env)
			if err != nil {
				return Outcome{}, err
			}
			values[i] = v.Expr
		}

		if c.IsEval() {
			if len(values) != 1 || c.Output == "" {
				return Outcome{}, fmt.Errorf("%w: malformed eval clause", funcspec.ErrInvalidSpec)
			}
			env.BindOutput(c.Output, values[0])
			continue
		}

		out.Effects = append(out.Effects, Effect{Label: c.Label, Args: values, Origin: spec.Name})
		if c.Output != "" {
			env.BindOutput(c.Output, expr.Out(c.Output))
		}
	}

	for param, u := range spec.Updates {
		i := spec.ParamIndex(param)
		if i < 0 || i >= len(args) {
			continue
		}
		v, err := eval.Evaluate(u, env)
		if err != nil {
			return Outcome{}, err
		}
		if out.Updates == nil {
			out.Updates = make(map[int]expr.Expr)
		}
		out.Updates[i] = v.Expr
	}

	out.Returns = expr.Var(spec.Name + "()")
	if spec.Returns != nil {
		v, err := eval.Evaluate(spec.Returns, env)
		if err != nil {
			return Outcome{}, err
		}
		out.Returns = v.Expr
	}

	e.log.Debug("declared", "function", spec.Name, "effects", len(out.Effects))
	return out, nil
}

// template returns the cached body walk of an inferred function, walking
// it on first use. It reports false if the function is opaque here.
func (e *Engine) template(spec *funcspec.Spec, pos token.Pos) (*template, bool) {
	if t, ok := e.cache[spec.Name]; ok {
		return t, true
	}

	if i := slices.Index(e.stack, spec.Name); i >= 0 {
		e.cut = min(e.cut, i)
		e.diagnose(Diagnostic{
			Kind:     Cycle,
			Function: spec.Name,
			Subject:  e.stack[len(e.stack)-1],
			Message:  fmt.Sprintf("recursive call to %s from %s cut", spec.Name, e.stack[len(e.stack)-1]),
			Pos:      pos,
		})
		return nil, false
	}

	if e.cfg.MaxDepth > 0 && len(e.stack) >= e.cfg.MaxDepth {
		// every frame on the stack sees a shallower view than a fresh call
		e.cut = -1
		e.diagnose(Diagnostic{
			Kind:     DepthLimit,
			Function: spec.Name,
			Message:  fmt.Sprintf("depth limit %d reached at %s", e.cfg.MaxDepth, spec.Name),
			Pos:      pos,
		})
		return nil, false
	}

	depth := len(e.stack)
	e.stack = append(e.stack, spec.Name)
	outer := e.cut
	e.cut = noCut
	defer func() {
		e.stack = e.stack[:depth]
		e.cut = min(outer, e.cut)
	}()

	e.log.Debug("walk", "function", spec.Name, "depth", len(e.stack))

	t, err := e.walk(spec)
	if err != nil {
		e.fail(spec, err)
		return nil, false
	}

	// A cut at this frame or deeper recurs identically on every call. A cut
	// of a caller's frame only holds under this particular call chain.
	if e.cut >= depth {
		e.cache[spec.Name] = t
	} else {
		e.log.Debug("not cached", "function", spec.Name, "cut", e.cut)
	}
	return t, true
}

const noCut = math.MaxInt

// unsupportedError aborts the walk of a body.
type unsupportedError struct {
	construct string
	pos       token.Pos
}

func (err *unsupportedError) Error() string {
	return "unsupported " + err.construct
}

// walk traces an inferred body with parameters bound to placeholders.
func (e *Engine) walk(spec *funcspec.Spec) (*template, error) {
	env := binding.New()
	for _, p := range spec.Params {
		env.Bind(p, expr.Param(spec.Name, p))
	}

	t := &template{}
	for _, stmt := range spec.Body {
		switch s := stmt.(type) {
		case funcspec.LiteralAssign:
			env.Bind(s.Target, expr.Lit(s.Value))

		case funcspec.MoveAssign:
			if v, ok := env.Lookup(s.Source); ok {
				env.Bind(s.Target, v)
			} else {
				env.Bind(s.Target, expr.Var(s.Source))
			}

		case funcspec.ExprAssign:
			v, err := eval.Evaluate(s.Value, env)
			if err != nil {
				return nil, err
			}
			env.Bind(s.Target, v.Expr)

		case funcspec.CallAssign:
			if err := e.walkCall(env, t, s); err != nil {
				return nil, err
			}

		case funcspec.Return:
			if s.Value != nil {
				v, err := eval.Evaluate(s.Value, env)
				if err != nil {
					return nil, err
				}
				t.returns = v.Expr
			}
			return t, nil

		case funcspec.Unsupported:
			return nil, &unsupportedError{construct: s.Construct, pos: s.Pos}

		default:
			return nil, &unsupportedError{construct: fmt.Sprintf("%T", stmt), pos: stmt.StmtPos()}
		}
	}
	return t, nil
}

func (e *Engine) walkCall(env *binding.Env, t *template, s funcspec.CallAssign) error {
	if s.IgnoreAll {
		if s.Target != "" {
			env.Bind(s.Target, expr.Var(s.Callee+"()"))
		}
		return nil
	}

	args := make([]expr.Expr, len(s.Args))
	for i, a := range s.Args {
		v, err := eval.Evaluate(a, env)
		if err != nil {
			return err
		}
		args[i] = v.Expr
	}

	out := e.call(s.Callee, args, s.Pos)
	for _, eff := range out.Effects {
		if s.Ignores(eff.Label) {
			continue
		}
		t.effects = append(t.effects, eff)
	}

	for _, i := range slices.Sorted(maps.Keys(out.Updates)) {
		if v, ok := s.Args[i].(expr.Variable); ok && v.Owner == "" {
			env.Bind(v.Name, out.Updates[i])
		}
	}

	if s.Target != "" {
		env.Bind(s.Target, out.Returns)
	}
	return nil
}

// fail marks spec opaque for the rest of the run.
func (e *Engine) fail(spec *funcspec.Spec, err error) {
	e.broken[spec.Name] = true

	var u *unsupportedError
	if errors.As(err, &u) {
		e.diagnose(Diagnostic{
			Kind:     Unsupported,
			Function: spec.Name,
			Subject:  u.construct,
			Message:  fmt.Sprintf("%s: unsupported %s, inference aborted", spec.Name, u.construct),
			Pos:      u.pos,
		})
		return
	}

	kind := InvalidSpec
	if errors.Is(err, eval.ErrDanglingOutput) {
		kind = DanglingOutput
	}
	e.diagnose(Diagnostic{
		Kind:     kind,
		Function: spec.Name,
		Subject:  err.Error(),
		Message:  fmt.Sprintf("%s: %v", spec.Name, err),
		Pos:      spec.Pos,
	})
}

func bindParams(params []string, args []expr.Expr) *binding.Env {
	env := binding.New()
	for i, p := range params {
		if i < len(args) {
			env.Bind(p, args[i])
		}
	}
	return env
}

func opaque(name string) Outcome {
	return Outcome{Returns: expr.Var(name + "()")}
}

// instantiate substitutes the call arguments into a cached template.
// Only placeholders owned by spec are replaced; a missing argument leaves
// the parameter symbolic under its own name.
func instantiate(spec *funcspec.Spec, t *template, args []expr.Expr) Outcome {
	subst := func(e expr.Expr) expr.Expr {
		return expr.Fold(expr.Substitute(e, func(v expr.Variable) (expr.Expr, bool) {
			if v.Owner != spec.Name {
				return nil, false
			}
			if i := spec.ParamIndex(v.Name); i >= 0 && i < len(args) {
				return args[i], true
			}
			return expr.Var(v.Name), true
		}))
	}

	out := Outcome{Effects: make([]Effect, len(t.effects))}
	for i, eff := range t.effects {
		values := make([]expr.Expr, len(eff.Args))
		for j, a := range eff.Args {
			values[j] = subst(a)
		}
		out.Effects[i] = Effect{Label: eff.Label, Args: values, Origin: eff.Origin}
	}

	if t.returns != nil {
		out.Returns = subst(t.returns)
	} else {
		out.Returns = expr.Var(spec.Name + "()")
	}
	return out
}
