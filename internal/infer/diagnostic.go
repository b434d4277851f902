package infer

import (
	"fmt"
	"go/token"
)

// DiagnosticKind classifies a degradation of the analysis.
type DiagnosticKind string

const (
	UnknownFunction DiagnosticKind = "unknown-function"
	DanglingOutput  DiagnosticKind = "dangling-output"
	Unsupported     DiagnosticKind = "unsupported"
	Cycle           DiagnosticKind = "cycle"
	DepthLimit      DiagnosticKind = "depth-limit"
	Arity           DiagnosticKind = "arity"
	InvalidSpec     DiagnosticKind = "invalid-spec"
)

// Diagnostic records one place where coverage was lost.
// None of them stop the run.
type Diagnostic struct {
	Kind     DiagnosticKind
	Function string // the function whose coverage degraded
	Subject  string // construct, binding or caller, depending on Kind
	Message  string
	Pos      token.Pos
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

type diagnosticKey struct {
	kind     DiagnosticKind
	function string
	subject  string
}

func (e *Engine) diagnose(d Diagnostic) {
	key := diagnosticKey{kind: d.Kind, function: d.Function, subject: d.Subject}
	if e.reported[key] {
		return
	}
	e.reported[key] = true
	e.diagnostics = append(e.diagnostics, d)
	e.log.Debug("degraded", "kind", string(d.Kind), "function", d.Function, "subject", d.Subject)
}

// Diagnostics returns every degradation recorded so far, in order of
// first occurrence.
func (e *Engine) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), e.diagnostics...)
}
