// Package report collects inferred effects into a deduplicated, ordered
// list and renders it.
package report

import (
	"strconv"
	"strings"

	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/infer"
)

// Instance is one reported side effect.
type Instance struct {
	Label    string
	Argument string // rendered arguments, comma separated

	// Resolved is true when every argument is a concrete string.
	Resolved bool
}

func (i Instance) String() string {
	return "Side effect: " + i.Label + "(" + i.Argument + ")"
}

// Collector is an ordered set of instances keyed by label and rendered
// argument. The first occurrence keeps its position.
type Collector struct {
	instances []Instance
	seen      map[string]bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[string]bool)}
}

// Add appends eff unless an equal instance is already present.
// It reports whether eff was new.
func (c *Collector) Add(eff infer.Effect) bool {
	inst := NewInstance(eff)
	key := inst.Label + "\x00" + inst.Argument
	if c.seen[key] {
		return false
	}
	c.seen[key] = true
	c.instances = append(c.instances, inst)
	return true
}

// Instances returns the collected instances in first-seen order.
func (c *Collector) Instances() []Instance {
	return append([]Instance(nil), c.instances...)
}

// NewInstance renders the arguments of eff.
func NewInstance(eff infer.Effect) Instance {
	inst := Instance{Label: eff.Label, Resolved: true}
	args := make([]string, len(eff.Args))
	for i, a := range eff.Args {
		a = expr.Fold(a)
		if !expr.IsResolved(a) {
			inst.Resolved = false
			args[i] = a.String()
			continue
		}
		args[i] = strconv.Quote(a.(expr.Literal).Value)
	}
	inst.Argument = strings.Join(args, ", ")
	return inst
}

// Report is the final result for one entry point.
type Report struct {
	Entry       string
	Instances   []Instance
	Diagnostics []infer.Diagnostic
}

// New builds a report from an effect stream and the degradations seen
// while producing it.
func New(entry string, effects []infer.Effect, diagnostics []infer.Diagnostic) *Report {
	c := NewCollector()
	for _, eff := range effects {
		c.Add(eff)
	}
	return &Report{
		Entry:       entry,
		Instances:   c.Instances(),
		Diagnostics: diagnostics,
	}
}

// Run analyzes entry with eng and builds its report.
func Run(eng *infer.Engine, entry string) *Report {
	out := eng.Run(entry)
	return New(entry, out.Effects, eng.Diagnostics())
}

// Render returns one "Side effect: label(argument)" line per instance.
func (r *Report) Render() []string {
	lines := make([]string, len(r.Instances))
	for i, inst := range r.Instances {
		lines[i] = inst.String()
	}
	return lines
}

// RenderDiagnostics returns one line per degradation.
func (r *Report) RenderDiagnostics() []string {
	lines := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		lines[i] = "Diagnostic: " + d.String()
	}
	return lines
}

// String renders effects followed by diagnostics, one per line.
func (r *Report) String() string {
	var b strings.Builder
	for _, line := range r.Render() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, line := range r.RenderDiagnostics() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
