// Package autobox provides a go/analysis based analyzer that infers the
// side effects reachable from entry-point functions.
package autobox

import (
	"errors"
	"flag"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/mpyw/autobox/internal/decl"
	"github.com/mpyw/autobox/internal/directive/declare"
	"github.com/mpyw/autobox/internal/directive/ignore"
	"github.com/mpyw/autobox/internal/directive/marker"
	"github.com/mpyw/autobox/internal/funcspec"
	"github.com/mpyw/autobox/internal/infer"
	"github.com/mpyw/autobox/internal/lower"
	"github.com/mpyw/autobox/internal/registry"
	"github.com/mpyw/autobox/internal/report"
)

// Flags for the analyzer.
var (
	declarations    string
	collision       string
	maxDepth        int
	showDiagnostics bool
	debug           bool
)

func init() {
	Analyzer.Flags.StringVar(&declarations, "declarations", "",
		"YAML file declaring effects of functions without visible bodies")
	Analyzer.Flags.StringVar(&collision, "collision", "reject",
		"policy for functions sharing a name: reject (first wins) or last-write-wins")
	Analyzer.Flags.IntVar(&maxDepth, "max-depth", 0,
		"maximum depth of inferred calls (0 = unlimited)")
	Analyzer.Flags.BoolVar(&showDiagnostics, "diagnostics", false,
		"also report where the analysis lost coverage (unknown functions, cycles, ...)")
	Analyzer.Flags.BoolVar(&debug, "debug", false,
		"trace the inference walk to stderr")
}

// Analyzer is the main analyzer for autobox.
var Analyzer = &analysis.Analyzer{
	Name:       "autobox",
	Doc:        "infers the side effects reachable from //autobox:entrypoint functions",
	Requires:   []*analysis.Analyzer{inspect.Analyzer},
	Run:        run,
	Flags:      flag.FlagSet{},
	FactTypes:  []analysis.Fact{new(Declarations)},
	ResultType: reflect.TypeOf((*Result)(nil)),
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

// Result holds the report of every entry point of a package, in source
// order.
type Result struct {
	Entries []*report.Report
}

// Report returns the report of the entry point with the given flat name.
func (r *Result) Report(name string) (*report.Report, bool) {
	for _, rep := range r.Entries {
		if rep.Entry == name {
			return rep, true
		}
	}
	return nil, false
}

// entry is an //autobox:entrypoint function of the current package.
type entry struct {
	key  string
	decl *ast.FuncDecl
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	policy, err := registry.ParseCollisionPolicy(collision)
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	// Build set of files to skip
	skipFiles := buildSkipFiles(pass)

	// Build directive maps for each file (excluding skipped files)
	ignoreMaps, markerMaps := buildDirectiveMaps(pass, skipFiles)

	// Collect specs of local functions and the entry points among them
	local, entries := collectLocal(pass, insp, ignoreMaps, markerMaps, skipFiles)

	// Export local specs for importing packages
	if len(local) > 0 {
		pass.ExportPackageFact(exportable(local))
	}

	reg, err := buildRegistry(pass, policy, local, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("registry built", "package", pass.Pkg.Path(), "functions", reg.Len(), "entrypoints", len(entries))

	result, err := runEntries(reg, entries, logger)
	if err != nil {
		return nil, err
	}

	reportResult(pass, entries, result)

	// Report unused ignore directives
	reportUnusedIgnores(pass, ignoreMaps)

	return result, nil
}

func newLogger() *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildSkipFiles creates a set of filenames to skip.
// Generated files are always skipped.
// Test files can be skipped via the driver's built-in -test flag.
func buildSkipFiles(pass *analysis.Pass) map[string]bool {
	skipFiles := make(map[string]bool)

	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename

		// Always skip generated files
		if ast.IsGenerated(file) {
			skipFiles[filename] = true
		}
	}

	return skipFiles
}

// buildDirectiveMaps creates ignore and marker maps for each file in the pass.
func buildDirectiveMaps(pass *analysis.Pass, skipFiles map[string]bool) (map[string]ignore.Map, map[string]marker.Map) {
	ignoreMaps := make(map[string]ignore.Map)
	markerMaps := make(map[string]marker.Map)

	for _, file := range pass.Files {
		filename := pass.Fset.Position(file.Pos()).Filename
		if skipFiles[filename] {
			continue
		}
		ignoreMaps[filename] = ignore.Build(pass.Fset, file)
		markerMaps[filename] = marker.Build(file)
	}

	return ignoreMaps, markerMaps
}

// collectLocal turns every function declaration into a spec: declared if it
// carries //autobox:declare, inferred from its body otherwise.
func collectLocal(
	pass *analysis.Pass,
	insp *inspector.Inspector,
	ignoreMaps map[string]ignore.Map,
	markerMaps map[string]marker.Map,
	skipFiles map[string]bool,
) ([]*funcspec.Spec, []entry) {
	var (
		specs   []*funcspec.Spec
		entries []entry
	)

	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)

		filename := pass.Fset.Position(fd.Pos()).Filename
		if skipFiles[filename] {
			return
		}

		// Nothing calls these by name.
		if fd.Name.Name == "_" || (fd.Recv == nil && fd.Name.Name == "init") {
			return
		}

		fn, ok := pass.TypesInfo.Defs[fd.Name].(*types.Func)
		if !ok {
			return
		}
		key := funcspec.NameOf(fn).Key()
		markers := markerMaps[filename]

		if text, ok := markers.Declared(fd); ok {
			if markers.Infer(fd) {
				pass.Reportf(fd.Name.Pos(), "%s is both declared and marked for inference; the declaration wins", funcspec.NameOf(fn).FullName())
			}
			spec, err := declaredSpec(text, key, fd)
			if err != nil {
				pass.Reportf(fd.Name.Pos(), "invalid autobox:declare directive: %v", err)
				return
			}
			specs = append(specs, spec)
		} else if fd.Body != nil {
			ctx := &lower.Context{Fset: pass.Fset, Info: pass.TypesInfo, Ignores: ignoreMaps[filename]}
			specs = append(specs, lower.Func(ctx, key, fd))
		}

		if markers.Entrypoint(fd) {
			entries = append(entries, entry{key: key, decl: fd})
		}
	})

	return specs, entries
}

func declaredSpec(text, key string, fd *ast.FuncDecl) (*funcspec.Spec, error) {
	d, err := declare.Parse(text)
	if err != nil {
		return nil, err
	}
	spec, err := d.Spec(key, lower.Params(fd.Type))
	if err != nil {
		return nil, err
	}
	spec.Pos = fd.Pos()
	return spec, nil
}

// buildRegistry merges, in order, the local functions, the -declarations
// file, and the facts of every dependency sorted by package path. Under
// the default policy an earlier spec shadows a later one of the same name.
func buildRegistry(pass *analysis.Pass, policy registry.CollisionPolicy, local []*funcspec.Spec, logger *slog.Logger) (*registry.Registry, error) {
	b := registry.NewBuilder(policy)

	for _, s := range local {
		if err := b.Add(s); err != nil {
			pass.Reportf(s.Pos, "%v", err)
		}
	}

	if declarations != "" {
		specs, err := decl.LoadFile(declarations)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			f := decl.FromSpec(s)
			if err := b.Add(s); err != nil {
				logger.Debug("shadowed declaration", "function", f.Name, "source", declarations)
				continue
			}
			logger.Debug("declaration", "function", f.Name, "params", f.Params, "effects", f.Effects, "returns", f.Returns)
		}
	}

	facts := pass.AllPackageFacts()
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].Package.Path() < facts[j].Package.Path()
	})
	for _, f := range facts {
		decls, ok := f.Fact.(*Declarations)
		if !ok || f.Package == pass.Pkg {
			continue
		}
		for _, s := range decls.Specs {
			if err := b.Add(s); err != nil {
				logger.Debug("shadowed declaration", "function", s.Name, "source", f.Package.Path())
			}
		}
	}

	return b.Build(), nil
}

// runEntries analyzes every entry point concurrently, one engine each.
func runEntries(reg *registry.Registry, entries []entry, logger *slog.Logger) (*Result, error) {
	result := &Result{Entries: make([]*report.Report, len(entries))}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range entries {
		g.Go(func() error {
			eng := infer.New(reg, infer.Config{MaxDepth: maxDepth, Logger: logger})
			result.Entries[i] = report.Run(eng, e.key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// reportResult reports effects at each entry point, followed by
// degradations when -diagnostics is set.
func reportResult(pass *analysis.Pass, entries []entry, result *Result) {
	for i, e := range entries {
		rep := result.Entries[i]
		for _, line := range rep.Render() {
			pass.Reportf(e.decl.Name.Pos(), "%s", line)
		}

		if !showDiagnostics {
			continue
		}
		for _, d := range rep.Diagnostics {
			pos := d.Pos
			if !inPackage(pass, pos) {
				pos = e.decl.Name.Pos()
			}
			pass.Reportf(pos, "%s", d)
		}
	}
}

func inPackage(pass *analysis.Pass, pos token.Pos) bool {
	if !pos.IsValid() {
		return false
	}
	for _, f := range pass.Files {
		if f.FileStart <= pos && pos <= f.FileEnd {
			return true
		}
	}
	return false
}

// reportUnusedIgnores reports any ignore directives that were not used.
func reportUnusedIgnores(pass *analysis.Pass, ignoreMaps map[string]ignore.Map) {
	filenames := make([]string, 0, len(ignoreMaps))
	for filename := range ignoreMaps {
		filenames = append(filenames, filename)
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		for _, unused := range ignoreMaps[filename].Unused() {
			pass.Reportf(unused.Pos, "unused autobox:ignore directive")
		}
	}
}
