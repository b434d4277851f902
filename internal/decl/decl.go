// Package decl loads external effect declarations from YAML files.
//
// A declaration file describes functions whose bodies the analyzer cannot
// see, typically standard library or third-party calls:
//
//	version: 1.0.0
//	functions:
//	  - name: os.ReadFile
//	    params: [name]
//	    effects: ["reads_file(name)"]
//	  - name: path/filepath.Join
//	    params: [a, b]
//	    returns: "a + '/' + b"
//
// Names are qualified as pkg/path.Func or pkg/path.Type.Method and
// registered under their flat key.
package decl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/autobox/internal/expr"
	"github.com/mpyw/autobox/internal/funcspec"
)

// SupportedVersions is the range of file format versions this package reads.
const SupportedVersions = "^1.0.0"

// ErrVersion is returned when a file's format version is missing or
// outside [SupportedVersions].
var ErrVersion = errors.New("unsupported declaration file version")

// File is the top-level document.
type File struct {
	Version   string     `yaml:"version"`
	Functions []Function `yaml:"functions"`
}

// Function is one declared function.
type Function struct {
	Name    string            `yaml:"name"`
	Params  []string          `yaml:"params,omitempty"`
	Effects []string          `yaml:"effects,omitempty"`
	Updates map[string]string `yaml:"updates,omitempty"`
	Returns string            `yaml:"returns,omitempty"`
}

// LoadFile reads the declaration file at path.
func LoadFile(path string) ([]*funcspec.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	specs, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Load decodes a declaration document and converts every function.
// Unknown fields are rejected. Conversion errors of all functions are
// joined.
func Load(r io.Reader) ([]*funcspec.Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrVersion)
		}
		return nil, err
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}

	var (
		specs []*funcspec.Spec
		errs  []error
	)
	for i, fn := range f.Functions {
		spec, err := fn.Spec()
		if err != nil {
			errs = append(errs, fmt.Errorf("functions[%d]: %w", i, err))
			continue
		}
		specs = append(specs, spec)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return specs, nil
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("%w: version is required", ErrVersion)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrVersion, v, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrVersion, version, SupportedVersions)
	}
	return nil
}

// Spec converts f into a validated declared spec.
func (f Function) Spec() (*funcspec.Spec, error) {
	if f.Name == "" {
		return nil, errors.New("function without name")
	}

	spec := &funcspec.Spec{
		Name:   funcspec.ParseName(f.Name).Key(),
		Kind:   funcspec.KindDeclared,
		Params: slices.Clone(f.Params),
	}

	for _, text := range f.Effects {
		c, err := funcspec.ParseClause(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		spec.Effects = append(spec.Effects, c)
	}

	if len(f.Updates) > 0 {
		spec.Updates = make(map[string]expr.Expr, len(f.Updates))
		for param, text := range f.Updates {
			e, err := expr.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("%s: update of %s: %w", f.Name, param, err)
			}
			spec.Updates[param] = e
		}
	}

	if f.Returns != "" {
		e, err := expr.Parse(f.Returns)
		if err != nil {
			return nil, fmt.Errorf("%s: returns: %w", f.Name, err)
		}
		spec.Returns = e
	}

	funcspec.BindOutputs(spec)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// FromSpec renders a declared spec back into its file form.
func FromSpec(s *funcspec.Spec) Function {
	f := Function{
		Name:   s.Name,
		Params: slices.Clone(s.Params),
	}
	for _, c := range s.Effects {
		f.Effects = append(f.Effects, c.String())
	}
	if len(s.Updates) > 0 {
		f.Updates = make(map[string]string, len(s.Updates))
		for _, param := range slices.Sorted(maps.Keys(s.Updates)) {
			f.Updates[param] = expr.Source(s.Updates[param])
		}
	}
	if s.Returns != nil {
		f.Returns = expr.Source(s.Returns)
	}
	return f
}
