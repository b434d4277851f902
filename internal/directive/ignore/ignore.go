// Package ignore handles //autobox:ignore directives.
package ignore

import (
	"go/ast"
	"go/token"
	"sort"
	"strings"
)

// Entry tracks an ignore directive and its usage.
type Entry struct {
	Pos    token.Pos // Position of the ignore comment
	Labels []string  // Effect labels to drop (empty = the whole call)
	used   bool
}

// All reports whether the directive drops the whole call.
func (e *Entry) All() bool {
	return len(e.Labels) == 0
}

// Map tracks ignore entries by line number.
type Map map[int]*Entry

// Build scans a file for ignore comments and returns a map.
func Build(fset *token.FileSet, file *ast.File) Map {
	m := make(Map)

	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if labels, ok := parseComment(c.Text); ok {
				line := fset.Position(c.Pos()).Line
				m[line] = &Entry{
					Pos:    c.Pos(),
					Labels: labels,
				}
			}
		}
	}

	return m
}

// parseComment parses an ignore directive and returns the effect labels.
// Returns nil slice if no labels are specified (ignore the call).
// Returns false if not an ignore comment.
func parseComment(text string) ([]string, bool) {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "autobox:ignore") {
		return nil, false
	}

	rest := strings.TrimPrefix(text, "autobox:ignore")
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return nil, false // e.g. autobox:ignored
	}
	rest = strings.TrimSpace(rest)

	// Stop at comment markers: " - ", " // ", or " //"
	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, " //"); idx >= 0 {
		rest = rest[:idx]
	}
	if strings.HasPrefix(rest, "- ") || rest == "-" {
		return nil, true
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, true
	}

	var labels []string
	for _, part := range strings.Split(rest, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}

	return labels, true
}

// Lookup returns the directive covering a call on line: one on the same
// line wins over one on the line before. The returned entry is marked used.
func (m Map) Lookup(line int) (*Entry, bool) {
	for _, l := range []int{line, line - 1} {
		if entry, ok := m[l]; ok {
			entry.used = true
			return entry, true
		}
	}
	return nil, false
}

// Unused returns directives no call was found for, in source order.
func (m Map) Unused() []*Entry {
	var unused []*Entry
	for _, entry := range m {
		if !entry.used {
			unused = append(unused, entry)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Pos < unused[j].Pos })
	return unused
}
