package funcspec

import (
	"go/types"
	"strings"
	"unicode"
)

// Name holds parsed components of a function name.
// Format: "pkg/path.Func" or "pkg/path.Type.Method".
type Name struct {
	PkgPath  string
	TypeName string // empty for package-level functions
	FuncName string
}

// ParseName parses a single function name into components.
// Format: "pkg/path.Func", "pkg/path.Type.Method", "Type.Method" or "Func".
func ParseName(s string) Name {
	name := Name{}

	lastDot := strings.LastIndex(s, ".")
	if lastDot == -1 {
		name.FuncName = s

		return name
	}

	name.FuncName = s[lastDot+1:]
	prefix := s[:lastDot]

	// Check if there's another dot (indicating Type.Method)
	// Type names start with uppercase in Go.
	secondLastDot := strings.LastIndex(prefix, ".")
	if secondLastDot != -1 {
		possibleType := prefix[secondLastDot+1:]
		if len(possibleType) > 0 && unicode.IsUpper(rune(possibleType[0])) {
			name.TypeName = possibleType
			name.PkgPath = prefix[:secondLastDot]

			return name
		}
	}

	// A bare "Type.Method" has no slash and an uppercase head.
	if prefix != "" && !strings.Contains(prefix, "/") && unicode.IsUpper(rune(prefix[0])) {
		name.TypeName = prefix

		return name
	}

	name.PkgPath = prefix

	return name
}

// NameOf returns the name of a types.Func.
func NameOf(fn *types.Func) Name {
	name := Name{FuncName: fn.Name()}
	if pkg := fn.Pkg(); pkg != nil {
		name.PkgPath = pkg.Path()
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return name
	}

	recvType := sig.Recv().Type()
	// Handle pointer receivers
	if ptr, ok := recvType.(*types.Pointer); ok {
		recvType = ptr.Elem()
	}

	switch t := recvType.(type) {
	case *types.Named:
		name.TypeName = t.Obj().Name()
	case *types.Alias:
		name.TypeName = t.Obj().Name()
	}

	return name
}

// Key returns the flat registry key: "Func" or "Type.Method".
// The package path is not part of it.
func (n Name) Key() string {
	if n.TypeName == "" {
		return n.FuncName
	}
	return n.TypeName + "." + n.FuncName
}

// FullName returns a human-readable name: "pkg.Func" or "pkg.Type.Method".
func (n Name) FullName() string {
	if n.PkgPath == "" {
		return n.Key()
	}
	return shortPkgName(n.PkgPath) + "." + n.Key()
}

// shortPkgName returns the last component of a package path.
func shortPkgName(pkgPath string) string {
	if idx := strings.LastIndex(pkgPath, "/"); idx >= 0 {
		return pkgPath[idx+1:]
	}
	return pkgPath
}
