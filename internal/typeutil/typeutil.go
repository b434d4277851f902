package typeutil

import (
	"go/ast"
	"go/constant"
	"go/types"
)

// CalleeOf returns the statically known function called by call, or nil
// for calls through function values, builtins and conversions.
func CalleeOf(info *types.Info, call *ast.CallExpr) *types.Func {
	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.Ident:
		if f, ok := info.ObjectOf(fun).(*types.Func); ok {
			return f
		}

	case *ast.SelectorExpr:
		if sel := info.Selections[fun]; sel != nil {
			if f, ok := sel.Obj().(*types.Func); ok {
				return f
			}
		} else if f, ok := info.ObjectOf(fun.Sel).(*types.Func); ok {
			return f
		}

	case *ast.IndexExpr: // generic instantiation f[T](...)
		return CalleeOf(info, &ast.CallExpr{Fun: fun.X})

	case *ast.IndexListExpr:
		return CalleeOf(info, &ast.CallExpr{Fun: fun.X})
	}

	return nil
}

// IsConversion reports whether call is a type conversion such as string(b).
func IsConversion(info *types.Info, call *ast.CallExpr) bool {
	tv, ok := info.Types[call.Fun]
	return ok && tv.IsType()
}

// StringConst returns the value of e if it is a constant string.
func StringConst(info *types.Info, e ast.Expr) (string, bool) {
	tv, ok := info.Types[e]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(tv.Value), true
}

// IsString reports whether the type of e has an underlying string type.
// It handles pointer types automatically.
func IsString(info *types.Info, e ast.Expr) bool {
	t := info.TypeOf(e)
	if t == nil {
		return false
	}
	basic, ok := unwrapPointer(t).Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsString != 0
}

// unwrapPointer returns the element type if t is a pointer, otherwise returns t.
func unwrapPointer(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		return ptr.Elem()
	}

	return t
}
