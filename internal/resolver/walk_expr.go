package resolver

import (
	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/types"
)

// expr type-checks one expression tree, annotating every node. It never
// aborts: on failure it reports, annotates Any, and keeps going so one pass
// surfaces every defect.
func (r *resolver) expr(e ast.Expr) *types.Type {
	t := r.exprInner(e)
	if t == nil {
		t = types.AnyType
	}
	r.res.Types[e] = t
	return t
}

func (r *resolver) exprInner(e ast.Expr) *types.Type {
	switch ex := e.(type) {
	case *ast.IntLit:
		return types.IntType
	case *ast.RealLit:
		return types.RealType
	case *ast.StringLit:
		return types.StringType
	case *ast.BoolLit:
		return types.BoolType
	case *ast.NullLit:
		return types.AnyType

	case *ast.Ident:
		return r.ident(ex)

	case *ast.ArrayLit:
		return r.arrayLit(ex)

	case *ast.Call:
		return r.call(ex)

	case *ast.Unary:
		return r.unary(ex)

	case *ast.Binary:
		return r.binary(ex)

	case *ast.Index:
		xt := r.expr(ex.X)
		it := r.expr(ex.Idx)
		if !it.AssignableTo(types.IntType) {
			r.errorf(diag.TypBadOperand, ex.Idx.Span(), "array index must be Int, found %s", it)
		}
		switch xt.Kind {
		case types.Array:
			return xt.Elem
		case types.Any:
			return types.AnyType
		default:
			r.errorf(diag.TypBadOperand, ex.X.Span(), "cannot index into %s", xt)
			return types.AnyType
		}

	default:
		return types.AnyType
	}
}

// ident resolves a name reference: local scopes first, then the staged
// overlay, then the committed table (the overlay chains to it).
func (r *resolver) ident(ex *ast.Ident) *types.Type {
	if r.scope != nil {
		if l, ok := r.scope.lookup(ex.Name); ok {
			l.used = true
			return l.typ
		}
	}
	if d, ok := r.staging.Lookup(ex.Name); ok {
		if d.Callable() {
			r.errorf(diag.ResNotCallable, ex.Loc, "%s '%s' must be called", d.Kind, ex.Name)
			return types.AnyType
		}
		return d.ResultType()
	}
	r.errorf(diag.ResUndeclared, ex.Loc, "undeclared name '%s'", ex.Name)
	return types.AnyType
}

func (r *resolver) arrayLit(ex *ast.ArrayLit) *types.Type {
	if len(ex.Elems) == 0 {
		return types.ArrayOf(types.AnyType)
	}
	elem := r.expr(ex.Elems[0])
	for _, item := range ex.Elems[1:] {
		t := r.expr(item)
		if !t.AssignableTo(elem) && !elem.AssignableTo(t) {
			r.errorf(diag.TypBadElement, item.Span(),
				"array element type %s does not match %s", t, elem)
		} else if elem.AssignableTo(t) && !t.AssignableTo(elem) {
			// Widen, e.g. [1, 2.5] becomes [Real].
			elem = t
		}
	}
	return types.ArrayOf(elem)
}

// call resolves the callee through scope, staging, and committed table, then
// checks arity and argument types. The resolved definition is recorded for
// the lowering stage, which needs to tell local calls from remote task nodes.
func (r *resolver) call(ex *ast.Call) *types.Type {
	argTypes := make([]*types.Type, len(ex.Args))
	for i, a := range ex.Args {
		argTypes[i] = r.expr(a)
	}

	if r.scope != nil {
		if _, ok := r.scope.lookup(ex.Name); ok {
			r.errorf(diag.ResNotCallable, ex.NameLoc, "local variable '%s' is not callable", ex.Name)
			return types.AnyType
		}
	}

	d, ok := r.staging.Lookup(ex.Name)
	if !ok {
		r.errorf(diag.ResUndeclared, ex.NameLoc, "undeclared function '%s'", ex.Name)
		return types.AnyType
	}
	if !d.Callable() {
		r.errorf(diag.ResNotCallable, ex.NameLoc, "%s '%s' is not callable", d.Kind, ex.Name)
		return types.AnyType
	}

	sig := d.Signature
	if sig == nil {
		sig = &types.Signature{Ret: types.AnyType}
	}
	if len(argTypes) != len(sig.Params) {
		r.errorf(diag.ResArity, ex.Loc, "'%s' expects %d argument(s), found %d",
			ex.Name, len(sig.Params), len(argTypes))
	} else {
		for i, at := range argTypes {
			if !at.AssignableTo(sig.Params[i]) {
				r.errorf(diag.TypBadArgument, ex.Args[i].Span(),
					"argument %d of '%s': cannot pass %s as %s", i+1, ex.Name, at, sig.Params[i])
			}
		}
	}

	r.res.Calls[ex] = d
	ret := sig.Ret
	if ret == nil {
		ret = types.VoidType
	}
	return ret
}

func (r *resolver) unary(ex *ast.Unary) *types.Type {
	t := r.expr(ex.X)
	switch ex.Op {
	case ast.UnaryNeg:
		if t.Kind == types.Int || t.Kind == types.Real || t.Kind == types.Any {
			return t
		}
		r.errorf(diag.TypBadOperand, ex.X.Span(), "operator '-' needs a numeric operand, found %s", t)
	case ast.UnaryNot:
		if t.Kind == types.Bool || t.Kind == types.Any {
			return types.BoolType
		}
		r.errorf(diag.TypBadOperand, ex.X.Span(), "operator '!' needs a Bool operand, found %s", t)
	}
	return types.AnyType
}

func (r *resolver) binary(ex *ast.Binary) *types.Type {
	xt := r.expr(ex.X)
	yt := r.expr(ex.Y)

	switch ex.Op {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv, ast.BinMod:
		// String concatenation rides on '+'.
		if ex.Op == ast.BinAdd && (xt.Kind == types.String || yt.Kind == types.String) {
			if xt.AssignableTo(types.StringType) && yt.AssignableTo(types.StringType) {
				return types.StringType
			}
			r.errorf(diag.TypBadOperand, ex.Loc, "cannot concatenate %s and %s", xt, yt)
			return types.AnyType
		}
		return r.numericOp(ex, xt, yt)

	case ast.BinEq, ast.BinNe:
		if !xt.AssignableTo(yt) && !yt.AssignableTo(xt) {
			r.errorf(diag.TypBadOperand, ex.Loc, "cannot compare %s with %s", xt, yt)
		}
		return types.BoolType

	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if !isOrdered(xt) || !isOrdered(yt) {
			r.errorf(diag.TypBadOperand, ex.Loc, "operator '%s' needs numeric or String operands, found %s and %s",
				ex.Op, xt, yt)
		}
		return types.BoolType

	case ast.BinAnd, ast.BinOr:
		if !xt.AssignableTo(types.BoolType) {
			r.errorf(diag.TypBadOperand, ex.X.Span(), "operator '%s' needs Bool operands, found %s", ex.Op, xt)
		}
		if !yt.AssignableTo(types.BoolType) {
			r.errorf(diag.TypBadOperand, ex.Y.Span(), "operator '%s' needs Bool operands, found %s", ex.Op, yt)
		}
		return types.BoolType
	}
	return types.AnyType
}

func (r *resolver) numericOp(ex *ast.Binary, xt, yt *types.Type) *types.Type {
	if !isNumeric(xt) || !isNumeric(yt) {
		r.errorf(diag.TypBadOperand, ex.Loc, "operator '%s' needs numeric operands, found %s and %s",
			ex.Op, xt, yt)
		return types.AnyType
	}
	if xt.Kind == types.Any || yt.Kind == types.Any {
		return types.AnyType
	}
	if xt.Kind == types.Real || yt.Kind == types.Real {
		return types.RealType
	}
	return types.IntType
}

func isNumeric(t *types.Type) bool {
	return t.Kind == types.Int || t.Kind == types.Real || t.Kind == types.Any
}

func isOrdered(t *types.Type) bool {
	return isNumeric(t) || t.Kind == types.String
}
