package wir

import (
	"branec/internal/ast"
	"branec/internal/symbols"
)

// expr emits the instructions that leave the expression's value on the stack.
// Calls to remote tasks and workflow-local functions split the surrounding
// linear edge: arguments are pushed, the node or call edge runs, and the
// result is back on the stack for whatever follows.
func (b *builder) expr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.IntLit:
		b.emit(Instr{Op: OpPushInt, Int: ex.Value})
	case *ast.RealLit:
		b.emit(Instr{Op: OpPushReal, Real: ex.Value})
	case *ast.StringLit:
		b.emit(Instr{Op: OpPushStr, Str: ex.Value})
	case *ast.BoolLit:
		b.emit(Instr{Op: OpPushBool, Bool: ex.Value})
	case *ast.NullLit:
		b.emit(Instr{Op: OpPushNull})
	case *ast.Ident:
		b.emit(Instr{Op: OpVarGet, Var: ex.Name})
	case *ast.ArrayLit:
		for _, el := range ex.Elems {
			b.expr(el)
		}
		b.emit(Instr{Op: OpArray, Count: len(ex.Elems)})
	case *ast.Index:
		b.expr(ex.X)
		b.expr(ex.Idx)
		b.emit(Instr{Op: OpIndex})
	case *ast.Unary:
		b.expr(ex.X)
		switch ex.Op {
		case ast.UnaryNeg:
			b.emit(Instr{Op: OpNeg})
		case ast.UnaryNot:
			b.emit(Instr{Op: OpNot})
		}
	case *ast.Binary:
		b.expr(ex.X)
		b.expr(ex.Y)
		b.emit(Instr{Op: binaryOp(ex.Op)})
	case *ast.Call:
		b.call(ex)
	default:
		b.lw.invariantf("expression %T has no lowering", e)
	}
}

func (b *builder) call(ex *ast.Call) {
	for _, a := range ex.Args {
		b.expr(a)
	}

	d, ok := b.lw.res.Calls[ex]
	if !ok {
		b.lw.invariantf("call to '%s' reached lowering unresolved", ex.Name)
		return
	}

	if d.Flags&symbols.DefFlagBuiltin != 0 {
		b.emit(Instr{Op: OpBuiltin, Str: ex.Name, Count: len(ex.Args)})
		return
	}

	switch d.Kind {
	case symbols.DefTask:
		idx, ok := b.lw.taskIdx[ex.Name]
		if !ok {
			b.lw.invariantf("task '%s' missing from the document table", ex.Name)
			return
		}
		e := newEdge(EdgeNode)
		e.Task = idx
		b.pushNext(e)
	case symbols.DefFunction:
		idx, ok := b.lw.funcIdx[ex.Name]
		if !ok {
			b.lw.invariantf("function '%s' missing from the document table", ex.Name)
			return
		}
		e := newEdge(EdgeCall)
		e.Func = idx
		b.pushNext(e)
	default:
		b.lw.invariantf("call to %s '%s' reached lowering", d.Kind, ex.Name)
	}
}

func binaryOp(op ast.BinaryOp) Op {
	switch op {
	case ast.BinAdd:
		return OpAdd
	case ast.BinSub:
		return OpSub
	case ast.BinMul:
		return OpMul
	case ast.BinDiv:
		return OpDiv
	case ast.BinMod:
		return OpMod
	case ast.BinEq:
		return OpEq
	case ast.BinNe:
		return OpNe
	case ast.BinLt:
		return OpLt
	case ast.BinLe:
		return OpLe
	case ast.BinGt:
		return OpGt
	case ast.BinGe:
		return OpGe
	case ast.BinAnd:
		return OpAnd
	case ast.BinOr:
		return OpOr
	}
	return OpPushNull // unreachable
}
