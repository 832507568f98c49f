package ast

import (
	"branec/internal/source"
)

// Ident is a name reference.
type Ident struct {
	Name string
	Loc  source.Span
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Loc   source.Span
}

// RealLit is a floating point literal.
type RealLit struct {
	Value float64
	Loc   source.Span
}

// StringLit is a string literal; Value is unescaped.
type StringLit struct {
	Value string
	Loc   source.Span
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Loc   source.Span
}

// NullLit is `null`.
type NullLit struct {
	Loc source.Span
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Elems []Expr
	Loc   source.Span
}

// Call is `name(args)`. Imported package functions are called by their bare
// name; the resolver decides whether the callee is local, builtin, or remote.
type Call struct {
	Name    string
	NameLoc source.Span
	Args    []Expr
	Loc     source.Span
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota // -x
	UnaryNot                // !x
)

// Unary is a prefix operation.
type Unary struct {
	Op  UnaryOp
	X   Expr
	Loc source.Span
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinMod:
		return "%"
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinGt:
		return ">"
	case BinGe:
		return ">="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	}
	return "?"
}

// Binary is an infix operation.
type Binary struct {
	Op  BinaryOp
	X   Expr
	Y   Expr
	Loc source.Span
}

// Index is `x[i]`.
type Index struct {
	X   Expr
	Idx Expr
	Loc source.Span
}

func (e *Ident) Span() source.Span     { return e.Loc }
func (e *IntLit) Span() source.Span    { return e.Loc }
func (e *RealLit) Span() source.Span   { return e.Loc }
func (e *StringLit) Span() source.Span { return e.Loc }
func (e *BoolLit) Span() source.Span   { return e.Loc }
func (e *NullLit) Span() source.Span   { return e.Loc }
func (e *ArrayLit) Span() source.Span  { return e.Loc }
func (e *Call) Span() source.Span      { return e.Loc }
func (e *Unary) Span() source.Span     { return e.Loc }
func (e *Binary) Span() source.Span    { return e.Loc }
func (e *Index) Span() source.Span     { return e.Loc }

func (*Ident) exprNode()     {}
func (*IntLit) exprNode()    {}
func (*RealLit) exprNode()   {}
func (*StringLit) exprNode() {}
func (*BoolLit) exprNode()   {}
func (*NullLit) exprNode()   {}
func (*ArrayLit) exprNode()  {}
func (*Call) exprNode()      {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Index) exprNode()     {}
