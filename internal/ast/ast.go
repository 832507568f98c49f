// Package ast defines the syntax tree produced by the parser for one
// submitted snippet. Nodes are plain values carrying source spans; the tree
// never outlives the submission that parsed it.
package ast

import (
	"branec/internal/source"
)

// Node is anything with a source location.
type Node interface {
	Span() source.Span
}

// Program is the root: one submission's list of top-level statements.
type Program struct {
	Stmts []Stmt
	Loc   source.Span
}

func (p *Program) Span() source.Span { return p.Loc }

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeRef is a type annotation as written: a named scalar or [Elem].
type TypeRef struct {
	Name string   // empty for arrays
	Elem *TypeRef // set for arrays
	Loc  source.Span
}

func (t *TypeRef) Span() source.Span { return t.Loc }

// Param is one function parameter, optionally annotated.
type Param struct {
	Name string
	Type *TypeRef // nil means Any
	Loc  source.Span
}

// ImportStmt imports a package from the external index:
// `import pkg;` or `import pkg[1.0.0];`.
type ImportStmt struct {
	Package string
	Version string // empty means latest
	Loc     source.Span
}

// DataStmt imports a dataset from the external index: `data name;`.
type DataStmt struct {
	Name string
	Loc  source.Span
}

// LetStmt declares a variable: `let name: Type = expr;`.
type LetStmt struct {
	Name    string
	NameLoc source.Span
	Type    *TypeRef // nil means inferred
	Value   Expr
	Loc     source.Span
}

// AssignStmt assigns to an existing variable.
type AssignStmt struct {
	Name    string
	NameLoc source.Span
	Value   Expr
	Loc     source.Span
}

// FuncDecl declares a function: `func name(params) { body }`.
type FuncDecl struct {
	Name    string
	NameLoc source.Span
	Params  []Param
	Ret     *TypeRef // nil means Void
	Body    *Block
	Loc     source.Span
}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Value Expr // may be nil
	Loc   source.Span
}

// IfStmt is `if cond { } else { }`; Else is nil, a *Block, or another *IfStmt.
type IfStmt struct {
	Cond Expr
	Then *Block
	Else Stmt
	Loc  source.Span
}

// WhileStmt is `while cond { }`.
type WhileStmt struct {
	Cond Expr
	Body *Block
	Loc  source.Span
}

// ForStmt is `for let i = ..; cond; post { }`.
type ForStmt struct {
	Init Stmt // LetStmt or AssignStmt, may be nil
	Cond Expr
	Post Stmt // AssignStmt, may be nil
	Body *Block
	Loc  source.Span
}

// Block is `{ stmts }`; also usable as a statement.
type Block struct {
	Stmts []Stmt
	Loc   source.Span
}

// ExprStmt is an expression in statement position, e.g. a call.
type ExprStmt struct {
	X   Expr
	Loc source.Span
}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Loc source.Span
}

// ContinueStmt skips to the next loop iteration.
type ContinueStmt struct {
	Loc source.Span
}

func (s *ImportStmt) Span() source.Span   { return s.Loc }
func (s *DataStmt) Span() source.Span     { return s.Loc }
func (s *LetStmt) Span() source.Span      { return s.Loc }
func (s *AssignStmt) Span() source.Span   { return s.Loc }
func (s *FuncDecl) Span() source.Span     { return s.Loc }
func (s *ReturnStmt) Span() source.Span   { return s.Loc }
func (s *IfStmt) Span() source.Span       { return s.Loc }
func (s *WhileStmt) Span() source.Span    { return s.Loc }
func (s *ForStmt) Span() source.Span      { return s.Loc }
func (s *Block) Span() source.Span        { return s.Loc }
func (s *ExprStmt) Span() source.Span     { return s.Loc }
func (s *BreakStmt) Span() source.Span    { return s.Loc }
func (s *ContinueStmt) Span() source.Span { return s.Loc }

func (*ImportStmt) stmtNode()   {}
func (*DataStmt) stmtNode()     {}
func (*LetStmt) stmtNode()      {}
func (*AssignStmt) stmtNode()   {}
func (*FuncDecl) stmtNode()     {}
func (*ReturnStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*Block) stmtNode()        {}
func (*ExprStmt) stmtNode()     {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
