package wir

import (
	"fmt"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/resolver"
	"branec/internal/symbols"
	"branec/internal/types"
)

// Lower turns a fully resolved submission into a workflow graph. It is a pure
// structural transform: every diagnosable defect has been caught upstream, so
// anything Lower cannot express is an internal-invariant violation and is
// reported as a fatal, never a source error. On failure no workflow is
// returned.
func Lower(prog *ast.Program, res *resolver.Result, staging *symbols.Staging, rep diag.Reporter) (*Workflow, bool) {
	lw := &lowerer{
		res:     res,
		rep:     rep,
		wf:      newWorkflow(staging),
		funcIdx: make(map[string]int),
		taskIdx: make(map[string]int),
	}
	for i, f := range lw.wf.Table.Funcs {
		lw.funcIdx[f.Name] = i
	}
	for i, t := range lw.wf.Table.Tasks {
		lw.taskIdx[t.Name] = i
	}

	main := lw.newBuilder(false)
	for _, s := range prog.Stmts {
		main.stmt(s)
	}
	main.push(newEdge(EdgeStop))
	lw.wf.Graph = main.edges

	if lw.failed {
		return nil, false
	}
	return lw.wf, true
}

type lowerer struct {
	res     *resolver.Result
	rep     diag.Reporter
	wf      *Workflow
	funcIdx map[string]int
	taskIdx map[string]int
	failed  bool
}

func (lw *lowerer) invariantf(format string, args ...any) {
	lw.failed = true
	diag.Fatalf(lw.rep, diag.LowInvariant, fmt.Sprintf(format, args...))
}

// builder assembles one edge chain (main or a function body). Instructions
// accumulate in pend and are flushed into a linear edge whenever a structural
// edge has to be emitted.
type builder struct {
	lw     *lowerer
	inFunc bool
	edges  []Edge
	pend   []Instr
	loops  []loopFrame
}

// loopFrame collects the jump edges inside one loop that need patching once
// the loop's layout is known.
type loopFrame struct {
	breaks []int
	conts  []int
}

func (lw *lowerer) newBuilder(inFunc bool) *builder {
	return &builder{lw: lw, inFunc: inFunc}
}

// next is the index the next pushed edge will occupy, pending instructions
// included.
func (b *builder) next() int {
	n := len(b.edges)
	if len(b.pend) > 0 {
		n++
	}
	return n
}

// push flushes pending instructions and appends the edge, returning its index.
func (b *builder) push(e Edge) int {
	b.flush()
	b.edges = append(b.edges, e)
	return len(b.edges) - 1
}

// pushNext appends an edge that falls through to its successor.
func (b *builder) pushNext(e Edge) int {
	b.flush()
	e.Next = len(b.edges) + 1
	b.edges = append(b.edges, e)
	return len(b.edges) - 1
}

// flush drains pending instructions into a fall-through linear edge.
func (b *builder) flush() {
	if len(b.pend) == 0 {
		return
	}
	e := newEdge(EdgeLinear)
	e.Instrs = b.pend
	e.Next = len(b.edges) + 1
	b.edges = append(b.edges, e)
	b.pend = nil
}

// jump appends an empty linear edge whose target is patched later.
func (b *builder) jump() int {
	return b.push(newEdge(EdgeLinear))
}

func (b *builder) emit(in Instr) {
	b.pend = append(b.pend, in)
}

func (b *builder) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ImportStmt:
		// Tasks land in the table; imports leave no runtime trace.
	case *ast.DataStmt:
		b.emit(Instr{Op: OpData, Str: st.Name})
		b.emit(Instr{Op: OpVarDecl, Var: st.Name})
		b.emit(Instr{Op: OpVarSet, Var: st.Name})
	case *ast.LetStmt:
		b.expr(st.Value)
		b.emit(Instr{Op: OpVarDecl, Var: st.Name})
		b.emit(Instr{Op: OpVarSet, Var: st.Name})
	case *ast.AssignStmt:
		b.expr(st.Value)
		b.emit(Instr{Op: OpVarSet, Var: st.Name})
	case *ast.FuncDecl:
		b.lw.lowerFunc(st)
	case *ast.ReturnStmt:
		b.returnStmt(st)
	case *ast.IfStmt:
		b.ifStmt(st)
	case *ast.WhileStmt:
		b.whileStmt(st)
	case *ast.ForStmt:
		b.forStmt(st)
	case *ast.Block:
		for _, inner := range st.Stmts {
			b.stmt(inner)
		}
	case *ast.ExprStmt:
		b.exprStmt(st)
	case *ast.BreakStmt:
		if len(b.loops) == 0 {
			b.lw.invariantf("'break' reached lowering outside a loop")
			return
		}
		f := &b.loops[len(b.loops)-1]
		f.breaks = append(f.breaks, b.jump())
	case *ast.ContinueStmt:
		if len(b.loops) == 0 {
			b.lw.invariantf("'continue' reached lowering outside a loop")
			return
		}
		f := &b.loops[len(b.loops)-1]
		f.conts = append(f.conts, b.jump())
	default:
		b.lw.invariantf("statement %T has no lowering", s)
	}
}

func (b *builder) exprStmt(st *ast.ExprStmt) {
	b.expr(st.X)
	t, ok := b.lw.res.Types[st.X]
	if !ok {
		b.lw.invariantf("expression statement reached lowering without a type")
		return
	}
	// Void expressions leave nothing on the stack.
	if t.Kind != types.Void {
		b.emit(Instr{Op: OpPop})
	}
}

func (b *builder) returnStmt(st *ast.ReturnStmt) {
	if !b.inFunc {
		b.lw.invariantf("'return' reached lowering outside a function")
		return
	}
	if st.Value != nil {
		b.expr(st.Value)
	}
	b.push(newEdge(EdgeReturn))
}

func (b *builder) ifStmt(st *ast.IfStmt) {
	b.expr(st.Cond)
	bi := b.push(newEdge(EdgeBranch))

	b.edges[bi].True = b.next()
	b.blockBody(st.Then)
	endThen := b.jump()

	if st.Else != nil {
		b.edges[bi].False = b.next()
		b.stmt(st.Else)
		b.flush()
	}

	merge := b.next()
	b.edges[endThen].Next = merge
	if st.Else == nil {
		b.edges[bi].False = merge
	}
}

func (b *builder) whileStmt(st *ast.WhileStmt) {
	li := b.push(newEdge(EdgeLoop))

	b.edges[li].Cond = b.next()
	b.expr(st.Cond)
	bi := b.push(newEdge(EdgeBranch))

	b.edges[li].Body = b.next()
	b.edges[bi].True = b.next()
	b.loops = append(b.loops, loopFrame{})
	b.blockBody(st.Body)
	back := b.jump()
	b.edges[back].Next = li

	exit := b.next()
	b.edges[li].Exit = exit
	b.edges[bi].False = exit
	b.patchLoop(exit, li)
}

func (b *builder) forStmt(st *ast.ForStmt) {
	if st.Init != nil {
		b.stmt(st.Init)
	}
	li := b.push(newEdge(EdgeLoop))

	b.edges[li].Cond = b.next()
	if st.Cond != nil {
		b.expr(st.Cond)
	} else {
		b.emit(Instr{Op: OpPushBool, Bool: true})
	}
	bi := b.push(newEdge(EdgeBranch))

	b.edges[li].Body = b.next()
	b.edges[bi].True = b.next()
	b.loops = append(b.loops, loopFrame{})
	b.blockBody(st.Body)

	// Post clause; 'continue' re-enters here so the step still runs.
	b.flush()
	post := b.next()
	if st.Post != nil {
		b.stmt(st.Post)
	}
	back := b.jump()
	b.edges[back].Next = li

	exit := b.next()
	b.edges[li].Exit = exit
	b.edges[bi].False = exit
	b.patchLoop(exit, post)
}

// blockBody lowers a block's statements and flushes so the chain position is
// well defined afterwards.
func (b *builder) blockBody(blk *ast.Block) {
	for _, s := range blk.Stmts {
		b.stmt(s)
	}
	b.flush()
}

// patchLoop pops the innermost frame and retargets its break and continue
// jumps.
func (b *builder) patchLoop(breakTo, contTo int) {
	f := b.loops[len(b.loops)-1]
	b.loops = b.loops[:len(b.loops)-1]
	for _, j := range f.breaks {
		b.edges[j].Next = breakTo
	}
	for _, j := range f.conts {
		b.edges[j].Next = contTo
	}
}

// lowerFunc builds a separate chain for one function body. The caller pushes
// arguments left to right, so the prologue binds parameters in reverse.
func (lw *lowerer) lowerFunc(st *ast.FuncDecl) {
	idx, ok := lw.funcIdx[st.Name]
	if !ok {
		lw.invariantf("function '%s' missing from the document table", st.Name)
		return
	}

	fb := lw.newBuilder(true)
	for i := len(st.Params) - 1; i >= 0; i-- {
		fb.emit(Instr{Op: OpVarDecl, Var: st.Params[i].Name})
		fb.emit(Instr{Op: OpVarSet, Var: st.Params[i].Name})
	}
	fb.blockBody(st.Body)
	fb.push(newEdge(EdgeReturn))
	lw.wf.Funcs[idx] = fb.edges
}
