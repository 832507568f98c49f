package resolver

import (
	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/source"
	"branec/internal/symbols"
	"branec/internal/types"
)

func (r *resolver) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ImportStmt:
		r.importStmt(st)
	case *ast.DataStmt:
		r.dataStmt(st)
	case *ast.LetStmt:
		r.letStmt(st)
	case *ast.AssignStmt:
		r.assignStmt(st)
	case *ast.FuncDecl:
		r.funcDecl(st)
	case *ast.ReturnStmt:
		r.returnStmt(st)
	case *ast.IfStmt:
		r.condCheck(st.Cond)
		r.block(st.Then)
		if st.Else != nil {
			r.stmt(st.Else)
		}
	case *ast.WhileStmt:
		r.condCheck(st.Cond)
		r.loopDepth++
		r.block(st.Body)
		r.loopDepth--
	case *ast.ForStmt:
		inner := newScope(r.scope)
		prev := r.scope
		r.scope = inner
		if st.Init != nil {
			r.stmt(st.Init)
		}
		if st.Cond != nil {
			r.condCheck(st.Cond)
		}
		if st.Post != nil {
			r.stmt(st.Post)
		}
		r.loopDepth++
		r.block(st.Body)
		r.loopDepth--
		r.finishScope(inner)
		r.scope = prev
	case *ast.Block:
		r.block(st)
	case *ast.ExprStmt:
		r.expr(st.X)
	case *ast.BreakStmt:
		if r.loopDepth == 0 {
			r.errorf(diag.ResBadFlow, st.Loc, "'break' outside of a loop")
		}
	case *ast.ContinueStmt:
		if r.loopDepth == 0 {
			r.errorf(diag.ResBadFlow, st.Loc, "'continue' outside of a loop")
		}
	}
}

// block opens a scope, walks the statements, and warns about code following
// an unconditional return.
func (r *resolver) block(b *ast.Block) {
	inner := newScope(r.scope)
	prev := r.scope
	r.scope = inner

	returned := false
	for _, s := range b.Stmts {
		if returned {
			r.warnf(diag.ResDeadCode, s.Span(), "unreachable code after 'return'")
			returned = false // one warning per return is enough
		}
		r.stmt(s)
		if _, ok := s.(*ast.ReturnStmt); ok {
			returned = true
		}
	}

	r.finishScope(inner)
	r.scope = prev
}

// finishScope flags locals that were never read.
func (r *resolver) finishScope(s *scope) {
	for name, l := range s.names {
		if !l.used {
			r.warnf(diag.ResUnusedVariable, l.span, "unused variable '%s'", name)
		}
	}
}

// importStmt resolves a package against the external index and stages the
// package plus one task definition per exposed function.
func (r *resolver) importStmt(st *ast.ImportStmt) {
	if r.opts.Index == nil {
		r.errorf(diag.ResNoIndex, st.Loc, "cannot import '%s': no package index configured for this session", st.Package)
		return
	}
	if r.fatal {
		return // the index already failed; don't pile on
	}

	ctx, cancel := r.lookupTimeout()
	info, found, err := r.opts.Index.Package(ctx, st.Package, st.Version)
	cancel()
	if err != nil {
		r.fatalf(diag.SesIndexUnreachable, "package index unreachable: %v", err)
		return
	}
	if !found {
		if st.Version != "" {
			r.errorf(diag.ResUnknownPackage, st.Loc, "package '%s' version %s not found in index", st.Package, st.Version)
		} else {
			r.errorf(diag.ResUnknownPackage, st.Loc, "package '%s' not found in index", st.Package)
		}
		return
	}

	if c := r.staging.Declare(symbols.Definition{
		Name:    st.Package,
		Kind:    symbols.DefPackage,
		Version: info.Version,
	}); c != nil {
		r.conflict(st.Loc, c)
	}
	for _, f := range info.Functions {
		sig := &types.Signature{Params: f.Params, Ret: f.Ret}
		if sig.Ret == nil {
			sig.Ret = types.VoidType
		}
		if c := r.staging.Declare(symbols.Definition{
			Name:      f.Name,
			Kind:      symbols.DefTask,
			Signature: sig,
			Package:   info.Name,
			Version:   info.Version,
		}); c != nil {
			r.conflict(st.Loc, c)
		}
	}
}

func (r *resolver) dataStmt(st *ast.DataStmt) {
	if r.opts.Index == nil {
		r.errorf(diag.ResNoIndex, st.Loc, "cannot import dataset '%s': no index configured for this session", st.Name)
		return
	}
	if r.fatal {
		return
	}

	ctx, cancel := r.lookupTimeout()
	info, found, err := r.opts.Index.Data(ctx, st.Name)
	cancel()
	if err != nil {
		r.fatalf(diag.SesIndexUnreachable, "data index unreachable: %v", err)
		return
	}
	if !found {
		r.errorf(diag.ResUnknownData, st.Loc, "dataset '%s' not found in index", st.Name)
		return
	}

	if c := r.staging.Declare(symbols.Definition{
		Name: info.Name,
		Kind: symbols.DefData,
		Type: types.DataType,
	}); c != nil {
		r.conflict(st.Loc, c)
	}
}

// letStmt declares a variable: into the local scope inside a function or
// block, into the staging overlay at top level (where it persists on commit).
func (r *resolver) letStmt(st *ast.LetStmt) {
	valueType := r.expr(st.Value)

	declared := valueType
	if st.Type != nil {
		declared = r.typeFromRef(st.Type)
		if valueType != nil && !valueType.AssignableTo(declared) {
			r.errorf(diag.TypMismatch, st.Value.Span(),
				"cannot assign %s to variable of type %s", valueType, declared)
		}
	}
	if declared == nil {
		declared = types.AnyType
	}

	if r.scope != nil {
		// Local shadowing is plain lexical scoping; no table involvement.
		r.scope.names[st.Name] = &local{typ: declared, span: st.NameLoc}
		return
	}

	if c := r.staging.Declare(symbols.Definition{
		Name: st.Name,
		Kind: symbols.DefVariable,
		Type: declared,
	}); c != nil {
		r.conflict(st.NameLoc, c)
	}
}

func (r *resolver) assignStmt(st *ast.AssignStmt) {
	valueType := r.expr(st.Value)

	if r.scope != nil {
		if l, ok := r.scope.lookup(st.Name); ok {
			l.used = true
			if valueType != nil && !valueType.AssignableTo(l.typ) {
				r.errorf(diag.TypMismatch, st.Value.Span(),
					"cannot assign %s to variable of type %s", valueType, l.typ)
			}
			return
		}
	}

	d, ok := r.staging.Lookup(st.Name)
	if !ok {
		r.errorf(diag.ResUndeclared, st.NameLoc, "undeclared name '%s'", st.Name)
		return
	}
	if d.Kind != symbols.DefVariable {
		r.errorf(diag.ResUndeclared, st.NameLoc, "cannot assign to %s '%s'", d.Kind, st.Name)
		return
	}
	if valueType != nil && !valueType.AssignableTo(d.Type) {
		r.errorf(diag.TypMismatch, st.Value.Span(),
			"cannot assign %s to variable of type %s", valueType, d.Type)
	}
}

// funcDecl stages the signature first so the body may recurse, then checks
// the body in a fresh scope.
func (r *resolver) funcDecl(st *ast.FuncDecl) {
	sig := &types.Signature{Ret: types.VoidType}
	if st.Ret != nil {
		sig.Ret = r.typeFromRef(st.Ret)
	}
	for _, p := range st.Params {
		sig.Params = append(sig.Params, r.typeFromRef(p.Type))
	}

	if r.scope != nil {
		r.errorf(diag.ResBadFlow, st.Loc, "functions may only be declared at the top level")
		return
	}

	if c := r.staging.Declare(symbols.Definition{
		Name:      st.Name,
		Kind:      symbols.DefFunction,
		Signature: sig,
	}); c != nil {
		r.conflict(st.NameLoc, c)
	}

	body := newScope(nil)
	for i, p := range st.Params {
		body.names[p.Name] = &local{typ: sig.Params[i], span: p.Loc, used: true}
	}

	prevScope, prevFn := r.scope, r.fn
	r.scope, r.fn = body, &funcCtx{ret: sig.Ret}
	r.block(st.Body)
	r.scope, r.fn = prevScope, prevFn
}

func (r *resolver) returnStmt(st *ast.ReturnStmt) {
	if r.fn == nil {
		r.errorf(diag.ResBadFlow, st.Loc, "'return' outside of a function")
		if st.Value != nil {
			r.expr(st.Value)
		}
		return
	}
	if st.Value == nil {
		if r.fn.ret.Kind != types.Void && r.fn.ret.Kind != types.Any {
			r.errorf(diag.TypBadReturn, st.Loc, "missing return value of type %s", r.fn.ret)
		}
		return
	}
	got := r.expr(st.Value)
	if got != nil && !got.AssignableTo(r.fn.ret) {
		r.errorf(diag.TypBadReturn, st.Value.Span(), "cannot return %s from a function returning %s", got, r.fn.ret)
	}
}

func (r *resolver) condCheck(cond ast.Expr) {
	t := r.expr(cond)
	if t != nil && !t.AssignableTo(types.BoolType) {
		r.errorf(diag.TypCondNotBool, cond.Span(), "condition must be Bool, found %s", t)
	}
}

func (r *resolver) conflict(sp source.Span, c *symbols.Conflict) {
	r.errorf(diag.ResConflict, sp,
		"name '%s' is already defined as a %s (submission %d)",
		c.Name, c.Existing.Kind, c.Existing.Submission)
}
