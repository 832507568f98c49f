// Package resolver implements the resolve/type-check stage: it walks the
// syntax tree against the session's staged-plus-committed definitions and the
// external index, annotates expressions with types, and collects every
// diagnostic it can instead of stopping at the first.
package resolver

import (
	"context"
	"fmt"
	"time"

	"branec/internal/ast"
	"branec/internal/diag"
	"branec/internal/index"
	"branec/internal/source"
	"branec/internal/symbols"
	"branec/internal/types"
)

// Options configures one resolve pass.
type Options struct {
	Reporter diag.Reporter
	// Index is the external catalog; nil means no endpoint was configured.
	Index index.Index
	// Timeout bounds each individual index lookup.
	Timeout time.Duration
}

// Result carries the annotations the lowering stage needs.
type Result struct {
	// Types annotates every successfully checked expression.
	Types map[ast.Expr]*types.Type
	// Calls records the resolved definition behind each call site.
	Calls map[*ast.Call]symbols.Definition
}

// resolver is the walk state for one submission.
type resolver struct {
	ctx     context.Context
	staging *symbols.Staging
	opts    Options
	res     *Result

	// fatal is latched on the first environment failure; remaining index
	// lookups are skipped but the structural walk still finishes.
	fatal bool

	scope    *scope
	fn       *funcCtx
	loopDepth int
}

// funcCtx tracks the enclosing function during the walk.
type funcCtx struct {
	ret *types.Type
}

// scope is a chain of local (non-persistent) bindings inside function bodies
// and blocks.
type scope struct {
	parent *scope
	names  map[string]*local
}

type local struct {
	typ  *types.Type
	span source.Span
	used bool
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]*local, 4)}
}

func (s *scope) lookup(name string) (*local, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if l, ok := cur.names[name]; ok {
			return l, true
		}
	}
	return nil, false
}

// Resolve runs the stage over one parsed submission. It always returns a
// Result; the caller decides from the diagnostic bundle whether to proceed.
func Resolve(ctx context.Context, prog *ast.Program, staging *symbols.Staging, opts Options) *Result {
	r := &resolver{
		ctx:     ctx,
		staging: staging,
		opts:    opts,
		res: &Result{
			Types: make(map[ast.Expr]*types.Type),
			Calls: make(map[*ast.Call]symbols.Definition),
		},
	}
	for _, stmt := range prog.Stmts {
		r.stmt(stmt)
	}
	return r.res
}

func (r *resolver) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.Errorf(r.opts.Reporter, code, sp, fmt.Sprintf(format, args...))
}

func (r *resolver) warnf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.Warningf(r.opts.Reporter, code, sp, fmt.Sprintf(format, args...))
}

func (r *resolver) fatalf(code diag.Code, format string, args ...any) {
	r.fatal = true
	diag.Fatalf(r.opts.Reporter, code, fmt.Sprintf(format, args...))
}

// lookupTimeout derives the per-lookup context.
func (r *resolver) lookupTimeout() (context.Context, context.CancelFunc) {
	timeout := r.opts.Timeout
	if timeout <= 0 {
		timeout = index.DefaultTimeout
	}
	return context.WithTimeout(r.ctx, timeout)
}

// typeFromRef converts a syntactic annotation into a type, reporting unknown
// names.
func (r *resolver) typeFromRef(ref *ast.TypeRef) *types.Type {
	if ref == nil {
		return types.AnyType
	}
	if ref.Elem != nil {
		return types.ArrayOf(r.typeFromRef(ref.Elem))
	}
	if t, ok := types.ByName(ref.Name); ok {
		return t
	}
	r.errorf(diag.TypMismatch, ref.Loc, "unknown type '%s'", ref.Name)
	return types.AnyType
}
