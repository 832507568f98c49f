// Package compiler ties the pipeline stages into the incremental Session: one
// call per snippet, a diagnostic bundle per call, and a definition table that
// only ever advances on clean submissions.
package compiler

import (
	"context"
	"fmt"
	"sync"

	"branec/internal/diag"
	"branec/internal/index"
	"branec/internal/observ"
	"branec/internal/parser"
	"branec/internal/resolver"
	"branec/internal/source"
	"branec/internal/symbols"
	"branec/internal/wir"
)

// Document is the finalized output of one successful submission. The engine
// keeps no reference to it; the caller owns both the graph and the bytes.
type Document struct {
	Workflow *wir.Workflow
	// JSON is the serialized exchange document, deterministic per graph.
	JSON []byte
	// Timing breaks the submission down by pipeline stage.
	Timing observ.Report
}

// Session is the long-lived compilation context. Submissions share the
// committed definition table; each one stages its declarations in an overlay
// that only merges on a clean outcome, so a failed snippet leaves no trace.
// Safe for concurrent use; submissions are serialized internally.
type Session struct {
	mu     sync.Mutex
	opts   Options
	files  *source.FileSet
	table  *symbols.Table
	idx    index.Index
	subs   uint32
	closed bool
}

// Open builds a session. The index endpoint, when configured, is validated
// but not contacted; a snapshot, when configured and present, seeds the
// table. A corrupt or incompatible snapshot fails Open rather than silently
// starting empty.
func Open(opts Options) (*Session, error) {
	idx := opts.Index
	if idx == nil && opts.IndexEndpoint != "" {
		remote, err := index.NewRemote(opts.IndexEndpoint, opts.IndexTimeout)
		if err != nil {
			return nil, err
		}
		idx = remote
	}

	table := symbols.NewTable()
	var subs uint32
	if opts.SnapshotPath != "" {
		restored, n, found, err := loadSnapshot(opts.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("session snapshot: %w", err)
		}
		if found {
			table = restored
			subs = n
		}
	}

	return &Session{
		opts:  opts,
		files: source.NewFileSet(),
		table: table,
		idx:   idx,
		subs:  subs,
	}, nil
}

// Compile runs one snippet through the pipeline. It always returns a bundle;
// the document is non-nil exactly when the submission committed. The table is
// untouched on any blocking outcome.
func (s *Session) Compile(ctx context.Context, src []byte) (*Document, *diag.Bag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bag := diag.NewBag(s.opts.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	if s.closed {
		diag.Fatalf(rep, diag.SesClosed, "session is closed")
		return nil, bag
	}

	s.subs++
	id := s.files.AddVirtual(fmt.Sprintf("snippet-%d", s.subs), src)
	timer := observ.NewTimer()

	stop := timer.Start("parse")
	pres := parser.ParseProgram(s.files.Get(id), parser.Options{Reporter: rep})
	stop()
	if pres.Terminal {
		// Recovery gave up; the tree is not worth resolving.
		bag.Sort()
		return nil, bag
	}

	staging := symbols.NewStaging(s.table, s.subs)
	stop = timer.Start("resolve")
	rres := resolver.Resolve(ctx, pres.Program, staging, resolver.Options{
		Reporter: rep,
		Index:    s.idx,
		Timeout:  s.opts.IndexTimeout,
	})
	stop()

	if bag.Blocking() || (s.opts.WarningsAsErrors && bag.HasWarnings()) {
		bag.Sort()
		return nil, bag
	}

	stop = timer.Start("lower")
	wf, ok := wir.Lower(pres.Program, rres, staging, rep)
	stop()
	if !ok {
		bag.Sort()
		return nil, bag
	}

	stop = timer.Start("serialize")
	raw, err := wf.Serialize()
	stop()
	if err != nil {
		// All-or-nothing: no partial document, no commit.
		diag.Fatalf(rep, diag.SesSerialize, fmt.Sprintf("cannot serialize workflow: %v", err))
		bag.Sort()
		return nil, bag
	}

	if conflicts := staging.Commit(); len(conflicts) > 0 {
		diag.Fatalf(rep, diag.LowInvariant,
			fmt.Sprintf("commit found %d conflict(s) resolution missed", len(conflicts)))
		bag.Sort()
		return nil, bag
	}

	if s.opts.SnapshotPath != "" {
		if err := saveSnapshot(s.opts.SnapshotPath, s.table, s.subs); err != nil {
			// The submission itself succeeded; persistence is best effort.
			diag.Warningf(rep, diag.SesSnapshot, source.Span{},
				fmt.Sprintf("cannot persist session snapshot: %v", err))
		}
	}

	bag.Sort()
	return &Document{Workflow: wf, JSON: raw, Timing: timer.Report()}, bag
}

// Close marks the session terminal. Further Compile calls fail with a fatal;
// Close itself is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.opts.SnapshotPath != "" {
		return saveSnapshot(s.opts.SnapshotPath, s.table, s.subs)
	}
	return nil
}

// Submissions returns how many snippets this session has accepted, failed
// ones included.
func (s *Session) Submissions() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs
}

// TableLen returns the committed definition count, builtins included.
func (s *Session) TableLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len()
}
