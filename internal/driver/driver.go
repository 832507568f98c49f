// Package driver runs the compiler over batches of script files. Each file
// gets its own session and compiles as one submission; files are independent,
// so the batch fans out across workers.
package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"branec/internal/compiler"
	"branec/internal/diag"
)

// Result is the outcome for one script file.
type Result struct {
	// Path is the file as given (or found) by the caller.
	Path string
	// Src is the raw file content, kept for diagnostic rendering.
	Src []byte
	// Doc is non-nil exactly when the file compiled cleanly.
	Doc *compiler.Document
	// Bag holds the file's diagnostics, I/O failures included.
	Bag *diag.Bag
}

// ListScripts returns every *.bs file under dir, sorted for deterministic
// batch order.
func ListScripts(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".bs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Event reports batch progress for one file.
type Event struct {
	Path string
	// Done is false when the file just started compiling.
	Done   bool
	Failed bool
}

// EventSink receives progress events; implementations must be safe for
// concurrent use.
type EventSink interface {
	Send(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct{ Ch chan<- Event }

func (s ChannelSink) Send(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// CompileFiles compiles each path in parallel, jobs wide (<= 0 means one
// worker per CPU). Per-file failures land in the file's bag; only setup
// problems and context cancellation surface as an error.
func CompileFiles(ctx context.Context, paths []string, opts compiler.Options, jobs int) ([]Result, error) {
	return CompileFilesWithProgress(ctx, paths, opts, jobs, nil)
}

// CompileFilesWithProgress is CompileFiles with a progress sink; sink may be
// nil.
func CompileFilesWithProgress(ctx context.Context, paths []string, opts compiler.Options, jobs int, sink EventSink) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if sink != nil {
				sink.Send(Event{Path: path})
			}
			results[i] = compileOne(gctx, path, opts)
			if sink != nil {
				sink.Send(Event{Path: path, Done: true, Failed: results[i].Doc == nil})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// CompileDir compiles every *.bs file under dir.
func CompileDir(ctx context.Context, dir string, opts compiler.Options, jobs int) ([]Result, error) {
	paths, err := ListScripts(dir)
	if err != nil {
		return nil, err
	}
	return CompileFiles(ctx, paths, opts, jobs)
}

func compileOne(ctx context.Context, path string, opts compiler.Options) Result {
	res := Result{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		diag.Fatalf(diag.BagReporter{Bag: bag}, diag.SesLoadFile, "cannot read "+path+": "+err.Error())
		res.Bag = bag
		return res
	}
	res.Src = src

	// Batch sessions are throwaway: one file, one submission, no snapshot
	// sharing between workers.
	fileOpts := opts
	fileOpts.SnapshotPath = ""
	session, err := compiler.Open(fileOpts)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		diag.Fatalf(diag.BagReporter{Bag: bag}, diag.SesSnapshot, "cannot open session: "+err.Error())
		res.Bag = bag
		return res
	}
	defer session.Close()

	res.Doc, res.Bag = session.Compile(ctx, src)
	return res
}
