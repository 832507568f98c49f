package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"branec/internal/compiler"
	"branec/internal/diag"
	"branec/internal/driver"
	"branec/internal/ui"
)

var (
	compileOutDir           string
	compileJobs             int
	compilePretty           bool
	compileWarningsAsErrors bool
	compileNoProgress       bool
	compileTimings          bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileOutDir, "out", "o", "", "directory for .wr.json documents (default: next to each script)")
	compileCmd.Flags().IntVarP(&compileJobs, "jobs", "j", 0, "parallel workers (0 = one per CPU)")
	compileCmd.Flags().BoolVar(&compilePretty, "pretty", false, "indent the emitted documents")
	compileCmd.Flags().BoolVar(&compileWarningsAsErrors, "warnings-as-errors", false, "treat warnings as blocking")
	compileCmd.Flags().BoolVar(&compileNoProgress, "no-progress", false, "disable the progress display")
	compileCmd.Flags().BoolVar(&compileTimings, "timings", false, "print per-stage timings for each compiled file")
}

var compileCmd = &cobra.Command{
	Use:   "compile [files or directories]",
	Short: "Compile BraneScript files into workflow documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		colored, err := setupColor(cmd)
		if err != nil {
			return err
		}
		opts, err := sessionOptions(cmd)
		if err != nil {
			return err
		}
		if compileWarningsAsErrors {
			opts.WarningsAsErrors = true
		}

		paths, err := collectScripts(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no .bs files found")
		}

		results, err := runBatch(cmd.Context(), paths, opts)
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if err := reportResult(cmd, r, colored); err != nil {
				return err
			}
			if r.Doc == nil {
				failed++
				continue
			}
			if err := writeDocument(r); err != nil {
				return err
			}
			if compileTimings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s", r.Path, r.Doc.Timing.Summary())
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
		}
		return nil
	},
}

// runBatch compiles the files, with a progress TUI when stdout is an
// interactive terminal.
func runBatch(ctx context.Context, paths []string, opts compiler.Options) ([]driver.Result, error) {
	if compileNoProgress || !isTerminal(os.Stdout) || len(paths) < 2 {
		return driver.CompileFiles(ctx, paths, opts, compileJobs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	type outcome struct {
		results []driver.Result
		err     error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		results, err := driver.CompileFilesWithProgress(ctx, paths, opts, compileJobs, driver.ChannelSink{Ch: events})
		outcomeCh <- outcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("compiling workflows", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// The TUI may return before the batch does (ctrl-c, startup failure).
	// Stop the remaining work and keep draining events so no worker blocks
	// on a full channel.
	cancel()
	go func() {
		for range events {
		}
	}()

	out := <-outcomeCh
	if uiErr != nil {
		return out.results, uiErr
	}
	return out.results, out.err
}

func collectScripts(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := driver.ListScripts(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

func reportResult(cmd *cobra.Command, r driver.Result, colored bool) error {
	if r.Bag == nil || r.Bag.Len() == 0 {
		return nil
	}
	return diag.Render(cmd.OutOrStdout(), r.Bag, r.Path, r.Src, diag.RenderOptions{
		Color: colored,
		Notes: true,
	})
}

func writeDocument(r driver.Result) error {
	out := r.Doc.JSON
	if compilePretty {
		pretty, err := r.Doc.Workflow.SerializeIndent()
		if err != nil {
			return err
		}
		out = pretty
	}

	name := strings.TrimSuffix(filepath.Base(r.Path), ".bs") + ".wr.json"
	dir := filepath.Dir(r.Path)
	if compileOutDir != "" {
		dir = compileOutDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filepath.Join(dir, name), out, 0o644)
}
