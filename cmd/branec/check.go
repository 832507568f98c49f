package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"branec/internal/driver"
)

var (
	checkJobs    int
	checkTimings bool
)

func init() {
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "parallel workers (0 = one per CPU)")
	checkCmd.Flags().BoolVar(&checkTimings, "timings", false, "print per-stage timings for each checked file")
}

var checkCmd = &cobra.Command{
	Use:   "check [files or directories]",
	Short: "Compile without writing documents, report diagnostics only",
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

		paths, err := collectScripts(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no .bs files found")
		}

		results, err := driver.CompileFiles(cmd.Context(), paths, opts, checkJobs)
		if err != nil {
			return err
		}

		failed := 0
		warned := 0
		for _, r := range results {
			if err := reportResult(cmd, r, colored); err != nil {
				return err
			}
			if r.Doc == nil {
				failed++
				continue
			}
			if r.Bag.HasWarnings() {
				warned++
			}
			if checkTimings {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s", r.Path, r.Doc.Timing.Summary())
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "checked %d file(s): %d failed, %d with warnings\n",
			len(results), failed, warned)
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
		}
		return nil
	},
}
