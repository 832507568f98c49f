package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"branec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "branec",
	Short: "BraneScript workflow compiler",
	Long:  `branec compiles BraneScript snippets and scripts into workflow documents for a downstream orchestrator`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to branec.toml (default: search upward)")
	rootCmd.PersistentFlags().String("index", "", "package index endpoint (overrides config)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per submission")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
