package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"branec/internal/compiler"
	"branec/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive incremental session",
	Long: `Starts a prompt where each line compiles as one submission against a
shared definition table. Declarations from clean lines stay visible to later
ones; failed lines leave no trace.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setupColor(cmd); err != nil {
			return err
		}
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("repl needs an interactive terminal")
		}

		opts, err := sessionOptions(cmd)
		if err != nil {
			return err
		}
		session, err := compiler.Open(opts)
		if err != nil {
			return err
		}
		defer session.Close()

		program := tea.NewProgram(ui.NewReplModel(session), tea.WithOutput(os.Stdout))
		_, err = program.Run()
		return err
	},
}
