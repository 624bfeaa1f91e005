package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tally/internal/cli"
	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show the calculation history of a session",
	Long:  `Prints the last results of a session, newest first. The session comes from the argument or --session.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if len(args) == 1 {
			sessionID = args[0]
		}
		if sessionID == "" {
			return fmt.Errorf("a session ID is required")
		}

		app, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := app.Sessions.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		out := cmd.OutOrStdout()
		text := runner.HistoryMarkdown(state.History)
		if cli.IsTerminal(out) {
			if rendered, err := tui.RenderHistory(state.History); err == nil {
				text = rendered
			}
		}
		fmt.Fprintln(out, strings.TrimSpace(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
