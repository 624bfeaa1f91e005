package main

import (
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the line calculator",
	Long: `Reads key labels line by line ("12 + 3 =" or "12+3=") and prints the display.
Type "history", "recall <n>", "help" or "exit". Ctrl+C clears the display, or
exits when it is already empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")

		app, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunREPL(cmd.Context(), app, cli.ReplOptions{
			SessionID: sessionID,
			JSON:      jsonMode,
			Input:     os.Stdin,
			Output:    os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	rootCmd.RunE = runCmd.RunE
}
