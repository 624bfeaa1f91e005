package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tally/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally is a keypad calculator with persistent history",
	Long: `Tally evaluates + - × ÷ expressions the way a pocket calculator does,
keeping the last ten results per session. Use it as a line REPL, a keypad
TUI, an HTTP service or an MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default tally.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("session", "", "Session ID to resume or create")
}

// newApp builds the application from the persistent flags.
func newApp(cmd *cobra.Command, interactive bool) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cmd.Context(), cli.Options{
		ConfigPath:  configPath,
		Debug:       debug,
		Interactive: interactive,
	})
}
