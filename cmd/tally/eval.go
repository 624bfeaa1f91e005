package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>...",
	Short: "Evaluate an expression and print the result",
	Long: `Evaluates the arguments joined by spaces. Both × ÷ and * / are accepted.
A failed evaluation prints Error and exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.Engine().Evaluate(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), domain.ResultError)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
