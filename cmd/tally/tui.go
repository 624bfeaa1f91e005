package main

import (
	"context"

	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the keypad calculator",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		app, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		state, err := app.Sessions.LoadOrStart(ctx, sessionID)
		if err != nil {
			return err
		}

		model := tui.NewKeypad(ctx, app.Engine(), state, tui.WithCommit(func(ctx context.Context, s *domain.State) error {
			return app.Sessions.Save(ctx, sessionID, s)
		}))
		_, err = tui.RunKeypad(ctx, model)
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
