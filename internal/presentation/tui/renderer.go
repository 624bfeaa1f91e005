package tui

import (
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Rendering falls back to the raw markdown when no renderer can be built.
func NewRenderer() runner.ContentRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// RenderHistory renders a history list for the terminal.
func RenderHistory(history domain.History) (string, error) {
	return NewRenderer()(runner.HistoryMarkdown(history))
}
