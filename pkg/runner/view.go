package runner

import "github.com/aretw0/tally/pkg/domain"

// View is the presentation of a calculator state shared by the REPL, HTTP
// and MCP surfaces.
type View struct {
	SessionID  string                `json:"session_id"`
	Expression string                `json:"expression"`
	Result     string                `json:"result"`
	Display    string                `json:"display"`
	Error      bool                  `json:"error"`
	History    []domain.HistoryEntry `json:"history"`
}

// NewView projects state into a View.
func NewView(state *domain.State) View {
	history := state.History
	if history == nil {
		history = domain.History{}
	}
	return View{
		SessionID:  state.SessionID,
		Expression: state.Expression,
		Result:     state.Result,
		Display:    state.Display(),
		Error:      state.IsError(),
		History:    history,
	}
}

// Line is the one-line form of the display: "expr = result" after an
// evaluation, the display value otherwise.
func (v View) Line() string {
	if v.Result != "" && v.Expression != "" {
		return v.Expression + " = " + v.Result
	}
	return v.Display
}
