package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tally/pkg/domain"
)

// JSONHandler implements IOHandler for JSON-Lines communication.
// Every output is one object with a "type" discriminator.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

type jsonEnvelope struct {
	Type    string          `json:"type"`
	State   *View           `json:"state,omitempty"`
	History *domain.History `json:"history,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

func (h *JSONHandler) Output(ctx context.Context, view View) error {
	return h.Encoder.Encode(jsonEnvelope{Type: "state", State: &view})
}

func (h *JSONHandler) OutputHistory(ctx context.Context, history domain.History) error {
	if history == nil {
		history = domain.History{}
	}
	return h.Encoder.Encode(jsonEnvelope{Type: "history", History: &history})
}

// Input reads one line. A JSON string ("3 + 4") is unquoted; anything else
// is taken verbatim.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(jsonEnvelope{Type: "system", Message: msg})
}
