package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/runner"
	"github.com/aretw0/tally/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// KeypadURI is the resource describing the button layout.
const KeypadURI = "tally://keypad"

// Engine is the part of the calculator core the MCP surface needs.
type Engine interface {
	PressAll(ctx context.Context, state *domain.State, keys ...domain.Key) (*domain.State, error)
	Restore(ctx context.Context, state *domain.State, index int) (*domain.State, error)
	Evaluate(expression string) (string, error)
}

// EvaluateResult is the structured output of the evaluate tool.
type EvaluateResult struct {
	Expression string `json:"expression" jsonschema_description:"The expression as received"`
	Result     string `json:"result" jsonschema_description:"Formatted result, or Error"`
	Error      string `json:"error,omitempty" jsonschema_description:"Why evaluation failed"`
}

// HistoryResult is the structured output of the get_history tool.
type HistoryResult struct {
	SessionID string                `json:"session_id"`
	History   []domain.HistoryEntry `json:"history" jsonschema_description:"Successful evaluations, newest first"`
}

// Server exposes the calculator as MCP tools.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tally-mcp", strings.TrimSpace(tally.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an arithmetic expression with + - × ÷ (or * /), decimals and parentheses."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression to evaluate, e.g. 3+4×2")),
		mcp.WithOutputSchema[EvaluateResult](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in a session. The session is created if it does not exist."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to type into")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Key labels separated by spaces, or run together: \"12 + 3 =\" or \"12+3=\". Also AC, +/- and %.")),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("List the last successful evaluations of a session, newest first."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to inspect")),
		mcp.WithOutputSchema[HistoryResult](),
	), mcp.NewStructuredToolHandler(s.handleGetHistory))

	s.mcpServer.AddTool(mcp.NewTool("restore_history",
		mcp.WithDescription("Bring a history entry back onto the display."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to update")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("History position, 0 is the newest")),
		mcp.WithOutputSchema[runner.View](),
	), mcp.NewStructuredToolHandler(s.handleRestoreHistory))
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResult, error) {
	expression, _ := args["expression"].(string)
	clean, err := runner.SanitizeInput(expression)
	if err != nil {
		s.logger.Warn("MCP evaluate: input rejected", "error", err, "size", len(expression))
		return EvaluateResult{}, fmt.Errorf("input rejected: %w", err)
	}

	res := EvaluateResult{Expression: clean}
	result, err := s.engine.Evaluate(clean)
	if err != nil {
		res.Result = domain.ResultError
		res.Error = err.Error()
		return res, nil
	}
	res.Result = result
	return res, nil
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runner.View, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return runner.View{}, fmt.Errorf("session_id is required")
	}
	input, _ := args["keys"].(string)
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		return runner.View{}, fmt.Errorf("input rejected: %w", err)
	}
	keys, err := domain.ExpandKeys(clean)
	if err != nil {
		return runner.View{}, err
	}

	next, err := s.sessions.Update(ctx, sessionID, func(current *domain.State) (*domain.State, error) {
		return s.engine.PressAll(ctx, current, keys...)
	})
	if err != nil {
		return runner.View{}, fmt.Errorf("press_keys failed: %w", err)
	}
	return runner.NewView(next), nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (HistoryResult, error) {
	sessionID, _ := args["session_id"].(string)
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("get_history failed: %w", err)
	}
	return HistoryResult{SessionID: sessionID, History: runner.NewView(state).History}, nil
}

func (s *Server) handleRestoreHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runner.View, error) {
	sessionID, _ := args["session_id"].(string)
	index, ok := args["index"].(float64)
	if !ok || index != float64(int(index)) {
		return runner.View{}, fmt.Errorf("index must be an integer")
	}
	next, err := s.sessions.UpdateExisting(ctx, sessionID, func(current *domain.State) (*domain.State, error) {
		return s.engine.Restore(ctx, current, int(index))
	})
	if err != nil {
		return runner.View{}, fmt.Errorf("restore_history failed: %w", err)
	}
	return runner.NewView(next), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KeypadURI, "Calculator Keypad",
		mcp.WithResourceDescription("Button rows of the calculator, top to bottom"),
		mcp.WithMIMEType("application/json"),
	), s.handleKeypad)
}

func (s *Server) handleKeypad(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(domain.Keypad)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keypad: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      KeypadURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
