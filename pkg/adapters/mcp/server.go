// Package mcp exposes the assistant as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aretw0/companion"
	"github.com/aretw0/companion/internal/logging"
	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/listener"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SourceMCP names submissions received as tool calls.
const SourceMCP = "mcp"

// Asker submits an utterance and waits for its outcome.
type Asker interface {
	Ask(ctx context.Context, text, source string) (companion.Outcome, error)
}

// CommandArgs are the arguments of both tools.
type CommandArgs struct {
	Text string `json:"text" jsonschema_description:"The request in plain language"`
}

// RunResponse is the structured result of run_command.
type RunResponse struct {
	ID       string           `json:"id" jsonschema_description:"Submission identifier"`
	Status   string           `json:"status" jsonschema_description:"Statuses joined with '; '"`
	Statuses []string         `json:"statuses" jsonschema_description:"One status per executed action"`
	Actions  []map[string]any `json:"actions" jsonschema_description:"Interpreted action descriptors"`
	Quit     bool             `json:"quit" jsonschema_description:"Whether the request asked the assistant to close"`
}

// InterpretResponse is the structured result of interpret_command.
type InterpretResponse struct {
	Actions []map[string]any `json:"actions" jsonschema_description:"Interpreted action descriptors, not executed"`
}

// Server wraps the assistant and exposes it as an MCP Server.
type Server struct {
	asker       Asker
	interpreter companion.Interpreter
	mcpServer   *server.MCPServer
	logger      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(asker Asker, interpreter companion.Interpreter, opts ...Option) *Server {
	s := &Server{
		asker:       asker,
		interpreter: interpreter,
		mcpServer:   server.NewMCPServer("companion-mcp", strings.TrimSpace(companion.Version)),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio serves JSON-RPC on Stdin/Stdout until ctx is done or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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

func (s *Server) registerTools() {
	runTool := mcp.NewTool("run_command",
		mcp.WithDescription("Interpret a desktop request (open apps, run allow-listed tasks, create files) and execute it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The request in plain language")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	interpretTool := mcp.NewTool("interpret_command",
		mcp.WithDescription("Interpret a desktop request into action descriptors without executing anything."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The request in plain language")),
		mcp.WithOutputSchema[InterpretResponse](),
	)
	s.mcpServer.AddTool(interpretTool, mcp.NewStructuredToolHandler(s.handleInterpret))
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args CommandArgs) (RunResponse, error) {
	text, err := s.clean(args.Text)
	if err != nil {
		return RunResponse{}, err
	}

	out, err := s.asker.Ask(ctx, text, SourceMCP)
	if err != nil {
		return RunResponse{}, fmt.Errorf("submission not completed: %w", err)
	}

	statuses := out.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	return RunResponse{
		ID:       out.ID,
		Status:   out.Status,
		Statuses: statuses,
		Actions:  describeAll(out.Actions),
		Quit:     out.Quit,
	}, nil
}

func (s *Server) handleInterpret(ctx context.Context, request mcp.CallToolRequest, args CommandArgs) (InterpretResponse, error) {
	text, err := s.clean(args.Text)
	if err != nil {
		return InterpretResponse{}, err
	}
	return InterpretResponse{Actions: describeAll(s.interpreter.Interpret(ctx, text))}, nil
}

func (s *Server) clean(input string) (string, error) {
	text, err := listener.Sanitize(input)
	if err != nil {
		s.logger.Warn("MCP: Input rejected", "err", err, "size", len(input))
		return "", fmt.Errorf("input rejected: %w", err)
	}
	if text == "" {
		return "", errors.New("text is required")
	}
	return text, nil
}

func describeAll(actions []domain.Action) []map[string]any {
	out := make([]map[string]any, 0, len(actions))
	for _, a := range actions {
		out = append(out, domain.Describe(a))
	}
	return out
}
