package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tandem"
	"github.com/aretw0/tandem/internal/logging"
	"github.com/aretw0/tandem/internal/presentation/graph"
	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/ports"
	"github.com/aretw0/tandem/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	snapshotURI = "tandem://snapshot"
	graphURI    = "tandem://graph"
)

// Server exposes a coordinator as an MCP server. Every tool returns the
// resulting snapshot as JSON text.
type Server struct {
	coordinator ports.Coordinator
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(c ports.Coordinator, opts ...Option) *Server {
	s := &Server{
		coordinator: c,
		logger:      logging.NewNop(),
		mcpServer: server.NewMCPServer("tandem-mcp", strings.TrimSpace(tandem.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("MCP server shutting down")
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
	region := mcp.WithString("region", mcp.Required(),
		mcp.Enum("a", "b"),
		mcp.Description("List region: a (first list) or b (second list)"))

	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Return the current state of both lists, the selection and the message."),
	), s.HandleSnapshot)

	s.mcpServer.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Replace the search term of a list and reload it from the first page."),
		region,
		mcp.WithString("term", mcp.Description("Search term; empty clears the search")),
	), s.HandleSearch)

	s.mcpServer.AddTool(mcp.NewTool("load_more",
		mcp.WithDescription("Fetch the next page of a list. Ignored when no further page exists."),
		region,
	), s.HandleLoadMore)

	s.mcpServer.AddTool(mcp.NewTool("pick_first",
		mcp.WithDescription("Pick a value of the first list by code."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Code of a value shown in list a")),
	), s.HandlePickFirst)

	s.mcpServer.AddTool(mcp.NewTool("pick_second",
		mcp.WithDescription("Pick a value of the second list by code and start the combination."),
		mcp.WithString("code", mcp.Required(), mcp.Description("Code of a value shown in list b")),
	), s.HandlePickSecond)

	s.mcpServer.AddTool(mcp.NewTool("retry_combine",
		mcp.WithDescription("Retry a failed combination with the retained picks."),
	), s.HandleRetry)

	s.mcpServer.AddTool(mcp.NewTool("cancel_selection",
		mcp.WithDescription("Drop both picks after a failed combination."),
	), s.HandleCancel)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return the Mermaid state diagram with the current statuses highlighted."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(s.coordinator.Snapshot())), nil
	})
}

// HandleSnapshot implements the get_snapshot tool.
func (s *Server) HandleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return snapshotResult(s.coordinator.Snapshot())
}

// HandleSearch implements the search tool.
func (s *Server) HandleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region, err := request.RequireString("region")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, domain.EventRequest{
		Type:   domain.EventSearch,
		Region: region,
		Term:   request.GetString("term", ""),
	})
}

// HandleLoadMore implements the load_more tool.
func (s *Server) HandleLoadMore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	region, err := request.RequireString("region")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, domain.EventRequest{Type: domain.EventLoadMore, Region: region})
}

// HandlePickFirst implements the pick_first tool.
func (s *Server) HandlePickFirst(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, domain.EventRequest{Type: domain.EventPickFirst, Code: code})
}

// HandlePickSecond implements the pick_second tool.
func (s *Server) HandlePickSecond(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.dispatch(ctx, domain.EventRequest{Type: domain.EventPickSecond, Code: code})
}

// HandleRetry implements the retry_combine tool.
func (s *Server) HandleRetry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, domain.EventRequest{Type: domain.EventRetryCombine})
}

// HandleCancel implements the cancel_selection tool.
func (s *Server) HandleCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, domain.EventRequest{Type: domain.EventCancelSelection})
}

// dispatch sanitizes the free-text fields and forwards the event. Rejected
// input and a closed coordinator are reported as tool errors so the model
// can react; they are not protocol failures.
func (s *Server) dispatch(ctx context.Context, req domain.EventRequest) (*mcp.CallToolResult, error) {
	for _, field := range []*string{&req.Term, &req.Code} {
		clean, err := runner.SanitizeInput(*field)
		if err != nil {
			s.logger.Warn("MCP: input rejected", "err", err, "size", len(*field))
			return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
		}
		*field = clean
	}

	event, err := req.Event()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, err := s.coordinator.Dispatch(ctx, event)
	if err != nil {
		s.logger.Error("MCP: dispatch failed", "err", err, "kind", event.Kind())
		return mcp.NewToolResultError(fmt.Sprintf("dispatch failed: %v", err)), nil
	}
	return snapshotResult(snap)
}

func snapshotResult(snap *domain.Snapshot) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(snapshotURI, "Current Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.coordinator.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: snapshotURI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(graphURI, "State Diagram",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: graphURI, MIMEType: "text/plain", Text: graph.GenerateMermaid(s.coordinator.Snapshot())},
		}, nil
	})
}
