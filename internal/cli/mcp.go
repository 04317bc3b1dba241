package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/tandem/internal/config"
	"github.com/aretw0/tandem/pkg/adapters/mcp"
)

// MCPOptions configures the MCP server.
type MCPOptions struct {
	ConfigPath string
	Transport  string // stdio or sse
	Addr       string // listen address for sse
	BaseURL    string // public URL announced for sse
	Debug      bool
}

// ServeMCP exposes a coordinator as an MCP server until ctx is done (sse)
// or stdin closes (stdio).
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	// stdout carries JSON-RPC, so logs go to stderr only when asked for.
	logger, err := createLogger(cfg, opts.Debug, !opts.Debug)
	if err != nil {
		return err
	}

	stack, err := NewStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	srv := mcp.NewServer(stack.Coordinator, mcp.WithLogger(logger))
	switch opts.Transport {
	case "", "stdio":
		return srv.ServeStdio()
	case "sse":
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + opts.Addr
		}
		return srv.ServeSSE(ctx, opts.Addr, baseURL)
	default:
		return fmt.Errorf("unknown transport %q (stdio, sse)", opts.Transport)
	}
}
