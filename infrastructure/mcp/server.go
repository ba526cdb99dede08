// Package mcp exposes the filesystem tools to an agent over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/felixgeelhaar/fsagent/application"
	mcpgo "github.com/felixgeelhaar/mcp-go"
)

// Server wraps an MCP server that routes every tool call through the
// dispatcher, so argument validation, resilience, and error mapping
// apply uniformly regardless of transport.
type Server struct {
	srv        *mcpgo.Server
	dispatcher *application.Dispatcher
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	// Name is the server name announced to clients.
	Name string

	// Version is the server version.
	Version string

	// Dispatcher handles every tool call.
	Dispatcher *application.Dispatcher

	// Instructions provides usage instructions for clients.
	Instructions string
}

// NewServer creates an MCP server exposing every registered tool.
func NewServer(cfg ServerConfig) *Server {
	info := mcpgo.ServerInfo{
		Name:    cfg.Name,
		Version: cfg.Version,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &Server{
		srv:        mcpgo.NewServer(info, opts...),
		dispatcher: cfg.Dispatcher,
	}

	for _, t := range cfg.Dispatcher.Registry().List() {
		name := t.Name()
		s.srv.Tool(name).
			Description(t.Description()).
			Handler(func(ctx context.Context, input json.RawMessage) (string, error) {
				resp := s.dispatcher.Dispatch(ctx, name, input)
				data, err := json.Marshal(resp)
				if err != nil {
					return "", err
				}
				return string(data), nil
			})
	}

	return s
}

// Server returns the underlying mcp-go server.
func (s *Server) Server() *mcpgo.Server {
	return s.srv
}

// ServeStdio runs the server over stdin/stdout until the context is
// cancelled.
func (s *Server) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}
