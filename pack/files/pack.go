// Package files provides the filesystem tool surface exposed to the
// orchestrating agent: search, metadata, read, write, move, delete,
// directory listing, index maintenance, and the confirmation protocol
// for destructive operations.
package files

import (
	"errors"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/confirm"
	"github.com/felixgeelhaar/fsagent/domain/pack"
	"github.com/felixgeelhaar/fsagent/infrastructure/executor"
	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
	"github.com/felixgeelhaar/fsagent/infrastructure/search"
)

// Deps are the wired components the tools operate through.
type Deps struct {
	Resolver *resolver.Resolver
	Search   *search.Engine
	Executor *executor.Executor
	Indexer  *indexer.Builder
	Gate     confirm.Gate
}

// Config bounds the tool surface.
type Config struct {
	// MaxResults caps search result counts regardless of the caller's
	// requested limit.
	MaxResults int

	// MaxReadBytes is the default read cap when the caller omits one.
	MaxReadBytes int64
}

// Option configures the files pack.
type Option func(*Config)

// WithMaxResults sets the search result cap.
func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.MaxResults = n
	}
}

// WithMaxReadBytes sets the default read cap.
func WithMaxReadBytes(n int64) Option {
	return func(c *Config) {
		c.MaxReadBytes = n
	}
}

// New creates the files pack over the given components.
func New(deps Deps, opts ...Option) (*pack.Pack, error) {
	if deps.Resolver == nil || deps.Search == nil || deps.Executor == nil ||
		deps.Indexer == nil || deps.Gate == nil {
		return nil, errors.New("files: all dependencies must be provided")
	}

	cfg := Config{
		MaxResults:   100,
		MaxReadBytes: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return pack.NewBuilder("files").
		WithDescription("Local filesystem search, inspection, and guarded mutation").
		WithVersion("1.0.0").
		AddTools(
			searchFilesTool(&deps, &cfg),
			findLatestFileTool(&deps, &cfg),
			getMetadataTool(&deps),
			readFileTool(&deps, &cfg),
			listDirectoryTool(&deps),
			createFileTool(&deps),
			writeFileTool(&deps),
			appendFileTool(&deps),
			deletePathTool(&deps),
			moveFileTool(&deps),
			initializeIndexTool(&deps),
			confirmActionTool(&deps),
			cancelActionTool(&deps),
		).
		Build(), nil
}

// pendingResponse is returned when a destructive call is parked behind
// the confirmation gate instead of executing.
type pendingResponse struct {
	ConfirmationRequired bool      `json:"confirmation_required"`
	Token                string    `json:"token"`
	Operation            string    `json:"operation"`
	Targets              []string  `json:"targets"`
	ExpiresAt            time.Time `json:"expires_at"`
}

func newPendingResponse(p confirm.Pending) pendingResponse {
	return pendingResponse{
		ConfirmationRequired: true,
		Token:                p.Token,
		Operation:            p.Operation,
		Targets:              p.Targets,
		ExpiresAt:            p.ExpiresAt,
	}
}
