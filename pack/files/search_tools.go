package files

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
)

type searchInput struct {
	Pattern        string `json:"pattern"`
	Scope          string `json:"scope,omitempty"`
	Extension      string `json:"extension,omitempty"`
	MinSize        *int64 `json:"min_size,omitempty"`
	MaxSize        *int64 `json:"max_size,omitempty"`
	ModifiedAfter  string `json:"modified_after,omitempty"`
	ModifiedBefore string `json:"modified_before,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

type searchEntry struct {
	Path       string     `json:"path"`
	Name       string     `json:"name"`
	SizeBytes  int64      `json:"size_bytes"`
	SizeHuman  string     `json:"size_human"`
	ModifiedAt time.Time  `json:"modified_at"`
	Kind       index.Kind `json:"kind"`
	Extension  string     `json:"extension,omitempty"`
}

type searchOutput struct {
	Count   int           `json:"count"`
	Entries []searchEntry `json:"entries"`
}

func toSearchEntry(e index.Entry) searchEntry {
	return searchEntry{
		Path:       e.Path,
		Name:       e.Name,
		SizeBytes:  e.SizeBytes,
		SizeHuman:  fsop.FormatSize(e.SizeBytes),
		ModifiedAt: e.ModifiedAt,
		Kind:       e.Kind,
		Extension:  e.Extension,
	}
}

// resolveScope canonicalizes an optional scope argument, expanding
// aliases. An empty scope means an unrestricted query.
func resolveScope(deps *Deps, scope string) (string, error) {
	if scope == "" {
		return "", nil
	}
	return deps.Resolver.Resolve(scope, resolver.ModeExisting)
}

func parseTimeArg(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC 3339, got %q",
			fsop.ErrInvalidArgument, field, value)
	}
	return &t, nil
}

func buildQuery(deps *Deps, cfg *Config, in searchInput) (index.Query, error) {
	scope, err := resolveScope(deps, in.Scope)
	if err != nil {
		return index.Query{}, err
	}
	after, err := parseTimeArg("modified_after", in.ModifiedAfter)
	if err != nil {
		return index.Query{}, err
	}
	before, err := parseTimeArg("modified_before", in.ModifiedBefore)
	if err != nil {
		return index.Query{}, err
	}

	limit := in.Limit
	if limit <= 0 || limit > cfg.MaxResults {
		limit = cfg.MaxResults
	}

	return index.Query{
		NamePattern:    in.Pattern,
		Extension:      in.Extension,
		MinSize:        in.MinSize,
		MaxSize:        in.MaxSize,
		ModifiedAfter:  after,
		ModifiedBefore: before,
		Scope:          scope,
		Limit:          limit,
	}, nil
}

func searchFilesTool(deps *Deps, cfg *Config) tool.Tool {
	return tool.NewBuilder("search_files").
		WithDescription("Search indexed files by name pattern and attribute filters").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"pattern":         tool.StringProperty("Name pattern: glob when it contains * ? or [, case-insensitive substring otherwise"),
			"scope":           tool.StringProperty("Restrict results to this directory or alias"),
			"extension":       tool.StringProperty("File extension without the leading dot"),
			"min_size":        tool.IntegerProperty("Minimum size in bytes, inclusive"),
			"max_size":        tool.IntegerProperty("Maximum size in bytes, inclusive"),
			"modified_after":  tool.StringProperty("RFC 3339 lower bound on modification time, inclusive"),
			"modified_before": tool.StringProperty("RFC 3339 upper bound on modification time, inclusive"),
			"limit":           tool.IntegerProperty("Maximum number of results"),
		}, []string{"pattern"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in searchInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			q, err := buildQuery(deps, cfg, in)
			if err != nil {
				return tool.Result{}, err
			}

			entries, err := deps.Search.Search(ctx, q)
			if err != nil {
				return tool.Result{}, err
			}

			out := searchOutput{Count: len(entries), Entries: make([]searchEntry, 0, len(entries))}
			for _, e := range entries {
				out.Entries = append(out.Entries, toSearchEntry(e))
			}
			return tool.MarshalResult(out)
		}).
		MustBuild()
}

type findLatestInput struct {
	Pattern string `json:"pattern"`
	Scope   string `json:"scope,omitempty"`
}

type findLatestOutput struct {
	Latest  searchEntry   `json:"latest"`
	Matches []searchEntry `json:"matches"`
}

func findLatestFileTool(deps *Deps, cfg *Config) tool.Tool {
	return tool.NewBuilder("find_latest_file").
		WithDescription("Find the most recently modified file matching a pattern").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"pattern": tool.StringProperty("Name pattern to match"),
			"scope":   tool.StringProperty("Restrict the search to this directory or alias"),
		}, []string{"pattern"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in findLatestInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			scope, err := resolveScope(deps, in.Scope)
			if err != nil {
				return tool.Result{}, err
			}

			latest, err := deps.Search.FindLatest(ctx, in.Pattern, scope)
			if err != nil {
				return tool.Result{}, err
			}

			matches, err := deps.Search.Search(ctx, index.Query{
				NamePattern: in.Pattern,
				Scope:       scope,
				Limit:       cfg.MaxResults,
			})
			if err != nil {
				return tool.Result{}, err
			}

			out := findLatestOutput{
				Latest:  toSearchEntry(latest),
				Matches: make([]searchEntry, 0, len(matches)),
			}
			for _, e := range matches {
				out.Matches = append(out.Matches, toSearchEntry(e))
			}
			return tool.MarshalResult(out)
		}).
		MustBuild()
}
