package files

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/executor"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
)

type pathInput struct {
	Path string `json:"path"`
}

func getMetadataTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("get_metadata").
		WithDescription("Report live size, timestamps, kind, and coarse permissions for a path").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path": tool.StringProperty("File or directory path; aliases are expanded"),
		}, []string{"path"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in pathInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}

			meta, err := deps.Executor.Stat(ctx, path)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(meta)
		}).
		MustBuild()
}

type readInput struct {
	Path     string `json:"path"`
	MaxBytes int64  `json:"max_bytes,omitempty"`
}

func readFileTool(deps *Deps, cfg *Config) tool.Tool {
	return tool.NewBuilder("read_file").
		WithDescription("Read the contents of a text file, bounded by a size limit").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":      tool.StringProperty("File path; aliases are expanded"),
			"max_bytes": tool.IntegerProperty("Read at most this many bytes"),
		}, []string{"path"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in readInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}

			maxBytes := in.MaxBytes
			if maxBytes <= 0 {
				maxBytes = cfg.MaxReadBytes
			}

			res, err := deps.Executor.Read(ctx, path, maxBytes)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}

type listInput struct {
	Path          string `json:"path"`
	IncludeHidden bool   `json:"include_hidden,omitempty"`
	SortBy        string `json:"sort_by,omitempty"`
}

type listOutput struct {
	Path    string               `json:"path"`
	Count   int                  `json:"count"`
	Entries []executor.ListEntry `json:"entries"`
}

func listDirectoryTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("list_directory").
		WithDescription("List the immediate children of a directory").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":           tool.StringProperty("Directory path; aliases are expanded"),
			"include_hidden": tool.BooleanProperty("Include dotfiles in the listing"),
			"sort_by":        tool.StringProperty("Ordering: name, size, modified, or kind"),
		}, []string{"path"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in listInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}

			sortBy := executor.ListSort(in.SortBy)
			switch sortBy {
			case "":
				sortBy = executor.SortByName
			case executor.SortByName, executor.SortBySize, executor.SortByModified, executor.SortByKind:
			default:
				return tool.Result{}, fmt.Errorf("%w: unknown sort_by %q",
					fsop.ErrInvalidArgument, in.SortBy)
			}

			entries, err := deps.Executor.List(ctx, path, in.IncludeHidden, sortBy)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(listOutput{Path: path, Count: len(entries), Entries: entries})
		}).
		MustBuild()
}
