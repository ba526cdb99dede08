package files

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/fsagent/domain/confirm"
	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
)

type deleteInput struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
}

func deletePathTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("delete_path").
		WithDescription("Delete a file or directory; always requires confirmation").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":      tool.StringProperty("Path to delete; aliases are expanded"),
			"recursive": tool.BooleanProperty("Delete a non-empty directory and its contents"),
		}, []string{"path"})).
		Destructive().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in deleteInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}
			if err := deps.Executor.Guard(path); err != nil {
				return tool.Result{}, err
			}

			pending := deps.Gate.Request(confirm.Request{
				Operation: "delete_path",
				Targets:   []string{path},
				Action: func(ctx context.Context) (json.RawMessage, error) {
					res, err := deps.Executor.Delete(ctx, path, in.Recursive)
					if err != nil {
						return nil, err
					}
					return json.Marshal(res)
				},
			})
			return tool.MarshalResult(newPendingResponse(pending))
		}).
		MustBuild()
}

type moveInput struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

func moveFileTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("move_file").
		WithDescription("Move or rename a file; replacing an existing destination requires confirmation").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"src": tool.StringProperty("Source path; aliases are expanded"),
			"dst": tool.StringProperty("Destination path; missing parents are created"),
		}, []string{"src", "dst"})).
		WithRiskLevel(tool.RiskMedium).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in moveInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			src, err := deps.Resolver.Resolve(in.Src, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}
			dst, err := deps.Resolver.Resolve(in.Dst, resolver.ModeCreate)
			if err != nil {
				return tool.Result{}, err
			}
			if err := deps.Executor.Guard(src); err != nil {
				return tool.Result{}, err
			}
			if err := deps.Executor.Guard(dst); err != nil {
				return tool.Result{}, err
			}

			// Moving onto an existing destination discards its content.
			if _, statErr := os.Stat(dst); statErr == nil {
				pending := deps.Gate.Request(confirm.Request{
					Operation: "move_file",
					Targets:   []string{src, dst},
					Action: func(ctx context.Context) (json.RawMessage, error) {
						res, err := deps.Executor.Move(ctx, src, dst)
						if err != nil {
							return nil, err
						}
						return json.Marshal(res)
					},
				})
				return tool.MarshalResult(newPendingResponse(pending))
			}

			res, err := deps.Executor.Move(ctx, src, dst)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}
