package files

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
)

type initializeInput struct {
	Roots []string `json:"roots"`
}

func initializeIndexTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("initialize_index").
		WithDescription("Build or rebuild the file index over one or more root directories").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"roots": json.RawMessage(`{"type":"array","items":{"type":"string"},"description":"Root directories to index; aliases are expanded"}`),
		}, []string{"roots"})).
		Idempotent().
		WithRiskLevel(tool.RiskLow).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in initializeInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}
			if len(in.Roots) == 0 {
				return tool.Result{}, fmt.Errorf("%w: roots must not be empty", fsop.ErrInvalidArgument)
			}

			roots := make([]string, 0, len(in.Roots))
			for _, raw := range in.Roots {
				root, err := deps.Resolver.Resolve(raw, resolver.ModeExisting)
				if err != nil {
					return tool.Result{}, err
				}
				roots = append(roots, root)
			}

			res, err := deps.Indexer.Build(ctx, roots)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}
