package files

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
)

type confirmInput struct {
	Token string `json:"token"`
}

func confirmActionTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("confirm_action").
		WithDescription("Confirm the pending destructive operation and execute it").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"token": tool.StringProperty("Token returned when the operation was requested"),
		}, []string{"token"})).
		WithRiskLevel(tool.RiskHigh).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in confirmInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			out, err := deps.Gate.Confirm(ctx, in.Token)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.NewResult(out), nil
		}).
		MustBuild()
}

type cancelOutput struct {
	Cancelled bool `json:"cancelled"`
}

func cancelActionTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("cancel_action").
		WithDescription("Cancel the pending destructive operation without executing it").
		WithInputSchema(tool.EmptySchema()).
		Idempotent().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return tool.MarshalResult(cancelOutput{Cancelled: deps.Gate.Cancel()})
		}).
		MustBuild()
}
