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

type createInput struct {
	Path      string `json:"path"`
	Content   string `json:"content,omitempty"`
	Template  string `json:"template,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

func createFileTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("create_file").
		WithDescription("Create a new file, optionally from a content template").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":      tool.StringProperty("Path of the file to create; aliases are expanded"),
			"content":   tool.StringProperty("Initial content, placed after any template boilerplate"),
			"template":  tool.StringProperty("Content template: python, html, markdown, json, or csv"),
			"overwrite": tool.BooleanProperty("Replace an existing file; requires confirmation"),
		}, []string{"path"})).
		Idempotent().
		WithRiskLevel(tool.RiskMedium).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in createInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeCreate)
			if err != nil {
				return tool.Result{}, err
			}
			if err := deps.Executor.Guard(path); err != nil {
				return tool.Result{}, err
			}

			content := in.Content
			if in.Template != "" {
				boiler, err := templateContent(in.Template, path)
				if err != nil {
					return tool.Result{}, err
				}
				content = boiler + in.Content
			}

			// Replacing an existing file discards its content, so it
			// goes through the gate like any other overwrite.
			if _, statErr := os.Stat(path); statErr == nil && in.Overwrite {
				pending := deps.Gate.Request(confirm.Request{
					Operation: "create_file",
					Targets:   []string{path},
					Action: func(ctx context.Context) (json.RawMessage, error) {
						res, err := deps.Executor.Create(ctx, path, content, true)
						if err != nil {
							return nil, err
						}
						return json.Marshal(res)
					},
				})
				return tool.MarshalResult(newPendingResponse(pending))
			}

			res, err := deps.Executor.Create(ctx, path, content, false)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}

type writeInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func writeFileTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("write_file").
		WithDescription("Replace a file's content entirely; overwriting an existing file requires confirmation").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":    tool.StringProperty("Path of the file to write; aliases are expanded"),
			"content": tool.StringProperty("New content"),
		}, []string{"path", "content"})).
		WithRiskLevel(tool.RiskMedium).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in writeInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeCreate)
			if err != nil {
				return tool.Result{}, err
			}
			if err := deps.Executor.Guard(path); err != nil {
				return tool.Result{}, err
			}

			if _, statErr := os.Stat(path); statErr == nil {
				pending := deps.Gate.Request(confirm.Request{
					Operation: "write_file",
					Targets:   []string{path},
					Action: func(ctx context.Context) (json.RawMessage, error) {
						res, err := deps.Executor.Write(ctx, path, in.Content)
						if err != nil {
							return nil, err
						}
						return json.Marshal(res)
					},
				})
				return tool.MarshalResult(newPendingResponse(pending))
			}

			res, err := deps.Executor.Write(ctx, path, in.Content)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}

type appendInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func appendFileTool(deps *Deps) tool.Tool {
	return tool.NewBuilder("append_file").
		WithDescription("Append content to the end of an existing file").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path":    tool.StringProperty("Path of the file to append to; aliases are expanded"),
			"content": tool.StringProperty("Content to append"),
		}, []string{"path", "content"})).
		WithRiskLevel(tool.RiskLow).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			var in appendInput
			if err := json.Unmarshal(input, &in); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err)
			}

			path, err := deps.Resolver.Resolve(in.Path, resolver.ModeExisting)
			if err != nil {
				return tool.Result{}, err
			}

			res, err := deps.Executor.Append(ctx, path, in.Content)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.MarshalResult(res)
		}).
		MustBuild()
}
