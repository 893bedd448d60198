package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paularlott/mcp"
	"github.com/paularlott/neollm/internal/botconfig"
	"github.com/paularlott/neollm/internal/storage"
)

const defaultRevisionLimit = 20

// Tools exposes the saved configs read-only over MCP.
type Tools struct {
	configs storage.ConfigStorage
	history storage.HistoryStorage
	server  *mcp.Server
}

func New(version string, configs storage.ConfigStorage, history storage.HistoryStorage) *Tools {
	server := mcp.NewServer("neollm", version)
	server.SetInstructions("Read-only access to NeoLLM bot configurations: list them, read a whole config or a single stage, and browse save history.")

	t := &Tools{
		configs: configs,
		history: history,
		server:  server,
	}
	t.registerTools()
	return t
}

// Server returns the underlying MCP server.
func (t *Tools) Server() *mcp.Server {
	return t.server
}

func (t *Tools) registerTools() {
	t.server.RegisterTool(
		mcp.NewTool("list_configs", "List the saved bot configurations with their size and modification time."),
		t.listConfigs,
	)

	t.server.RegisterTool(
		mcp.NewTool("get_config", "Return the full JSON of a saved bot configuration.",
			mcp.String("name", "Config name, without the .json extension", mcp.Required()),
		),
		t.getConfig,
	)

	t.server.RegisterTool(
		mcp.NewTool("get_stage", "Return one stage of a saved bot configuration, including its segments and wakeups.",
			mcp.String("name", "Config name, without the .json extension", mcp.Required()),
			mcp.String("stage", "Stage name", mcp.Required()),
		),
		t.getStage,
	)

	t.server.RegisterTool(
		mcp.NewTool("list_revisions", "List earlier saves of a bot configuration, newest first.",
			mcp.String("name", "Config name, without the .json extension", mcp.Required()),
			mcp.Number("limit", "Maximum number of revisions to return"),
		),
		t.listRevisions,
	)
}

func (t *Tools) listConfigs(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	configs, err := t.configs.List(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResponse(configs)
}

func (t *Tools) getConfig(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	name, err := stringArg(req, "name")
	if err != nil {
		return nil, err
	}

	data, err := t.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponseText(string(data)), nil
}

func (t *Tools) getStage(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	name, err := stringArg(req, "name")
	if err != nil {
		return nil, err
	}
	stageName, err := stringArg(req, "stage")
	if err != nil {
		return nil, err
	}

	data, err := t.load(ctx, name)
	if err != nil {
		return nil, err
	}
	doc, err := botconfig.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q is not a valid bot config: %w", name, err)
	}

	stage, ok := doc.Stage(stageName)
	if !ok {
		return nil, fmt.Errorf("stage %q not found in config %q", stageName, name)
	}
	return jsonResponse(stage)
}

func (t *Tools) listRevisions(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	name, err := stringArg(req, "name")
	if err != nil {
		return nil, err
	}

	limit := defaultRevisionLimit
	if v, ok := req.Args()["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	revisions, err := t.history.List(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	return jsonResponse(revisions)
}

func (t *Tools) load(ctx context.Context, name string) ([]byte, error) {
	data, err := t.configs.Load(ctx, name)
	if errors.Is(err, storage.ErrConfigNotFound) {
		return nil, fmt.Errorf("config %q not found", name)
	}
	return data, err
}

func stringArg(req *mcp.ToolRequest, key string) (string, error) {
	v, ok := req.Args()[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s parameter is required and must be a string", key)
	}
	return v, nil
}

func jsonResponse(v any) (*mcp.ToolResponse, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResponseText(string(data)), nil
}
