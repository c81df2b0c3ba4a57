// File path: cmd/portal-mcp/handlers.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nicodishanthj/advisor_portal/internal/assistant"
	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
	"github.com/nicodishanthj/advisor_portal/internal/search"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

type toolApp struct {
	orch *orchestrator.Orchestrator
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (a *toolApp) searchDocumentsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	query := stringArg(args, "query")
	docs := search.Documents(a.orch.Catalog().Snapshot().Documents, query, stringArg(args, "category"))
	if len(docs) == 0 {
		return mcp.NewToolResultText(search.EmptyMessage(query)), nil
	}
	return jsonResult(docs)
}

func (a *toolApp) listProjectsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	query := stringArg(args, "query")
	projects := search.Projects(a.orch.Catalog().Snapshot().Projects, query, stringArg(args, "status"))
	if len(projects) == 0 {
		return mcp.NewToolResultText(search.ProjectsEmptyMessage(query)), nil
	}
	type summary struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Status     string `json:"status"`
		Completion int    `json:"completion"`
		Deadline   string `json:"deadline"`
		Entity     string `json:"entity"`
		LastUpdate string `json:"last_update"`
	}
	out := make([]summary, 0, len(projects))
	for _, p := range projects {
		out = append(out, summary{
			ID:         p.ID,
			Name:       p.Name,
			Status:     string(p.Status),
			Completion: p.Completion,
			Deadline:   p.Deadline,
			Entity:     p.Entity,
			LastUpdate: p.LastUpdate,
		})
	}
	return jsonResult(out)
}

func (a *toolApp) classifyHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	filename := stringArg(args, "filename")
	if filename == "" {
		return mcp.NewToolResultError("filename cannot be empty"), nil
	}
	result := map[string]any{
		"classification": upload.Classify(filename),
		"allowed":        upload.Allowed(filename),
	}
	if size, ok := args["size"].(float64); ok && size > 0 {
		result["size"] = upload.FormatSize(int64(size))
	}
	return jsonResult(result)
}

func (a *toolApp) askHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]any)
	question := stringArg(args, "question")
	if question == "" {
		return mcp.NewToolResultError("question cannot be empty"), nil
	}
	state := a.orch.Catalog().Snapshot()
	answer, err := a.orch.Bridge().Complete(ctx, question, state.Client, state.Projects, nil)
	if err != nil {
		common.Logger().Warn("assistant: remote completion failed", "tool", "ask_assistant", "error", err)
		answer = assistant.FallbackPreamble + a.orch.Responder().Respond(question, state.Projects)
	}
	return mcp.NewToolResultText(answer), nil
}
