// File path: cmd/portal-mcp/handlers_test.go
package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
	"github.com/nicodishanthj/advisor_portal/internal/llm"
)

type offlineProvider struct{}

func (offlineProvider) Chat(context.Context, []llm.Message) (string, error) {
	return "", errors.New("offline")
}

func (offlineProvider) Name() string { return "offline" }

func newTestApp(t *testing.T) *toolApp {
	t.Helper()
	t.Setenv("PORTAL_SEED_FILE", "")
	orch, err := orchestrator.New(context.Background(), orchestrator.Config{}, orchestrator.WithProvider(offlineProvider{}))
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	t.Cleanup(func() { _ = orch.Close() })
	return &toolApp{orch: orch}
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestSearchDocumentsTool(t *testing.T) {
	app := newTestApp(t)
	text, isErr := call(t, app.searchDocumentsHandler, map[string]any{"query": "trust", "category": "Legal"})
	if isErr || !strings.Contains(text, "Trust Agreement Amendment.pdf") {
		t.Fatalf("unexpected search result: %s", text)
	}
	text, _ = call(t, app.searchDocumentsHandler, map[string]any{"query": "zzz"})
	if strings.Contains(text, "[") {
		t.Fatalf("expected empty message, got %s", text)
	}
}

func TestListProjectsTool(t *testing.T) {
	app := newTestApp(t)
	text, _ := call(t, app.listProjectsHandler, map[string]any{"status": "completed"})
	if !strings.Contains(text, "Trust Restructuring") || strings.Contains(text, "QSBS") {
		t.Fatalf("unexpected projects: %s", text)
	}
	text, _ = call(t, app.listProjectsHandler, map[string]any{"query": "yacht"})
	if !strings.Contains(text, "No projects found") {
		t.Fatalf("expected project empty message, got %s", text)
	}
}

func TestClassifyTool(t *testing.T) {
	app := newTestApp(t)
	text, isErr := call(t, app.classifyHandler, map[string]any{"filename": "2023_Tax_Return.pdf", "size": float64(1536)})
	if isErr || !strings.Contains(text, `"category": "Tax"`) || !strings.Contains(text, `"size": "1.5 KB"`) {
		t.Fatalf("unexpected classification: %s", text)
	}
	if _, isErr := call(t, app.classifyHandler, map[string]any{}); !isErr {
		t.Fatalf("expected error result for missing filename")
	}
}

func TestAskToolFallsBack(t *testing.T) {
	app := newTestApp(t)
	text, isErr := call(t, app.askHandler, map[string]any{"question": "QSBS status?"})
	if isErr || !strings.Contains(text, "45%") || !strings.HasPrefix(text, "I apologize") {
		t.Fatalf("unexpected answer: %s", text)
	}
}
