// File path: cmd/portal-mcp/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
)

const version = "0.1.0"

func main() {
	// Stdout carries the MCP protocol.
	if strings.TrimSpace(os.Getenv("LOG_OUTPUT")) == "" {
		os.Setenv("LOG_OUTPUT", "stderr")
	}
	_ = godotenv.Load()
	logger := common.Logger()

	seedPath := flag.String("seed", "", "path to a YAML seed catalog (empty uses the embedded seed)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := orchestrator.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*seedPath); trimmed != "" {
		cfg.SeedPath = trimmed
	}
	orch, err := orchestrator.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "orchestrator error:", err)
		os.Exit(1)
	}
	defer orch.Close()

	app := &toolApp{orch: orch}
	s := server.NewMCPServer("advisor-portal", version)

	s.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Searches the client's document catalog by name or tag, optionally within one category."),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against names and tags")),
		mcp.WithString("category", mcp.Description("all, Tax, Legal, Insurance, Valuation, Project Updates or Contracts")),
	), app.searchDocumentsHandler)

	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("Lists advisory projects with status, completion and deadline."),
		mcp.WithString("query", mcp.Description("Text matched against name, type, entity and parties")),
		mcp.WithString("status", mcp.Description("all, on-track, attention, completed or overdue")),
	), app.listProjectsHandler)

	s.AddTool(mcp.NewTool("classify_document",
		mcp.WithDescription("Suggests category, tags and file type for a file name."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("The file name to classify")),
		mcp.WithNumber("size", mcp.Description("Optional size in bytes")),
	), app.classifyHandler)

	s.AddTool(mcp.NewTool("ask_assistant",
		mcp.WithDescription("Asks the financial assistant a question about the client's portfolio."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to ask")),
	), app.askHandler)

	logger.Info("mcp: serving on stdio", "provider", orch.Bridge().Provider())
	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp: server error", "error", err)
		os.Exit(1)
	}
}
