// File path: internal/assistant/prompt.go
package assistant

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

const systemTemplate = `You are an AI financial assistant for {{.client_name}}. You have access to their financial portfolio, including:

CURRENT PROJECTS:
{{.projects}}

CLIENT DATA:
- Total Assets: {{.total_assets}}
- Active Projects: {{.active_projects}}
- Recent Activity: {{.recent_activity}}

CONTEXT ABOUT PROJECTS:
{{.project_context}}

Provide helpful, specific answers about their financial situation, projects, deadlines, and planning. Be professional but conversational. Use relevant emojis and formatting to make responses clear and engaging. Reference specific project details when relevant.`

var systemPrompt = prompts.NewPromptTemplate(systemTemplate, []string{
	"client_name",
	"projects",
	"total_assets",
	"active_projects",
	"recent_activity",
	"project_context",
})

// SystemPrompt renders the system instruction for client and projects.
func SystemPrompt(client portal.ClientProfile, projects []portal.Project) (string, error) {
	out, err := systemPrompt.Format(map[string]any{
		"client_name":     client.Name,
		"projects":        projectLines(projects),
		"total_assets":    client.TotalAssets,
		"active_projects": client.ActiveProjects,
		"recent_activity": client.RecentActivity,
		"project_context": projectContext(projects),
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return out, nil
}

func projectLines(projects []portal.Project) string {
	if len(projects) == 0 {
		return "- No projects on file"
	}
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		line := fmt.Sprintf("- %s (%s, %d%% complete, deadline: %s", p.Name, p.Status, p.Completion, p.Deadline)
		if p.Entity != "" {
			line += ", entity: " + p.Entity
		}
		lines = append(lines, line+")")
	}
	return strings.Join(lines, "\n")
}

func projectContext(projects []portal.Project) string {
	if len(projects) == 0 {
		return "- None"
	}
	lines := make([]string, 0, len(projects))
	for _, p := range projects {
		kind := strings.TrimSpace(p.Type)
		if kind == "" {
			kind = "Advisory"
		}
		line := fmt.Sprintf("- %s: %s project", p.Name, kind)
		if p.Entity != "" {
			line += " under " + p.Entity
		}
		if p.LastUpdate != "" {
			line += ", " + lowerFirst(p.LastUpdate)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
