// File path: internal/llm/providers/gemini_client.go
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/nicodishanthj/advisor_portal/internal/common"
)

type GeminiProvider struct {
	client   *genai.Client
	settings Settings
}

func NewGeminiProvider(client *genai.Client, settings Settings) *GeminiProvider {
	model := strings.TrimSpace(os.Getenv("GEMINI_CHAT_MODEL"))
	if model == "" {
		model = "gemini-2.5-flash"
	}
	settings = settings.withDefaults(model)
	common.Logger().Info("llm: Gemini provider configured", "chat_model", settings.Model, "max_tokens", settings.MaxTokens)
	return &GeminiProvider{client: client, settings: settings}
}

// Chat maps system messages onto the system instruction and the remaining
// turns onto user/model contents.
func (g *GeminiProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("nil genai client")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	logger := common.Logger()
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = append(system, msg.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(*g.settings.Temperature)),
		MaxOutputTokens: int32(g.settings.MaxTokens),
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	logger.Debug("llm: sending gemini request", "model", g.settings.Model, "contents", len(contents))
	resp, err := g.client.Models.GenerateContent(ctx, g.settings.Model, contents, cfg)
	if err != nil {
		logger.Error("llm: gemini request failed", "error", err)
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	return resp.Text(), nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}
