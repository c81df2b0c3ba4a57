// File path: internal/assistant/bridge.go
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/llm"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// DefaultHistoryWindow is the number of prior turns forwarded to the model.
const DefaultHistoryWindow = 10

// Bridge forwards a question plus portfolio context to a remote model.
type Bridge struct {
	provider llm.Provider
	window   int
}

// NewBridge wraps provider. A window of zero or less uses
// DefaultHistoryWindow.
func NewBridge(provider llm.Provider, window int) *Bridge {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Bridge{provider: provider, window: window}
}

// Provider returns the wrapped provider name, or "none".
func (b *Bridge) Provider() string {
	if b == nil || b.provider == nil {
		return "none"
	}
	return b.provider.Name()
}

// Complete asks the remote model once. Failures are returned as-is; there is
// no retry.
func (b *Bridge) Complete(ctx context.Context, question string, client portal.ClientProfile, projects []portal.Project, history []portal.ChatMessage) (string, error) {
	if b == nil || b.provider == nil {
		return "", llm.ErrUnavailable
	}
	messages, err := b.Messages(question, client, projects, history)
	if err != nil {
		return "", err
	}
	logger := common.Logger()
	logger.Debug("assistant: remote call", "provider", b.provider.Name(), "messages", len(messages))
	answer, err := b.provider.Chat(ctx, messages)
	if err != nil {
		logger.Warn("assistant: remote completion failed", "provider", b.provider.Name(), "error", err)
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%s returned an empty answer", b.provider.Name())
	}
	return answer, nil
}

// Messages assembles the system prompt, the trailing history window and the
// question in the order they are sent.
func (b *Bridge) Messages(question string, client portal.ClientProfile, projects []portal.Project, history []portal.ChatMessage) ([]llm.Message, error) {
	system, err := SystemPrompt(client, projects)
	if err != nil {
		return nil, err
	}
	window := b.window
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: string(portal.RoleSystem), Content: system})
	for _, msg := range history {
		role := msg.Role
		if role != portal.RoleAssistant {
			role = portal.RoleUser
		}
		messages = append(messages, llm.Message{Role: string(role), Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: string(portal.RoleUser), Content: question})
	return messages, nil
}
