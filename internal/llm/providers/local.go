// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
)

// UnavailableProvider stands in when no credential is configured. Every call
// fails so callers take their local fallback path.
type UnavailableProvider struct {
	reason string
}

func NewUnavailableProvider(reason string) *UnavailableProvider {
	return &UnavailableProvider{reason: reason}
}

func (u *UnavailableProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if u.reason == "" {
		return "", ErrUnavailable
	}
	return "", fmt.Errorf("%w: %s", ErrUnavailable, u.reason)
}

func (u *UnavailableProvider) Name() string {
	return "unavailable"
}
