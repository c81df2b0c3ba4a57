// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by providers that cannot reach a remote model.
var ErrUnavailable = errors.New("no remote chat provider configured")

const (
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
)

type Message struct {
	Role    string
	Content string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// Settings are the sampling parameters shared by the remote providers. A nil
// Temperature means unset; zero is a valid temperature.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature *float64
}

// Float returns a pointer to v for Settings.Temperature.
func Float(v float64) *float64 {
	return &v
}

func (s Settings) withDefaults(model string) Settings {
	if s.Model == "" {
		s.Model = model
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Temperature == nil {
		s.Temperature = Float(DefaultTemperature)
	}
	return s
}
