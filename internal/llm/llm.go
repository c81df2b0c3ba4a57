// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

type Settings = providers.Settings

// Float returns a pointer to v for Settings.Temperature.
func Float(v float64) *float64 {
	return providers.Float(v)
}

// ErrUnavailable marks failures caused by a missing remote provider.
var ErrUnavailable = providers.ErrUnavailable

// SettingsFromEnv reads LLM_MAX_TOKENS and LLM_TEMPERATURE, falling back to
// 500 tokens at temperature 0.7.
func SettingsFromEnv() Settings {
	logger := common.Logger()
	settings := Settings{MaxTokens: providers.DefaultMaxTokens, Temperature: Float(providers.DefaultTemperature)}
	if value := strings.TrimSpace(os.Getenv("LLM_MAX_TOKENS")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			settings.MaxTokens = parsed
		} else {
			logger.Warn("llm: invalid LLM_MAX_TOKENS, using default", "value", value)
		}
	}
	if value := strings.TrimSpace(os.Getenv("LLM_TEMPERATURE")); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			settings.Temperature = Float(parsed)
		} else {
			logger.Warn("llm: invalid LLM_TEMPERATURE, using default", "value", value)
		}
	}
	return settings
}

// NewProvider selects a provider from LLM_PROVIDER (openai, gemini) or from
// whichever API key is present. Without credentials the unavailable provider
// is returned and callers fall back to local answers.
func NewProvider(ctx context.Context) Provider {
	logger := common.Logger()
	settings := SettingsFromEnv()
	choice := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	openaiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if choice == "" {
		switch {
		case openaiKey != "":
			choice = "openai"
		case geminiKey != "":
			choice = "gemini"
		}
	}
	switch choice {
	case "openai":
		if openaiKey == "" {
			logger.Warn("llm: LLM_PROVIDER=openai but OPENAI_API_KEY not set; using local answers")
			return providers.NewUnavailableProvider("OPENAI_API_KEY not set")
		}
		return newOpenAI(openaiKey, settings)
	case "gemini":
		if geminiKey == "" {
			logger.Warn("llm: LLM_PROVIDER=gemini but GEMINI_API_KEY not set; using local answers")
			return providers.NewUnavailableProvider("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: geminiKey, Backend: genai.BackendGeminiAPI})
		if err != nil {
			logger.Error("llm: genai client init failed; using local answers", "error", err)
			return providers.NewUnavailableProvider(err.Error())
		}
		logger.Info("llm: Gemini provider selected")
		return providers.NewGeminiProvider(client, settings)
	case "", "local", "none":
		logger.Warn("llm: no API key set; chat will use local answers")
		return providers.NewUnavailableProvider("no API key configured")
	default:
		logger.Warn("llm: unknown LLM_PROVIDER; using local answers", "provider", choice)
		return providers.NewUnavailableProvider("unknown provider " + choice)
	}
}

func newOpenAI(apiKey string, settings Settings) Provider {
	logger := common.Logger()
	// One best-effort attempt per message; the SDK retries by default.
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		} else {
			logger.Info("llm: configuring OpenAI client with request timeout", "timeout", timeout)
			opts = append(opts, option.WithRequestTimeout(timeout))
		}
	}
	if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
		logger.Info("llm: configuring OpenAI client with custom endpoint", "endpoint", endpoint)
		opts = append(opts, option.WithBaseURL(endpoint))
	} else {
		logger.Debug("llm: using default OpenAI endpoint")
	}
	client := openai.NewClient(opts...)
	logger.Info("llm: OpenAI provider selected")
	return providers.NewOpenAIProvider(client, settings)
}

// NewOpenAIProvider builds an OpenAI provider against an explicit endpoint.
func NewOpenAIProvider(apiKey, endpoint string, settings Settings) Provider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if strings.TrimSpace(endpoint) != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	return providers.NewOpenAIProvider(openai.NewClient(opts...), settings)
}
