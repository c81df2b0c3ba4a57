// File path: internal/llm/llm_test.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type capturedRequest struct {
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func TestOpenAIProviderSendsCompletionRequest(t *testing.T) {
	var captured capturedRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Your QSBS sale is 45% complete."}}]}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("sk-test", srv.URL, Settings{Model: "gpt-4", MaxTokens: 500, Temperature: Float(0.7)})
	answer, err := provider.Chat(context.Background(), []Message{
		{Role: "system", Content: "You are an AI financial assistant."},
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello"},
		{Role: "user", Content: "Is my QSBS rollover on track?"},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if answer != "Your QSBS sale is 45% complete." {
		t.Fatalf("answer = %q", answer)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", auth)
	}
	if captured.Model != "gpt-4" || captured.MaxTokens != 500 || captured.Temperature == nil || *captured.Temperature != 0.7 {
		t.Fatalf("unexpected sampling params: %+v", captured)
	}
	if len(captured.Messages) != 4 || captured.Messages[0].Role != "system" || captured.Messages[2].Role != "assistant" {
		t.Fatalf("unexpected messages: %+v", captured.Messages)
	}
}

func TestOpenAIProviderDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("sk-test", srv.URL, Settings{Model: "gpt-4"})
	if _, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected error for non-success status")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestNewProviderWithoutKeysIsUnavailable(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	provider := NewProvider(context.Background())
	if provider.Name() != "unavailable" {
		t.Fatalf("provider = %s", provider.Name())
	}
	_, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestOpenAIProviderKeepsZeroTemperature(t *testing.T) {
	var captured capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider("sk-test", srv.URL, Settings{Model: "gpt-4", Temperature: Float(0)})
	if _, err := provider.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if captured.Temperature == nil || *captured.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", captured.Temperature)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "")
	t.Setenv("LLM_TEMPERATURE", "")
	settings := SettingsFromEnv()
	if settings.MaxTokens != 500 || settings.Temperature == nil || *settings.Temperature != 0.7 {
		t.Fatalf("unexpected defaults: %+v", settings)
	}
	t.Setenv("LLM_MAX_TOKENS", "800")
	t.Setenv("LLM_TEMPERATURE", "bogus")
	settings = SettingsFromEnv()
	if settings.MaxTokens != 800 || *settings.Temperature != 0.7 {
		t.Fatalf("unexpected overrides: %+v", settings)
	}
	t.Setenv("LLM_TEMPERATURE", "0")
	if settings = SettingsFromEnv(); *settings.Temperature != 0 {
		t.Fatalf("expected temperature 0 to be kept, got %v", *settings.Temperature)
	}
}
