// File path: internal/common/log_test.go
package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCapturingHandlerRecordsEntries(t *testing.T) {
	var buf bytes.Buffer
	s := newLogSink(10)
	log := slog.New(newCapturingHandler(&buf, "text", slog.LevelDebug, s)).With("request", "r-1")
	log.Info("inbox: message stored", "urgency", "high", "error", errors.New("boom"))

	entries := s.entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Component != "inbox" || entry.Level != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Attributes["request"] != "r-1" || entry.Attributes["urgency"] != "high" || entry.Attributes["error"] != "boom" {
		t.Fatalf("unexpected attributes: %+v", entry.Attributes)
	}
	if !strings.Contains(buf.String(), "inbox: message stored") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestCapturingHandlerRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	s := newLogSink(10)
	log := slog.New(newCapturingHandler(&buf, "json", slog.LevelInfo, s))
	log.Info("llm: configured", "api_key", "sk-live", "provider", "openai")

	if strings.Contains(buf.String(), "sk-live") {
		t.Fatalf("credential leaked to output: %s", buf.String())
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("expected json output: %v", err)
	}
	if decoded["api_key"] != redacted {
		t.Fatalf("expected redacted key, got %v", decoded["api_key"])
	}
	if got := s.entries()[0].Attributes["api_key"]; got != redacted {
		t.Fatalf("expected captured key redacted, got %v", got)
	}
}

func TestSinkKeepsMostRecent(t *testing.T) {
	s := newLogSink(2)
	log := slog.New(newCapturingHandler(&bytes.Buffer{}, "", slog.LevelInfo, s))
	log.Info("a: one")
	log.Info("a: two")
	log.Info("a: three")
	entries := s.entries()
	if len(entries) != 2 || entries[0].Message != "a: two" {
		t.Fatalf("unexpected history: %+v", entries)
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []LogEntry{
		{Level: "debug", Component: "api", Message: "api: one"},
		{Level: "info", Component: "assistant", Message: "assistant: two"},
		{Level: "warn", Component: "api", Message: "api: three"},
		{Level: "error", Component: "api", Message: "api: four"},
	}
	got := filterEntries(entries, LogFilter{Level: "warn", Component: "API"})
	if len(got) != 2 || got[0].Message != "api: three" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	got = filterEntries(entries, LogFilter{Limit: 1})
	if len(got) != 1 || got[0].Message != "api: four" {
		t.Fatalf("expected last entry, got %+v", got)
	}
	if got := filterEntries(entries, LogFilter{}); len(got) != len(entries) {
		t.Fatalf("empty filter dropped entries: %d", len(got))
	}
}
