// File path: internal/common/log.go
package common

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultLogHistory = 1000

const redacted = "[redacted]"

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	sink       = newLogSink(historySize())
)

// LogEntry represents a captured log record emitted via the common logger.
type LogEntry struct {
	Time       time.Time              `json:"time"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// LogFilter narrows LogEntries. Zero fields match everything.
type LogFilter struct {
	Level     string
	Component string
	Limit     int
}

// Logger returns a singleton slog logger configured via the LOG_LEVEL,
// LOG_FORMAT (text or json) and LOG_OUTPUT (stdout or stderr) environment
// variables.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		logger = slog.New(newCapturingHandler(logOutput(), os.Getenv("LOG_FORMAT"), parseLevel(os.Getenv("LOG_LEVEL")), sink))
	})
	return logger
}

func logOutput() io.Writer {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_OUTPUT")), "stderr") {
		return os.Stderr
	}
	return os.Stdout
}

func newCapturingHandler(w io.Writer, format string, level slog.Level, s *logSink) *capturingHandler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redactAttr}
	var base slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return &capturingHandler{handler: base, sink: s}
}

func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func historySize() int {
	if raw := strings.TrimSpace(os.Getenv("LOG_HISTORY")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultLogHistory
}

// LogEntries returns a copy of the captured log entries.
func LogEntries() []LogEntry {
	if sink == nil {
		return nil
	}
	return sink.entries()
}

// FilterLogEntries returns captured entries at or above filter.Level for
// filter.Component, keeping the most recent filter.Limit.
func FilterLogEntries(filter LogFilter) []LogEntry {
	return filterEntries(LogEntries(), filter)
}

func filterEntries(entries []LogEntry, filter LogFilter) []LogEntry {
	min := slog.LevelDebug
	if strings.TrimSpace(filter.Level) != "" {
		min = parseLevel(filter.Level)
	}
	component := strings.ToLower(strings.TrimSpace(filter.Component))
	out := make([]LogEntry, 0, len(entries))
	for _, entry := range entries {
		if parseLevel(entry.Level) < min {
			continue
		}
		if component != "" && strings.ToLower(entry.Component) != component {
			continue
		}
		out = append(out, entry)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[len(out)-filter.Limit:]
	}
	return out
}

// sensitiveKey reports whether an attribute may carry a credential.
func sensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range []string{"api_key", "apikey", "token", "secret", "authorization", "password"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if sensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	return a
}

type capturingHandler struct {
	handler slog.Handler
	sink    *logSink
	attrs   []slog.Attr
}

func (h *capturingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *capturingHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if h.sink != nil {
		h.sink.capture(record, h.attrs)
	}
	return err
}

func (h *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &capturingHandler{handler: h.handler.WithAttrs(attrs), sink: h.sink, attrs: merged}
}

func (h *capturingHandler) WithGroup(name string) slog.Handler {
	return &capturingHandler{handler: h.handler.WithGroup(name), sink: h.sink, attrs: h.attrs}
}

type logSink struct {
	mu      sync.RWMutex
	max     int
	history []LogEntry
}

func newLogSink(max int) *logSink {
	if max <= 0 {
		max = defaultLogHistory
	}
	return &logSink{max: max}
}

func (s *logSink) capture(record slog.Record, inherited []slog.Attr) {
	entry := buildLogEntry(record, inherited)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	if len(s.history) > s.max {
		s.history = s.history[len(s.history)-s.max:]
	}
}

func (s *logSink) entries() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return nil
	}
	out := make([]LogEntry, len(s.history))
	copy(out, s.history)
	return out
}

func buildLogEntry(record slog.Record, inherited []slog.Attr) LogEntry {
	entry := LogEntry{
		Time:    record.Time.UTC(),
		Level:   strings.ToLower(record.Level.String()),
		Message: record.Message,
	}
	if record.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}

	attrs := make(map[string]interface{})
	add := func(a slog.Attr) bool {
		if sensitiveKey(a.Key) {
			attrs[a.Key] = redacted
			return true
		}
		value := valueToAny(a.Value)
		if a.Key == "component" {
			entry.Component = strings.TrimSpace(valueString(value))
			return true
		}
		attrs[a.Key] = value
		return true
	}
	for _, a := range inherited {
		add(a)
	}
	record.Attrs(add)

	// Messages are written "component: text"; the prefix names the component
	// when no attribute does.
	if entry.Component == "" {
		if idx := strings.Index(entry.Message, ":"); idx > 0 {
			entry.Component = strings.TrimSpace(entry.Message[:idx])
		}
	}
	if len(attrs) > 0 {
		entry.Attributes = attrs
	}
	return entry
}

func valueToAny(v slog.Value) interface{} {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	default:
		return v.String()
	}
}

func valueString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
