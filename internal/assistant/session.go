// File path: internal/assistant/session.go
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

var (
	// ErrBusy is returned when a send arrives while another is in flight.
	ErrBusy = errors.New("assistant is busy with a previous message")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("message is empty")
)

// SuggestedQuestions are offered when a conversation starts.
var SuggestedQuestions = []string{
	"What's the latest on my downtown office building project?",
	"Is my QSBS rollover on track?",
	"What are my next tax deadlines?",
	"Show me a summary of all active projects",
	"What documents do I need to review this week?",
}

// Greeting is the opening assistant line for client. It is shown but not
// kept in the history.
func Greeting(client portal.ClientProfile) string {
	return fmt.Sprintf("Hello %s! I'm your AI financial assistant. I have access to all your project data, documents, and deadlines. How can I help you today?", client.Name)
}

// Source yields the portfolio a session answers about.
type Source interface {
	Snapshot() portal.State
}

// Session is one conversation. Sends are serialized by a busy flag that
// rejects instead of queueing.
type Session struct {
	ID        string
	Greeting  string
	CreatedAt time.Time

	bridge    *Bridge
	responder *Responder
	source    Source
	now       func() time.Time

	busy    atomic.Bool
	mu      sync.Mutex
	history []portal.ChatMessage
}

// SessionOption customises a session.
type SessionOption func(*Session)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithResponder replaces the fallback responder.
func WithResponder(r *Responder) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.responder = r
		}
	}
}

// NewSession starts a conversation over source. bridge may be nil, in which
// case every answer comes from the fallback responder.
func NewSession(id string, bridge *Bridge, source Source, opts ...SessionOption) *Session {
	s := &Session{
		ID:        id,
		bridge:    bridge,
		responder: NewResponder(),
		source:    source,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.CreatedAt = s.now().UTC()
	if source != nil {
		s.Greeting = Greeting(source.Snapshot().Client)
	}
	return s
}

// Busy reports whether a send is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// History returns a copy of the conversation so far.
func (s *Session) History() []portal.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]portal.ChatMessage(nil), s.history...)
}

// Send appends the user's message, asks the remote model and appends its
// answer. A failed remote call is answered by the fallback responder, so an
// accepted send always adds exactly two messages.
func (s *Session) Send(ctx context.Context, text string) (portal.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return portal.ChatMessage{}, ErrEmptyMessage
	}
	if !s.busy.CompareAndSwap(false, true) {
		telemetry.RecordChat("busy", 0)
		return portal.ChatMessage{}, ErrBusy
	}
	defer s.busy.Store(false)

	ctx, end := telemetry.StartSpan(ctx, "assistant.send")
	logger := common.Logger()
	var state portal.State
	if s.source != nil {
		state = s.source.Snapshot()
	}

	s.mu.Lock()
	prior := append([]portal.ChatMessage(nil), s.history...)
	s.history = append(s.history, s.message(portal.RoleUser, text))
	s.mu.Unlock()

	outcome := "remote"
	answer, err := s.bridge.Complete(ctx, text, state.Client, state.Projects, prior)
	if err != nil {
		logger.Warn("assistant: remote completion failed", "session", s.ID, "error", err)
		answer = FallbackPreamble + s.responder.Respond(text, state.Projects)
		outcome = "fallback"
	}
	reply := s.message(portal.RoleAssistant, answer)

	s.mu.Lock()
	s.history = append(s.history, reply)
	s.mu.Unlock()

	telemetry.RecordChat(outcome, telemetry.SpanDuration(ctx))
	end("session", s.ID, "outcome", outcome)
	logger.Info("assistant: answered", "session", s.ID, "outcome", outcome, "turns", len(prior)/2+1)
	return reply, nil
}

func (s *Session) message(role portal.Role, content string) portal.ChatMessage {
	return portal.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now().UTC(),
	}
}
