// File path: internal/api/chat_handler.go
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/nicodishanthj/advisor_portal/internal/assistant"
	"github.com/nicodishanthj/advisor_portal/internal/common"
	"github.com/nicodishanthj/advisor_portal/internal/common/telemetry"
	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// errChatFailed is the only detail the stateless endpoint reveals about a
// failed completion.
var errChatFailed = errors.New("Failed to get AI response")

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, assistant.ErrEmptyMessage)
		return
	}
	state := s.catalog.Snapshot()
	client := state.Client
	if req.ClientData != nil {
		client = req.ClientData.profile()
	}
	projects := state.Projects
	if req.Projects != nil {
		projects = make([]portal.Project, 0, len(req.Projects))
		for _, p := range req.Projects {
			projects = append(projects, p.project())
		}
	}
	history := make([]portal.ChatMessage, 0, len(req.ConversationHistory))
	for _, turn := range req.ConversationHistory {
		history = append(history, turn.message())
	}

	logger.Info("api: chat request received", "message_length", len(req.Message), "history", len(history))
	start := time.Now()
	answer, err := s.bridge.Complete(r.Context(), req.Message, client, projects, history)
	if err != nil {
		telemetry.RecordChat("error", time.Since(start))
		logger.Error("api: chat completion failed", "provider", s.bridge.Provider(), "error", err)
		writeError(w, http.StatusInternalServerError, errChatFailed)
		return
	}
	telemetry.RecordChat("remote", time.Since(start))
	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

func (c clientData) profile() portal.ClientProfile {
	return portal.ClientProfile{
		Name:           c.Name,
		TotalAssets:    c.TotalAssets,
		ActiveProjects: c.ActiveProjects,
		RecentActivity: c.RecentActivity,
	}
}

func (p projectData) project() portal.Project {
	return portal.Project{
		ID:         p.ID,
		Name:       p.Name,
		Status:     portal.Status(p.Status),
		Type:       p.Type,
		Completion: p.Completion,
		Deadline:   p.Deadline,
		Parties:    p.Parties,
		LastUpdate: p.LastUpdate,
		Entity:     p.Entity,
	}
}

func (t historyTurn) message() portal.ChatMessage {
	role := portal.RoleAssistant
	kind := strings.ToLower(strings.TrimSpace(t.Type))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(t.Role))
	}
	if kind == string(portal.RoleUser) {
		role = portal.RoleUser
	}
	return portal.ChatMessage{Role: role, Content: t.Content}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.Create()
	common.Logger().Info("api: chat session created", "session", session.ID)
	writeJSON(w, http.StatusCreated, sessionView(session))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	reply, err := session.Send(r.Context(), req.Message)
	if err != nil {
		writeError(w, statusFor(err), fmt.Errorf("session %s: %w", session.ID, err))
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{Reply: reply, Messages: session.History()})
}

func sessionView(session *assistant.Session) sessionResponse {
	return sessionResponse{
		ID:                 session.ID,
		Greeting:           session.Greeting,
		SuggestedQuestions: assistant.SuggestedQuestions,
		Busy:               session.Busy(),
		Messages:           session.History(),
	}
}
