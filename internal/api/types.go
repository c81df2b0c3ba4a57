// File path: internal/api/types.go
package api

import (
	"github.com/nicodishanthj/advisor_portal/internal/portal"
	"github.com/nicodishanthj/advisor_portal/internal/sqlite"
	"github.com/nicodishanthj/advisor_portal/internal/upload"
)

// chatRequest is the body of the stateless chat endpoint. Field names follow
// the browser client, which sends camelCase keys.
type chatRequest struct {
	Message             string        `json:"message"`
	ClientData          *clientData   `json:"clientData"`
	Projects            []projectData `json:"projects"`
	ConversationHistory []historyTurn `json:"conversationHistory"`
}

type projectData struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	Type       string   `json:"type"`
	Completion int      `json:"completion"`
	Deadline   string   `json:"deadline"`
	Parties    []string `json:"parties"`
	LastUpdate string   `json:"lastUpdate"`
	Entity     string   `json:"entity"`
}

type clientData struct {
	Name           string `json:"name"`
	TotalAssets    string `json:"totalAssets"`
	ActiveProjects int    `json:"activeProjects"`
	RecentActivity string `json:"recentActivity"`
}

type historyTurn struct {
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type sendRequest struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	ID                 string               `json:"id"`
	Greeting           string               `json:"greeting"`
	SuggestedQuestions []string             `json:"suggested_questions"`
	Busy               bool                 `json:"busy"`
	Messages           []portal.ChatMessage `json:"messages"`
}

type sendResponse struct {
	Reply    portal.ChatMessage   `json:"reply"`
	Messages []portal.ChatMessage `json:"messages"`
}

type clientResponse struct {
	Client    portal.ClientProfile `json:"client"`
	Dashboard portal.Dashboard     `json:"dashboard"`
	Today     string               `json:"today"`
}

type projectsResponse struct {
	Projects     []portal.Project `json:"projects"`
	Total        int              `json:"total"`
	EmptyMessage string           `json:"empty_message,omitempty"`
}

type documentsResponse struct {
	Documents    []portal.Document `json:"documents"`
	Total        int               `json:"total"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

type classifyRequest struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type classifyResponse struct {
	upload.Classification
	Allowed bool   `json:"allowed"`
	Size    string `json:"size,omitempty"`
}

type uploadResponse struct {
	Project  string          `json:"project"`
	Uploaded int             `json:"uploaded"`
	Failed   int             `json:"failed"`
	Results  []upload.Result `json:"results"`
}

type advisorResponse struct {
	Advisor     portal.Advisor   `json:"advisor"`
	QuickTopics []string         `json:"quick_topics"`
	Urgencies   []sqlite.Urgency `json:"urgencies"`
}

type contactRequest struct {
	Topic   string `json:"topic"`
	Urgency string `json:"urgency"`
	Message string `json:"message"`
}

type contactDetailResponse struct {
	Message sqlite.ContactMessage `json:"message"`
	Audit   []sqlite.AuditRow     `json:"audit"`
}

type reportsResponse struct {
	Period    string                  `json:"period"`
	Reports   []portal.Report         `json:"reports"`
	Financial portal.FinancialSummary `json:"financial_summary"`
}
