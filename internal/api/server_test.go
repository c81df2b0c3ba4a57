// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nicodishanthj/advisor_portal/internal/data/orchestrator"
	"github.com/nicodishanthj/advisor_portal/internal/llm"
)

type mockProvider struct {
	mu           sync.Mutex
	chatResponse string
	chatErr      error
	lastMessages []llm.Message
	chatCalls    int
}

func (m *mockProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	m.lastMessages = append([]llm.Message(nil), messages...)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if m.chatResponse == "" {
		return "mock-response", nil
	}
	return m.chatResponse, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	for _, key := range []string{"PORTAL_SEED_FILE", "PORTAL_INBOX_PATH"} {
		t.Setenv(key, "")
	}
	fixed := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	orch, err := orchestrator.New(context.Background(), orchestrator.Config{},
		orchestrator.WithProvider(provider),
		orchestrator.WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	t.Cleanup(func() { _ = orch.Close() })
	srv, err := NewServer(orch)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rr.Code, rr.Body.String())
	}
}

func TestClientDashboard(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/client", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp clientResponse
	decodeBody(t, rr, &resp)
	if resp.Client.Name != "Robert Chen" || resp.Today != "2024-06-10" {
		t.Fatalf("unexpected client response: %+v", resp)
	}
	if resp.Dashboard.ActiveProjects != 2 || resp.Dashboard.NeedingAttention != 1 {
		t.Fatalf("unexpected dashboard: %+v", resp.Dashboard)
	}
}

func TestProjectsFilterAndDetail(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/projects?status=attention", nil)
	var list projectsResponse
	decodeBody(t, rr, &list)
	if list.Total != 1 || list.Projects[0].Name != "QSBS Stock Sale" {
		t.Fatalf("unexpected filtered projects: %+v", list)
	}

	rr = doRequest(t, srv, http.MethodGet, "/v1/projects?q=nothing-matches", nil)
	decodeBody(t, rr, &list)
	if list.Total != 0 || !strings.Contains(list.EmptyMessage, "No projects found") {
		t.Fatalf("expected project empty message, got %+v", list)
	}

	rr = doRequest(t, srv, http.MethodGet, "/v1/projects/1", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Downtown Office Building") {
		t.Fatalf("unexpected project detail: %d %s", rr.Code, rr.Body.String())
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/projects/99", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/projects/abc", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestProjectDocumentDownloadIsPDF(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/projects/1/documents/0/download", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected PDF body")
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/projects/1/documents/42/download", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing index, got %d", rr.Code)
	}
}

func TestEntitiesGrouping(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/entities", nil)
	var resp struct {
		Entities []struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Projects []struct {
				Name string `json:"name"`
			} `json:"projects"`
		} `json:"entities"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Entities) != 2 {
		t.Fatalf("expected two entities, got %+v", resp.Entities)
	}
	if resp.Entities[0].Name != "RC Holdings LLC" || resp.Entities[0].Kind != "business" {
		t.Fatalf("unexpected first entity: %+v", resp.Entities[0])
	}
	if resp.Entities[1].Kind != "trust" || len(resp.Entities[1].Projects) != 2 {
		t.Fatalf("unexpected trust entity: %+v", resp.Entities[1])
	}
}

func TestDocumentsFilter(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/documents?q=qsbs&category=Valuation", nil)
	var resp documentsResponse
	decodeBody(t, rr, &resp)
	if resp.Total != 1 || resp.Documents[0].Name != "QSBS Valuation Report.xlsx" {
		t.Fatalf("unexpected documents: %+v", resp)
	}
	rr = doRequest(t, srv, http.MethodGet, "/v1/documents/categories", nil)
	var cats struct {
		Categories        []string `json:"categories"`
		AllowedExtensions []string `json:"allowed_extensions"`
	}
	decodeBody(t, rr, &cats)
	if len(cats.Categories) != 7 || cats.Categories[0] != "all" || len(cats.AllowedExtensions) != 8 {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

func TestClassify(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodPost, "/v1/documents/classify", map[string]interface{}{"filename": "2023_Tax_Return.pdf", "size": 1048576})
	var resp struct {
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
		Type     string   `json:"type"`
		Allowed  bool     `json:"allowed"`
		Size     string   `json:"size"`
	}
	decodeBody(t, rr, &resp)
	if resp.Category != "Tax" || resp.Type != "PDF" || !resp.Allowed || resp.Size != "1 MB" {
		t.Fatalf("unexpected classification: %+v", resp)
	}
	if strings.Join(resp.Tags, ",") != "tax,2023" {
		t.Fatalf("unexpected tags: %v", resp.Tags)
	}
	if rr := doRequest(t, srv, http.MethodPost, "/v1/documents/classify", map[string]string{}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadAndDownload(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("project", "Downtown Office Building"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	parts := map[string]string{
		"Insurance_Policy_2024.pdf": "policy body",
		"notes.txt":                 "not allowed",
	}
	for _, name := range []string{"Insurance_Policy_2024.pdf", "notes.txt"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(parts[name])); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/documents/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	var resp uploadResponse
	decodeBody(t, rr, &resp)
	if resp.Uploaded != 1 || resp.Failed != 1 || resp.Project != "Downtown Office Building" {
		t.Fatalf("unexpected upload response: %+v", resp)
	}
	doc := resp.Results[0].Document
	if doc == nil || doc.Category != "Insurance" || doc.UploadDate != "2024-06-10" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if resp.Results[1].Error == "" {
		t.Fatalf("expected rejection for txt file")
	}

	rr = doRequest(t, srv, http.MethodGet, "/v1/documents/"+doc.ID+"/download", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "policy body" {
		t.Fatalf("unexpected download: %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}

	rr = doRequest(t, srv, http.MethodGet, "/v1/documents?q=insurance_policy_2024", nil)
	var list documentsResponse
	decodeBody(t, rr, &list)
	if list.Total != 1 {
		t.Fatalf("uploaded document not searchable: %+v", list)
	}
}

func TestSeededDocumentDownloadPlaceholder(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/documents/1/download", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected placeholder text, got %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "2023 Tax Return - Final.pdf") {
		t.Fatalf("unexpected placeholder: %q", rr.Body.String())
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/documents/missing/download", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestStatelessChat(t *testing.T) {
	provider := &mockProvider{chatResponse: "All good"}
	srv := newTestServer(t, provider)
	rr := doRequest(t, srv, http.MethodPost, "/v1/chat", map[string]interface{}{
		"message":    "How is the building?",
		"clientData": map[string]interface{}{"name": "Ada", "totalAssets": "$1M", "activeProjects": 1},
		"conversationHistory": []map[string]string{
			{"type": "user", "content": "hi"},
			{"type": "assistant", "content": "hello"},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	var resp chatResponse
	decodeBody(t, rr, &resp)
	if resp.Response != "All good" {
		t.Fatalf("unexpected response %q", resp.Response)
	}
	if len(provider.lastMessages) != 4 {
		t.Fatalf("expected system, two history turns and question, got %d", len(provider.lastMessages))
	}
	if !strings.Contains(provider.lastMessages[0].Content, "AI financial assistant for Ada") {
		t.Fatalf("client data not used in prompt: %q", provider.lastMessages[0].Content)
	}
	if provider.lastMessages[1].Role != "user" || provider.lastMessages[2].Role != "assistant" {
		t.Fatalf("unexpected history roles: %+v", provider.lastMessages[1:3])
	}
}

func TestStatelessChatReadsBrowserProjects(t *testing.T) {
	provider := &mockProvider{}
	srv := newTestServer(t, provider)
	rr := doRequest(t, srv, http.MethodPost, "/v1/chat", map[string]interface{}{
		"message": "Any news?",
		"projects": []map[string]interface{}{{
			"id":         7,
			"name":       "Harbor Marina Refinance",
			"status":     "attention",
			"type":       "Real Estate",
			"completion": 30,
			"deadline":   "2024-09-01",
			"lastUpdate": "Lender requested updated appraisal",
			"entity":     "Chen Holdings LLC",
		}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	system := provider.lastMessages[0].Content
	if !strings.Contains(system, "Harbor Marina Refinance (attention, 30% complete") {
		t.Fatalf("project not used in prompt: %q", system)
	}
	if !strings.Contains(system, "lender requested updated appraisal") {
		t.Fatalf("lastUpdate dropped from prompt: %q", system)
	}
}

func TestStatelessChatFailure(t *testing.T) {
	srv := newTestServer(t, &mockProvider{chatErr: errors.New("status 401")})
	rr := doRequest(t, srv, http.MethodPost, "/v1/chat", map[string]string{"message": "hi"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var resp map[string]string
	decodeBody(t, rr, &resp)
	if resp["error"] != "Failed to get AI response" {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestChatSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, &mockProvider{chatErr: errors.New("offline")})
	rr := doRequest(t, srv, http.MethodPost, "/v1/chat/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var session sessionResponse
	decodeBody(t, rr, &session)
	if session.ID == "" || !strings.HasPrefix(session.Greeting, "Hello Robert Chen!") || len(session.SuggestedQuestions) != 5 {
		t.Fatalf("unexpected session: %+v", session)
	}

	rr = doRequest(t, srv, http.MethodPost, "/v1/chat/sessions/"+session.ID+"/messages", map[string]string{"message": "Is my QSBS rollover on track?"})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	var sent sendResponse
	decodeBody(t, rr, &sent)
	if len(sent.Messages) != 2 || !strings.Contains(sent.Reply.Content, "45%") {
		t.Fatalf("unexpected send response: %+v", sent)
	}

	rr = doRequest(t, srv, http.MethodPost, "/v1/chat/sessions/"+session.ID+"/messages", map[string]string{"message": "  "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank message, got %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodGet, "/v1/chat/sessions/"+session.ID, nil)
	decodeBody(t, rr, &session)
	if len(session.Messages) != 2 {
		t.Fatalf("blank send changed history: %d", len(session.Messages))
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/chat/sessions/unknown", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestContactInbox(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodPost, "/v1/contact", map[string]string{"topic": "Tax Planning", "message": "Call me"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"urgency":"medium"`) {
		t.Fatalf("expected default urgency: %s", rr.Body.String())
	}
	var submitted struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &submitted)
	rr = doRequest(t, srv, http.MethodGet, "/v1/contact/"+submitted.ID, nil)
	var detail contactDetailResponse
	decodeBody(t, rr, &detail)
	if rr.Code != http.StatusOK || detail.Message.Message != "Call me" {
		t.Fatalf("unexpected contact detail: %d %s", rr.Code, rr.Body.String())
	}
	if len(detail.Audit) != 1 || detail.Audit[0].Action != "contact_submitted" {
		t.Fatalf("unexpected audit trail: %+v", detail.Audit)
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/contact/missing", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown contact, got %d", rr.Code)
	}
	if rr := doRequest(t, srv, http.MethodPost, "/v1/contact", map[string]string{"message": ""}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if rr := doRequest(t, srv, http.MethodPost, "/v1/contact", map[string]string{"message": "x", "urgency": "asap"}); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for urgency, got %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodGet, "/v1/contact", nil)
	var list struct {
		Messages []struct {
			Message string `json:"message"`
		} `json:"messages"`
	}
	decodeBody(t, rr, &list)
	if len(list.Messages) != 1 || list.Messages[0].Message != "Call me" {
		t.Fatalf("unexpected inbox: %+v", list)
	}

	rr = doRequest(t, srv, http.MethodGet, "/v1/advisor", nil)
	var advisor advisorResponse
	decodeBody(t, rr, &advisor)
	if advisor.Advisor.Name != "Sarah Johnson" || len(advisor.Urgencies) != 3 {
		t.Fatalf("unexpected advisor: %+v", advisor)
	}
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := doRequest(t, srv, http.MethodGet, "/v1/reports?period=2024", nil)
	var resp reportsResponse
	decodeBody(t, rr, &resp)
	if len(resp.Reports) != 3 || resp.Financial.TotalAssets == "" {
		t.Fatalf("unexpected reports: %+v", resp)
	}
	rr = doRequest(t, srv, http.MethodGet, "/v1/reports?period=2023", nil)
	decodeBody(t, rr, &resp)
	if len(resp.Reports) != 0 {
		t.Fatalf("expected no 2023 reports: %+v", resp.Reports)
	}
	rr = doRequest(t, srv, http.MethodGet, "/v1/reports/1/download", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Portfolio Summary 2024") {
		t.Fatalf("unexpected report download: %d %q", rr.Code, rr.Body.String())
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/reports/3/download", nil); rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for processing report, got %d", rr.Code)
	}
}

func TestLogsAndVars(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	doRequest(t, srv, http.MethodGet, "/v1/projects", nil)
	doRequest(t, srv, http.MethodGet, "/v1/projects/99", nil)
	rr := doRequest(t, srv, http.MethodGet, "/v1/logs?level=warn", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp struct {
		Entries []struct {
			Message string `json:"message"`
			Level   string `json:"level"`
		} `json:"entries"`
	}
	decodeBody(t, rr, &resp)
	found := false
	for _, entry := range resp.Entries {
		if entry.Level == "debug" || entry.Level == "info" {
			t.Fatalf("level filter leaked %s entry", entry.Level)
		}
		if entry.Message == "request failed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected request failure to be captured")
	}
	if rr := doRequest(t, srv, http.MethodGet, "/v1/logs?limit=-1", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/debug/vars", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "portal_filter_query_total") {
		t.Fatalf("expected expvar counters: %d", rr.Code)
	}
}
