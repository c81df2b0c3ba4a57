// File path: internal/portal/types.go
package portal

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an advisory project.
type Status string

const (
	StatusOnTrack   Status = "on-track"
	StatusAttention Status = "attention"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusOnTrack, StatusAttention, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Label renders the status the way the dashboard shows it ("on track").
func (s Status) Label() string {
	return strings.Replace(string(s), "-", " ", 1)
}

// EntityKind classifies the legal wrapper that owns projects.
type EntityKind string

const (
	EntityTrust    EntityKind = "trust"
	EntityBusiness EntityKind = "business"
)

type Project struct {
	ID         int       `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Status     Status    `json:"status" yaml:"status"`
	Type       string    `json:"type" yaml:"type"`
	Completion int       `json:"completion" yaml:"completion"`
	Deadline   string    `json:"deadline" yaml:"deadline"`
	Parties    []string  `json:"parties" yaml:"parties"`
	LastUpdate string    `json:"last_update" yaml:"last_update"`
	Entity     string    `json:"entity" yaml:"entity"`
	Todos      []Todo    `json:"todos,omitempty" yaml:"todos"`
	Updates    []Update  `json:"updates,omitempty" yaml:"updates"`
	Documents  []FileRef `json:"documents,omitempty" yaml:"documents"`
}

// Active reports whether the project still needs work. Completion is not
// consulted: a project is active until its status says otherwise.
func (p Project) Active() bool {
	return p.Status != StatusCompleted
}

// DeadlineTime parses the calendar deadline. The zero time is returned for
// malformed values.
func (p Project) DeadlineTime() time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(p.Deadline))
	if err != nil {
		return time.Time{}
	}
	return t
}

type Todo struct {
	Task     string `json:"task" yaml:"task"`
	Assignee string `json:"assignee" yaml:"assignee"`
	Due      string `json:"due" yaml:"due"`
	Status   string `json:"status" yaml:"status"`
	Priority string `json:"priority" yaml:"priority"`
}

type Update struct {
	Date    string `json:"date" yaml:"date"`
	Author  string `json:"author" yaml:"author"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// FileRef is a document attached to a project detail page. Its PDF body is
// generated on demand from Summary.
type FileRef struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"`
	Date    string `json:"date" yaml:"date"`
	Size    string `json:"size" yaml:"size"`
	Summary string `json:"summary" yaml:"summary"`
}

// Entity is derived by grouping projects on their owning entity name.
type Entity struct {
	Name     string     `json:"name"`
	Kind     EntityKind `json:"kind"`
	Projects []Project  `json:"projects"`
}

// Document is an entry of the document catalog. Project is a soft reference
// to a project name and is never validated.
type Document struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Category   string   `json:"category" yaml:"category"`
	Project    string   `json:"project" yaml:"project"`
	UploadDate string   `json:"upload_date" yaml:"upload_date"`
	Size       string   `json:"size" yaml:"size"`
	Tags       []string `json:"tags" yaml:"tags"`
	Type       string   `json:"type" yaml:"type"`
	Content    string   `json:"-" yaml:"content,omitempty"`
}

// HasContent reports whether an uploaded payload is attached.
func (d Document) HasContent() bool {
	return strings.TrimSpace(d.Content) != ""
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ClientProfile struct {
	Name              string `json:"name" yaml:"name"`
	TotalAssets       string `json:"total_assets" yaml:"total_assets"`
	ActiveProjects    int    `json:"active_projects" yaml:"active_projects"`
	UpcomingDeadlines int    `json:"upcoming_deadlines" yaml:"upcoming_deadlines"`
	RecentActivity    string `json:"recent_activity" yaml:"recent_activity"`
}

type Deadline struct {
	Task     string `json:"task" yaml:"task"`
	Date     string `json:"date" yaml:"date"`
	Priority string `json:"priority" yaml:"priority"`
}

type Advisor struct {
	Name         string `json:"name" yaml:"name"`
	Title        string `json:"title" yaml:"title"`
	Phone        string `json:"phone" yaml:"phone"`
	Email        string `json:"email" yaml:"email"`
	Availability string `json:"availability" yaml:"availability"`
}

const (
	ReportReady      = "Ready"
	ReportProcessing = "Processing"
)

type Report struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Date   string `json:"date" yaml:"date"`
	Status string `json:"status" yaml:"status"`
	Size   string `json:"size" yaml:"size"`
}

// Ready reports whether the report can be downloaded.
func (r Report) Ready() bool {
	return r.Status == ReportReady
}

type FinancialSummary struct {
	TotalAssets       string `json:"total_assets" yaml:"total_assets"`
	MonthlyChange     string `json:"monthly_change" yaml:"monthly_change"`
	TaxSavings        string `json:"tax_savings" yaml:"tax_savings"`
	ActiveInvestments int    `json:"active_investments" yaml:"active_investments"`
}

// DateLayout is the calendar format used by every date field of the seed.
const DateLayout = "2006-01-02"
