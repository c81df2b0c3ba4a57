// File path: internal/portal/state.go
package portal

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a lookup by identifier has no match.
var ErrNotFound = errors.New("not found")

// State is the application state of the portal. Values are treated as
// immutable: reducers return a new State and never mutate their input.
type State struct {
	Client      ClientProfile
	Projects    []Project
	Documents   []Document
	Deadlines   []Deadline
	Advisor     Advisor
	QuickTopics []string
	Reports     []Report
	Financial   FinancialSummary
}

// NewState builds the initial state from a seed catalog.
func NewState(seed Seed) State {
	return State{
		Client:      seed.Client,
		Projects:    append([]Project(nil), seed.Projects...),
		Documents:   append([]Document(nil), seed.Documents...),
		Deadlines:   append([]Deadline(nil), seed.Deadlines...),
		Advisor:     seed.Advisor,
		QuickTopics: append([]string(nil), seed.QuickTopics...),
		Reports:     append([]Report(nil), seed.Reports...),
		Financial:   seed.Financial,
	}
}

// WithDocument appends a document. The document list is copied so earlier
// State values keep their view.
func WithDocument(s State, doc Document) State {
	docs := make([]Document, len(s.Documents), len(s.Documents)+1)
	copy(docs, s.Documents)
	s.Documents = append(docs, doc)
	return s
}

// ActiveProjects returns projects whose status is not completed, in seed order.
func (s State) ActiveProjects() []Project {
	out := make([]Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

// Project looks a project up by identifier.
func (s State) Project(id int) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// FindProject returns the first project whose name contains fragment.
func (s State) FindProject(fragment string) (Project, bool) {
	return FindProject(s.Projects, fragment)
}

// FindProject returns the first project in projects whose name contains
// fragment.
func FindProject(projects []Project, fragment string) (Project, bool) {
	if fragment == "" {
		return Project{}, false
	}
	for _, p := range projects {
		if strings.Contains(p.Name, fragment) {
			return p, true
		}
	}
	return Project{}, false
}

// Document looks a catalog document up by identifier.
func (s State) Document(id string) (Document, bool) {
	for _, d := range s.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Report looks a report up by identifier.
func (s State) Report(id int) (Report, bool) {
	for _, r := range s.Reports {
		if r.ID == id {
			return r, true
		}
	}
	return Report{}, false
}

// Entities groups projects by their owning entity name. Entities are
// returned in order of first appearance.
func (s State) Entities() []Entity {
	return GroupByEntity(s.Projects)
}

// GroupByEntity derives entities from the entity foreign key on projects.
func GroupByEntity(projects []Project) []Entity {
	index := make(map[string]int)
	var out []Entity
	for _, p := range projects {
		name := strings.TrimSpace(p.Entity)
		if name == "" {
			continue
		}
		pos, ok := index[name]
		if !ok {
			pos = len(out)
			index[name] = pos
			out = append(out, Entity{Name: name, Kind: ClassifyEntity(name)})
		}
		out[pos].Projects = append(out[pos].Projects, p)
	}
	return out
}

// ClassifyEntity treats names mentioning a trust as trusts and everything
// else as a business entity.
func ClassifyEntity(name string) EntityKind {
	if strings.Contains(strings.ToLower(name), "trust") {
		return EntityTrust
	}
	return EntityBusiness
}

// ReportsFor filters reports by year. An empty or "all" period returns every
// report.
func (s State) ReportsFor(period string) []Report {
	period = strings.TrimSpace(period)
	if period == "" || strings.EqualFold(period, "all") {
		return append([]Report(nil), s.Reports...)
	}
	out := make([]Report, 0, len(s.Reports))
	for _, r := range s.Reports {
		if strings.HasPrefix(r.Date, period) {
			out = append(out, r)
		}
	}
	return out
}

// Dashboard is the summary shown above the project cards.
type Dashboard struct {
	ActiveProjects    int        `json:"active_projects"`
	NeedingAttention  int        `json:"needing_attention"`
	CompletedProjects int        `json:"completed_projects"`
	Documents         int        `json:"documents"`
	NextDeadline      *Deadline  `json:"next_deadline,omitempty"`
	Deadlines         []Deadline `json:"deadlines"`
}

// Dashboard computes the summary counters and the deadline list sorted by
// date.
func (s State) Dashboard() Dashboard {
	d := Dashboard{Documents: len(s.Documents)}
	for _, p := range s.Projects {
		switch {
		case p.Status == StatusCompleted:
			d.CompletedProjects++
		case p.Status == StatusAttention:
			d.ActiveProjects++
			d.NeedingAttention++
		default:
			d.ActiveProjects++
		}
	}
	d.Deadlines = append([]Deadline(nil), s.Deadlines...)
	sort.SliceStable(d.Deadlines, func(i, j int) bool {
		return d.Deadlines[i].Date < d.Deadlines[j].Date
	})
	if len(d.Deadlines) > 0 {
		next := d.Deadlines[0]
		d.NextDeadline = &next
	}
	return d
}

// Catalog owns the current State. Reads return a snapshot; writes go through
// reducers and swap the value.
type Catalog struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

// NewCatalog constructs a catalog seeded with seed.
func NewCatalog(seed Seed) *Catalog {
	return &Catalog{state: NewState(seed), now: time.Now}
}

// Snapshot returns the current state value.
func (c *Catalog) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Dispatch applies reducer to the current state and stores the result.
func (c *Catalog) Dispatch(reducer func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = reducer(c.state)
	return c.state
}

// AddDocument appends doc to the document catalog.
func (c *Catalog) AddDocument(doc Document) {
	c.Dispatch(func(s State) State { return WithDocument(s, doc) })
}

// Today returns the catalog clock formatted as a calendar date.
func (c *Catalog) Today() string {
	c.mu.RLock()
	now := c.now
	c.mu.RUnlock()
	if now == nil {
		now = time.Now
	}
	return now().Format(DateLayout)
}

// SetClock replaces the clock used for upload dates.
func (c *Catalog) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
