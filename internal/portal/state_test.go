// File path: internal/portal/state_test.go
package portal

import (
	"strings"
	"testing"
	"time"
)

func mustSeed(t *testing.T) Seed {
	t.Helper()
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("default seed: %v", err)
	}
	return seed
}

func TestDefaultSeedLoads(t *testing.T) {
	seed := mustSeed(t)
	if seed.Client.Name != "Robert Chen" {
		t.Fatalf("unexpected client: %+v", seed.Client)
	}
	if len(seed.Projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(seed.Projects))
	}
	if len(seed.Documents) != 6 {
		t.Fatalf("expected 6 documents, got %d", len(seed.Documents))
	}
	qsbs, ok := FindProject(seed.Projects, "QSBS")
	if !ok || qsbs.Completion != 45 || qsbs.Status != StatusAttention {
		t.Fatalf("unexpected qsbs project: %+v", qsbs)
	}
	if len(seed.Projects[0].Todos) != 3 || len(seed.Projects[0].Documents) != 4 {
		t.Fatalf("expected project detail data on first project: %+v", seed.Projects[0])
	}
}

func TestParseSeedRejectsUnknownStatus(t *testing.T) {
	data := []byte("client:\n  name: A\nprojects:\n  - id: 1\n    name: P\n    status: paused\n")
	if _, err := ParseSeed(data); err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestParseSeedAcceptsCompletedBelowHundred(t *testing.T) {
	data := []byte("client:\n  name: A\nprojects:\n  - id: 1\n    name: P\n    status: completed\n    completion: 45\n")
	seed, err := ParseSeed(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if seed.Projects[0].Active() {
		t.Fatalf("completed project must not be active regardless of completion")
	}
}

func TestGroupByEntity(t *testing.T) {
	state := NewState(mustSeed(t))
	entities := state.Entities()
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
	if entities[0].Name != "RC Holdings LLC" || entities[0].Kind != EntityBusiness {
		t.Fatalf("unexpected first entity: %+v", entities[0])
	}
	if entities[1].Name != "Chen Family Trust" || entities[1].Kind != EntityTrust {
		t.Fatalf("unexpected second entity: %+v", entities[1])
	}
	if len(entities[1].Projects) != 2 {
		t.Fatalf("expected trust to own 2 projects, got %d", len(entities[1].Projects))
	}
}

func TestWithDocumentDoesNotMutateInput(t *testing.T) {
	before := NewState(mustSeed(t))
	after := WithDocument(before, Document{ID: "new", Name: "x.pdf"})
	if len(before.Documents) != 6 {
		t.Fatalf("input state mutated: %d documents", len(before.Documents))
	}
	if len(after.Documents) != 7 || after.Documents[6].ID != "new" {
		t.Fatalf("document not appended: %+v", after.Documents)
	}
}

func TestCatalogAddDocument(t *testing.T) {
	catalog := NewCatalog(mustSeed(t))
	snapshot := catalog.Snapshot()
	catalog.AddDocument(Document{ID: "7", Name: "upload.pdf"})
	if len(snapshot.Documents) != 6 {
		t.Fatalf("snapshot changed after dispatch")
	}
	doc, ok := catalog.Snapshot().Document("7")
	if !ok || doc.Name != "upload.pdf" {
		t.Fatalf("document not found after add")
	}
}

func TestDashboard(t *testing.T) {
	dash := NewState(mustSeed(t)).Dashboard()
	if dash.ActiveProjects != 2 || dash.NeedingAttention != 1 || dash.CompletedProjects != 1 {
		t.Fatalf("unexpected counters: %+v", dash)
	}
	if dash.NextDeadline == nil || dash.NextDeadline.Task != "Q2 Tax Estimate Payment" {
		t.Fatalf("unexpected next deadline: %+v", dash.NextDeadline)
	}
}

func TestReportsFor(t *testing.T) {
	state := NewState(mustSeed(t))
	if got := len(state.ReportsFor("2024")); got != 3 {
		t.Fatalf("expected 3 reports for 2024, got %d", got)
	}
	if got := len(state.ReportsFor("2023")); got != 0 {
		t.Fatalf("expected no reports for 2023, got %d", got)
	}
	if got := len(state.ReportsFor("")); got != 3 {
		t.Fatalf("expected all reports, got %d", got)
	}
}

func TestCatalogToday(t *testing.T) {
	catalog := NewCatalog(mustSeed(t))
	catalog.SetClock(func() time.Time { return time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC) })
	if got := catalog.Today(); got != "2024-06-14" {
		t.Fatalf("Today = %q", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusOnTrack.Label(); got != "on track" {
		t.Fatalf("label = %q", got)
	}
}
