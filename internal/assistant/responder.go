// File path: internal/assistant/responder.go
package assistant

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// FallbackPreamble introduces a locally generated answer after a failed
// remote call.
const FallbackPreamble = "I apologize, but I encountered an error with the AI service. Let me provide some information based on your current projects:\n\n"

const capabilities = "I can help you with information about your projects, deadlines, documents, and financial planning. Try asking about specific projects like your downtown office building or QSBS stock sale!"

// Rule pairs a predicate over the lower-cased question with the answer it
// produces.
type Rule struct {
	Name    string
	Match   func(question string) bool
	Respond func(projects []portal.Project) string
}

// Responder answers from the in-memory project list by evaluating rules in
// order. The first matching rule wins.
type Responder struct {
	rules []Rule
}

// NewResponder returns a responder with the default rule table.
func NewResponder() *Responder {
	return &Responder{rules: DefaultRules()}
}

// Respond produces the fallback answer for question.
func (r *Responder) Respond(question string, projects []portal.Project) string {
	lower := strings.ToLower(question)
	for _, rule := range r.rules {
		if rule.Match != nil && rule.Match(lower) {
			return rule.Respond(projects)
		}
	}
	return capabilities
}

// Rule returns the name of the rule that would answer question, or "" when
// the generic message is used.
func (r *Responder) Rule(question string) string {
	lower := strings.ToLower(question)
	for _, rule := range r.rules {
		if rule.Match != nil && rule.Match(lower) {
			return rule.Name
		}
	}
	return ""
}

func containsAny(keywords ...string) func(string) bool {
	return func(question string) bool {
		for _, k := range keywords {
			if strings.Contains(question, k) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is the keyword cascade: office building, QSBS sale, tax
// deadlines, then the active project summary.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "downtown", Match: containsAny("downtown", "building", "office"), Respond: downtownAnswer},
		{Name: "qsbs", Match: containsAny("qsbs", "stock", "sale"), Respond: qsbsAnswer},
		{Name: "deadlines", Match: containsAny("deadline", "tax", "due"), Respond: deadlineAnswer},
		{Name: "summary", Match: containsAny("summary", "active", "projects"), Respond: summaryAnswer},
	}
}

func orDefault(found bool, value, fallback string) string {
	if !found || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func downtownAnswer(projects []portal.Project) string {
	p, ok := portal.FindProject(projects, "Downtown Office Building")
	completion := 75
	if ok {
		completion = p.Completion
	}
	return fmt.Sprintf("**Downtown Office Building Update:**\n\n✅ Current Status: %s\n📊 Progress: %d%% complete\n📅 Deadline: %s\n🏢 Entity: %s\n\n**Latest:** %s\n\n**Next Steps:** Review construction timeline with Metro Construction and finalize insurance documentation.",
		orDefault(ok, string(p.Status), "On track"),
		completion,
		orDefault(ok, p.Deadline, "August 15, 2024"),
		orDefault(ok, p.Entity, "RC Holdings LLC"),
		orDefault(ok, p.LastUpdate, "Building permits approved, construction proceeding on schedule"),
	)
}

func qsbsAnswer(projects []portal.Project) string {
	p, ok := portal.FindProject(projects, "QSBS")
	completion := 45
	if ok {
		completion = p.Completion
	}
	return fmt.Sprintf("**QSBS Stock Sale Status:**\n\n⚠️ Status: Needs attention\n📊 Progress: %d%% complete\n📅 Deadline: %s\n🏛️ Entity: %s\n\n**Action Required:** %s\n\n**Recommendation:** Follow up with Miller Tax Group this week to ensure the valuation report is completed on time.",
		completion,
		orDefault(ok, p.Deadline, "July 30, 2024"),
		orDefault(ok, p.Entity, "Chen Family Trust"),
		orDefault(ok, p.LastUpdate, "Awaiting valuation report for final documentation"),
	)
}

func deadlineAnswer([]portal.Project) string {
	return "**Upcoming Tax Deadlines:**\n\n🔴 **High Priority:**\n• Q2 Tax Estimate Payment - June 15, 2024 (5 days away)\n\n🟡 **Medium Priority:**\n• Trust Distribution Review - June 20, 2024\n• QSBS Documentation Deadline - July 30, 2024\n\n💡 **Tip:** I recommend setting calendar reminders for these deadlines and preparing estimated payment amounts now."
}

func summaryAnswer(projects []portal.Project) string {
	var b strings.Builder
	b.WriteString("**Active Projects Summary:**\n\n")
	active := 0
	attention := 0
	for _, p := range projects {
		if !p.Active() {
			continue
		}
		active++
		if p.Status == portal.StatusAttention {
			attention++
		}
		fmt.Fprintf(&b, "**%s** (%s)\n• Status: %s\n• Progress: %d%%\n• Deadline: %s\n• Latest: %s\n\n",
			p.Name, p.Entity, p.Status.Label(), p.Completion, shortDate(p), p.LastUpdate)
	}
	fmt.Fprintf(&b, "**Overall:** You have %d active projects with %d requiring immediate attention.", active, attention)
	return b.String()
}

// shortDate renders the deadline as M/D/YYYY, or the raw value when it does
// not parse.
func shortDate(p portal.Project) string {
	t := p.DeadlineTime()
	if t.IsZero() {
		return p.Deadline
	}
	return t.Format("1/2/2006")
}
