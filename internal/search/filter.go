// File path: internal/search/filter.go
package search

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/advisor_portal/internal/portal"
)

// All is the selector sentinel that disables category or status filtering.
const All = "all"

var categories = []string{
	All,
	"Tax",
	"Legal",
	"Insurance",
	"Valuation",
	"Project Updates",
	"Contracts",
}

// Categories returns the document category selector values.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Filter returns the items for which keep reports true, preserving their
// relative order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Documents returns the documents whose name or tags contain query and whose
// category matches the selector.
func Documents(docs []portal.Document, query, category string) []portal.Document {
	needle := strings.ToLower(query)
	return Filter(docs, func(doc portal.Document) bool {
		return DocumentMatchesQuery(doc, needle) && selected(category, doc.Category)
	})
}

// DocumentMatchesQuery reports whether the lower-cased needle is a substring
// of the document name or of one of its tags.
func DocumentMatchesQuery(doc portal.Document, needle string) bool {
	if strings.Contains(strings.ToLower(doc.Name), needle) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Projects returns the projects whose name, type, entity or parties contain
// query and whose status matches the selector.
func Projects(projects []portal.Project, query, status string) []portal.Project {
	needle := strings.ToLower(query)
	return Filter(projects, func(p portal.Project) bool {
		return projectMatchesQuery(p, needle) && selected(status, string(p.Status))
	})
}

func projectMatchesQuery(p portal.Project, needle string) bool {
	fields := append([]string{p.Name, p.Type, p.Entity}, p.Parties...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func selected(selector, value string) bool {
	return selector == "" || selector == All || selector == value
}

// EmptyMessage is shown when a filter yields no documents.
func EmptyMessage(query string) string {
	if strings.TrimSpace(query) != "" {
		return fmt.Sprintf("No documents found matching %q. Try a different search term.", query)
	}
	return "No documents in this category yet. Upload a file to get started."
}

// ProjectsEmptyMessage is shown when a filter yields no projects.
func ProjectsEmptyMessage(query string) string {
	if strings.TrimSpace(query) != "" {
		return fmt.Sprintf("No projects found matching %q.", query)
	}
	return "No projects with this status."
}
