// File path: internal/sqlite/types.go
package sqlite

import "time"

// Urgency ranks a contact message for the advisor.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Urgencies lists the accepted urgency values in display order.
func Urgencies() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}
}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// ContactMessage is a note sent from the client to the advisor.
type ContactMessage struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic,omitempty"`
	Urgency   Urgency   `json:"urgency"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type contactRow struct {
	ID        string  `db:"id"`
	Topic     *string `db:"topic"`
	Urgency   string  `db:"urgency"`
	Message   string  `db:"message"`
	CreatedAt string  `db:"created_at"`
}

// UrgencyCount is one row of the urgency breakdown.
type UrgencyCount struct {
	Urgency Urgency `db:"urgency" json:"urgency"`
	Total   int     `db:"total" json:"total"`
}

// AuditRow represents an audit entry.
type AuditRow struct {
	ID        int64   `db:"id" json:"id"`
	MessageID *string `db:"message_id" json:"message_id,omitempty"`
	Action    string  `db:"action" json:"action"`
	Detail    *string `db:"detail" json:"detail,omitempty"`
}
