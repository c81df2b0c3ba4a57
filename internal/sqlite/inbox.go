// File path: internal/sqlite/inbox.go
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/advisor_portal/internal/common"
)

// ErrInvalidContact is returned for messages that cannot be accepted.
var ErrInvalidContact = errors.New("invalid contact message")

// ErrContactNotFound is returned by Get for unknown ids.
var ErrContactNotFound = errors.New("contact message not found")

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 100

const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Submit validates and stores msg, assigning its id and timestamp. An empty
// urgency is stored as medium.
func (s *Store) Submit(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	if err := s.ensureReady(); err != nil {
		return ContactMessage{}, err
	}
	msg.Message = strings.TrimSpace(msg.Message)
	msg.Topic = strings.TrimSpace(msg.Topic)
	msg.Urgency = Urgency(strings.ToLower(strings.TrimSpace(string(msg.Urgency))))
	if msg.Message == "" {
		return ContactMessage{}, fmt.Errorf("%w: message required", ErrInvalidContact)
	}
	if msg.Urgency == "" {
		msg.Urgency = UrgencyMedium
	}
	if !msg.Urgency.Valid() {
		return ContactMessage{}, fmt.Errorf("%w: unknown urgency %q", ErrInvalidContact, msg.Urgency)
	}
	msg.ID = uuid.NewString()
	msg.CreatedAt = s.now().UTC()

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contact_messages(id, topic, urgency, message, created_at) VALUES(?, ?, ?, ?, ?)`,
			msg.ID, nullIfEmpty(msg.Topic), string(msg.Urgency), msg.Message, msg.CreatedAt.Format(timestampLayout)); err != nil {
			return fmt.Errorf("insert contact message: %w", err)
		}
		return recordAudit(ctx, tx, msg.ID, "contact_submitted", string(msg.Urgency))
	})
	if err != nil {
		return ContactMessage{}, err
	}
	common.Logger().Info("inbox: message stored", "id", msg.ID, "urgency", msg.Urgency, "topic", msg.Topic)
	return msg, nil
}

// List returns up to limit messages, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]ContactMessage, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows := []contactRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, topic, urgency, message, created_at FROM contact_messages ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("select contact messages: %w", err)
	}
	out := make([]ContactMessage, 0, len(rows))
	for _, row := range rows {
		msg, err := row.message()
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

// Get returns a single message by id.
func (s *Store) Get(ctx context.Context, id string) (ContactMessage, error) {
	if err := s.ensureReady(); err != nil {
		return ContactMessage{}, err
	}
	var row contactRow
	if err := s.db.GetContext(ctx, &row,
		`SELECT id, topic, urgency, message, created_at FROM contact_messages WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContactMessage{}, fmt.Errorf("%w: %s", ErrContactNotFound, id)
		}
		return ContactMessage{}, fmt.Errorf("select contact message: %w", err)
	}
	return row.message()
}

// UrgencyCounts summarises the inbox by urgency.
func (s *Store) UrgencyCounts(ctx context.Context) ([]UrgencyCount, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	counts := []UrgencyCount{}
	if err := s.db.SelectContext(ctx, &counts, `SELECT urgency, total FROM contact_urgency_counts ORDER BY urgency`); err != nil {
		return nil, fmt.Errorf("select urgency counts: %w", err)
	}
	return counts, nil
}

// AuditTrail returns the audit entries recorded for a message.
func (s *Store) AuditTrail(ctx context.Context, messageID string) ([]AuditRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	rows := []AuditRow{}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, message_id, action, detail FROM audit WHERE message_id = ? ORDER BY id`, messageID); err != nil {
		return nil, fmt.Errorf("select audit: %w", err)
	}
	return rows, nil
}

func (r contactRow) message() (ContactMessage, error) {
	created, err := time.Parse(timestampLayout, r.CreatedAt)
	if err != nil {
		return ContactMessage{}, fmt.Errorf("parse created_at for %s: %w", r.ID, err)
	}
	msg := ContactMessage{
		ID:        r.ID,
		Urgency:   Urgency(r.Urgency),
		Message:   r.Message,
		CreatedAt: created,
	}
	if r.Topic != nil {
		msg.Topic = *r.Topic
	}
	return msg, nil
}

func recordAudit(ctx context.Context, tx *sqlx.Tx, messageID, action, detail string) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO audit(message_id, action, detail) VALUES(?, ?, ?)`,
		nullIfEmpty(messageID), action, nullIfEmpty(detail)); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullIfEmpty(value string) interface{} {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
