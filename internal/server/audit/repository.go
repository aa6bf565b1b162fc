// Package audit keeps a trail of authentication and account-management
// events (logins, lockouts, admin changes) in SQLite or PostgreSQL.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/salarygate/internal/dbx"
)

// EventType names what happened.
type EventType string

const (
	EventLoginSuccess    EventType = "login_success"
	EventLoginFailure    EventType = "login_failure"
	EventAccountLocked   EventType = "account_locked"
	EventLockExpired     EventType = "lock_expired"
	EventAccountCreated  EventType = "account_created"
	EventPasswordChanged EventType = "password_changed"
	EventPasswordReset   EventType = "password_reset"
	EventAccountUpdated  EventType = "account_updated"
	EventAccountDeleted  EventType = "account_deleted"
	EventLegacyMigrated  EventType = "legacy_migrated"
)

// Event is one audit row.
type Event struct {
	ID         string
	Type       EventType
	Username   string
	Detail     string
	OccurredAt time.Time
}

// NewEvent stamps a new event with a random ID.
func NewEvent(t EventType, username, detail string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Username:   username,
		Detail:     detail,
		OccurredAt: at,
	}
}

// Recorder accepts events. The account service only needs this much.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Repository stores and queries events.
type Repository interface {
	Recorder
	// ListByUser returns the newest events for username, newest first.
	ListByUser(ctx context.Context, username string, limit int) ([]Event, error)
	// Recent returns the newest events across all users, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
	// Purge deletes events older than before and reports how many went.
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// BatchRecorder stores several events atomically.
type BatchRecorder interface {
	RecordBatch(ctx context.Context, events []Event) error
}

// recordBatch writes events through the repository newRepo builds on the
// transaction, so either all of them land or none do.
func recordBatch(ctx context.Context, h dbx.DBTX, events []Event, newRepo func(dbx.DBTX) Recorder) error {
	return dbx.InTx(ctx, h, func(ctx context.Context, tx dbx.DBTX) error {
		r := newRepo(tx)
		for _, e := range events {
			if err := r.Record(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) error { return nil }
