package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/salarygate/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, e Event) error {
	query :=
		`INSERT INTO audit_events (id, event_type, username, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, e.ID, string(e.Type), e.Username, e.Detail, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RecordBatch(ctx context.Context, events []Event) error {
	return recordBatch(ctx, r.db, events, func(tx dbx.DBTX) Recorder { return NewPostgresRepository(tx) })
}

func (r *PostgresRepository) ListByUser(ctx context.Context, username string, limit int) ([]Event, error) {
	query :=
		`SELECT id, event_type, username, detail, occurred_at FROM audit_events
		 WHERE username = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2`
	return r.query(ctx, query, username, limit)
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Event, error) {
	query :=
		`SELECT id, event_type, username, detail, occurred_at FROM audit_events
		 ORDER BY occurred_at DESC
		 LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *PostgresRepository) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e   Event
			typ string
		)
		if err := rows.Scan(&e.ID, &typ, &e.Username, &e.Detail, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		e.Type = EventType(typ)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return events, nil
}
