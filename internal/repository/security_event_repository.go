package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

// SecurityEventRepository is the append-only sink for security events. Events
// are inserted and read back for aggregation; there is no update or delete
// path by design.
type SecurityEventRepository struct {
	pool *pgxpool.Pool
}

// NewSecurityEventRepository creates a new SecurityEventRepository.
func NewSecurityEventRepository(pool *pgxpool.Pool) *SecurityEventRepository {
	return &SecurityEventRepository{pool: pool}
}

// Insert appends one event.
func (r *SecurityEventRepository) Insert(ctx context.Context, e *model.SecurityEvent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO security_events (kind, subject, origin, severity, occurred_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.Kind, e.Subject, e.Origin, e.Severity, e.OccurredAt,
	).Scan(&e.ID)
}

// ListSince returns all events with occurred_at >= since, oldest first.
func (r *SecurityEventRepository) ListSince(ctx context.Context, since time.Time) ([]model.SecurityEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, kind, subject, origin, severity, occurred_at
		 FROM security_events
		 WHERE occurred_at >= $1
		 ORDER BY occurred_at ASC, id ASC`, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.SecurityEvent
	for rows.Next() {
		var e model.SecurityEvent
		if err := rows.Scan(&e.ID, &e.Kind, &e.Subject, &e.Origin, &e.Severity, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
