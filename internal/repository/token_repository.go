package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

// TokenRepository is the durable store for first-access tokens. Rows are
// append-only: the only mutations are state transitions out of pending, and
// every transition goes through a conditional update keyed on
// (id, state = 'pending') so concurrent writers converge on exactly one
// winner. Tokens are never deleted — they stay for audit.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

const tokenColumns = `id, token_hash, invitee_email, invitee_name, role, state, issued_at, expires_at, consumed_at`

// Create inserts a new pending token.
func (r *TokenRepository) Create(ctx context.Context, t *model.AccessToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO access_tokens (id, token_hash, invitee_email, invitee_name, role, state, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.TokenHash, t.InviteeEmail, t.InviteeName, t.Role, t.State, t.IssuedAt, t.ExpiresAt,
	)
	return err
}

// GetByHash retrieves a token by the SHA-256 of its bearer secret.
func (r *TokenRepository) GetByHash(ctx context.Context, hash string) (*model.AccessToken, error) {
	t := &model.AccessToken{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+tokenColumns+` FROM access_tokens WHERE token_hash = $1`, hash,
	).Scan(&t.ID, &t.TokenHash, &t.InviteeEmail, &t.InviteeName, &t.Role, &t.State, &t.IssuedAt, &t.ExpiresAt, &t.ConsumedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// RevokePendingByEmail revokes every pending token held by an invitee and
// returns the affected token ids. Called before each new issuance so at most
// one pending token exists per invitee.
func (r *TokenRepository) RevokePendingByEmail(ctx context.Context, email string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`UPDATE access_tokens SET state = $1
		 WHERE invitee_email = $2 AND state = $3
		 RETURNING id`,
		model.TokenStateRevoked, email, model.TokenStatePending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkExpired applies the lazy pending -> expired transition. Returns false
// without error when the token already left pending; two concurrent expirers
// converge on the same terminal state.
func (r *TokenRepository) MarkExpired(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE access_tokens SET state = $1 WHERE id = $2 AND state = $3`,
		model.TokenStateExpired, id, model.TokenStatePending,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ConsumeAndActivate transitions the token pending -> consumed and activates
// the paired admin account in one transaction. Either both writes commit or
// neither does; the conditional update guarantees exactly one activation
// succeeds under concurrency. Returns ErrStateConflict when the token is no
// longer pending or its window closed at the instant of the update.
func (r *TokenRepository) ConsumeAndActivate(ctx context.Context, id, passwordHash string, now time.Time) (*model.AccessToken, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	t := &model.AccessToken{}
	err = tx.QueryRow(ctx,
		`UPDATE access_tokens SET state = $1, consumed_at = $2
		 WHERE id = $3 AND state = $4 AND expires_at > $2
		 RETURNING `+tokenColumns,
		model.TokenStateConsumed, now, id, model.TokenStatePending,
	).Scan(&t.ID, &t.TokenHash, &t.InviteeEmail, &t.InviteeName, &t.Role, &t.State, &t.IssuedAt, &t.ExpiresAt, &t.ConsumedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStateConflict
	}
	if err != nil {
		return nil, fmt.Errorf("consume token: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO admins (email, name, password_hash, role, email_confirmed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO UPDATE
		 SET name = EXCLUDED.name,
		     password_hash = EXCLUDED.password_hash,
		     role = EXCLUDED.role,
		     email_confirmed_at = EXCLUDED.email_confirmed_at,
		     updated_at = NOW()`,
		t.InviteeEmail, t.InviteeName, passwordHash, t.Role, now,
	)
	if err != nil {
		return nil, fmt.Errorf("activate account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}
