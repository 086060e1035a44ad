package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

// AdminRepository handles admin account data access. Account creation and
// activation happen inside TokenRepository.ConsumeAndActivate; this
// repository covers reads and login bookkeeping.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

const adminColumns = `id, email, name, password_hash, role, school_id, email_confirmed_at, last_sign_in_at, created_at, updated_at`

// GetByID retrieves an admin by ID.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

// GetByEmail retrieves an admin by their unique email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

// List returns all admin accounts for the monitoring list, newest first.
func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+adminColumns+` FROM admins ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.SchoolID,
			&a.EmailConfirmedAt, &a.LastSignInAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// CreateActive inserts an already-confirmed admin account. Used by the
// bootstrap CLI only; the normal path goes through first-access activation.
func (r *AdminRepository) CreateActive(ctx context.Context, a *model.Admin) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admins (email, name, password_hash, role, school_id, email_confirmed_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at, updated_at`,
		a.Email, a.Name, a.PasswordHash, a.Role, a.SchoolID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// TouchSignIn records a successful login timestamp.
func (r *AdminRepository) TouchSignIn(ctx context.Context, id int, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admins SET last_sign_in_at = $1 WHERE id = $2`, at, id)
	return err
}

// AssignSchool binds an admin to a school tenant.
func (r *AdminRepository) AssignSchool(ctx context.Context, id, schoolID int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET school_id = $1, updated_at = NOW() WHERE id = $2`, schoolID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminRepository) scanOne(row pgx.Row) (*model.Admin, error) {
	a := &model.Admin{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.SchoolID,
		&a.EmailConfirmedAt, &a.LastSignInAt, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
