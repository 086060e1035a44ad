package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

type SchoolRepository struct {
	pool *pgxpool.Pool
}

func NewSchoolRepository(pool *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{pool: pool}
}

func (r *SchoolRepository) Create(ctx context.Context, s *model.School) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schools (name, city) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		s.Name, s.City).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SchoolRepository) GetAll(ctx context.Context) ([]model.School, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, city, created_at, updated_at FROM schools ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var s model.School
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

func (r *SchoolRepository) Update(ctx context.Context, s *model.School) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE schools SET name = $1, city = $2, updated_at = NOW() WHERE id = $3`,
		s.Name, s.City, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
