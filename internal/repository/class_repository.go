package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (school_id, name, year) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		c.SchoolID, c.Name, c.Year).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClassRepository) GetBySchool(ctx context.Context, schoolID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, name, year, created_at, updated_at
		 FROM classes WHERE school_id = $1 ORDER BY year ASC, name ASC`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.Name, &c.Year, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) Update(ctx context.Context, c *model.Class) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET name = $1, year = $2, updated_at = NOW() WHERE id = $3`,
		c.Name, c.Year, c.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
