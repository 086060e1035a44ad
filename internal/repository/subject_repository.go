package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (school_id, name) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		s.SchoolID, s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SubjectRepository) GetBySchool(ctx context.Context, schoolID int) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, name, created_at, updated_at
		 FROM subjects WHERE school_id = $1 ORDER BY name ASC`, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET name = $1, updated_at = NOW() WHERE id = $2`, s.Name, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
