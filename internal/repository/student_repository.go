package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escolacentral/escola-backend/internal/model"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (school_id, class_id, name, number)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		s.SchoolID, s.ClassID, s.Name, s.Number).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetBySchool returns a page of students for a school.
func (r *StudentRepository) GetBySchool(ctx context.Context, schoolID, limit, offset int) ([]model.Student, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE school_id = $1`, schoolID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, school_id, class_id, name, number, created_at, updated_at
		 FROM students WHERE school_id = $1
		 ORDER BY name ASC LIMIT $2 OFFSET $3`, schoolID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.ClassID, &s.Name, &s.Number, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE students SET class_id = $1, name = $2, number = $3, updated_at = NOW() WHERE id = $4`,
		s.ClassID, s.Name, s.Number, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
