package service

import (
	"context"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

type StudentService struct {
	repo *repository.StudentRepository
}

func NewStudentService(repo *repository.StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

// ListBySchool returns a page of a school's students and the total count.
func (s *StudentService) ListBySchool(ctx context.Context, schoolID, page, perPage int) ([]model.Student, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.repo.GetBySchool(ctx, schoolID, perPage, (page-1)*perPage)
}

func (s *StudentService) Create(ctx context.Context, st *model.Student) error {
	return s.repo.Create(ctx, st)
}

func (s *StudentService) Update(ctx context.Context, st *model.Student) error {
	return s.repo.Update(ctx, st)
}

func (s *StudentService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
