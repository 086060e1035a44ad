package service

import (
	"context"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

type SubjectService struct {
	repo *repository.SubjectRepository
}

func NewSubjectService(repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{repo: repo}
}

func (s *SubjectService) ListBySchool(ctx context.Context, schoolID int) ([]model.Subject, error) {
	return s.repo.GetBySchool(ctx, schoolID)
}

func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	return s.repo.Create(ctx, sub)
}

func (s *SubjectService) Update(ctx context.Context, sub *model.Subject) error {
	return s.repo.Update(ctx, sub)
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
