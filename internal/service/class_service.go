package service

import (
	"context"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

type ClassService struct {
	repo *repository.ClassRepository
}

func NewClassService(repo *repository.ClassRepository) *ClassService {
	return &ClassService{repo: repo}
}

func (s *ClassService) ListBySchool(ctx context.Context, schoolID int) ([]model.Class, error) {
	return s.repo.GetBySchool(ctx, schoolID)
}

func (s *ClassService) Create(ctx context.Context, c *model.Class) error {
	return s.repo.Create(ctx, c)
}

func (s *ClassService) Update(ctx context.Context, c *model.Class) error {
	return s.repo.Update(ctx, c)
}

func (s *ClassService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
