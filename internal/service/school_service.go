package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

type SchoolService struct {
	repo *repository.SchoolRepository
	log  zerolog.Logger
}

func NewSchoolService(repo *repository.SchoolRepository, log zerolog.Logger) *SchoolService {
	return &SchoolService{
		repo: repo,
		log:  log.With().Str("component", "school_service").Logger(),
	}
}

func (s *SchoolService) GetAll(ctx context.Context) ([]model.School, error) {
	return s.repo.GetAll(ctx)
}

func (s *SchoolService) Create(ctx context.Context, school *model.School) error {
	return s.repo.Create(ctx, school)
}

func (s *SchoolService) Update(ctx context.Context, school *model.School) error {
	return s.repo.Update(ctx, school)
}

func (s *SchoolService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
