package service

import (
	"context"
	"fmt"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
)

// AdminProjection is the monitoring-list view of an admin account, including
// the display badge for its role.
type AdminProjection struct {
	model.Admin
	Badge model.RoleBadge `json:"badge"`
}

// AdminUserService serves the admin-account monitoring list.
type AdminUserService struct {
	repo *repository.AdminRepository
}

// NewAdminUserService creates a new AdminUserService.
func NewAdminUserService(repo *repository.AdminRepository) *AdminUserService {
	return &AdminUserService{repo: repo}
}

// ListAdmins returns every admin account with its role badge. An account
// carrying a role outside the closed set is an error, not a fallback badge —
// an unrecognized privilege must be surfaced, not displayed as something
// harmless.
func (s *AdminUserService) ListAdmins(ctx context.Context) ([]AdminProjection, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AdminProjection, 0, len(admins))
	for _, a := range admins {
		badge, err := a.Role.Badge()
		if err != nil {
			return nil, fmt.Errorf("admin %d: %w", a.ID, err)
		}
		out = append(out, AdminProjection{Admin: a, Badge: badge})
	}
	return out, nil
}

// AssignSchool binds an admin account to a school tenant.
func (s *AdminUserService) AssignSchool(ctx context.Context, adminID, schoolID int) error {
	return s.repo.AssignSchool(ctx, adminID, schoolID)
}
