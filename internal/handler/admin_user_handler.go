package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/repository"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
)

// AdminUserHandler serves the admin-account monitoring list.
type AdminUserHandler struct {
	service *service.AdminUserService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(service *service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{service: service}
}

// ListAdmins godoc
// GET /api/v1/admin/users
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.service.ListAdmins(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if admins == nil {
		admins = []service.AdminProjection{}
	}
	response.Success(c, http.StatusOK, gin.H{"admins": admins})
}

// AssignSchoolRequest is the payload for binding an admin to a school.
type AssignSchoolRequest struct {
	SchoolID int `json:"school_id" binding:"required"`
}

// AssignSchool godoc
// PUT /api/v1/admin/users/:id/school
func (h *AdminUserHandler) AssignSchool(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req AssignSchoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.service.AssignSchool(c.Request.Context(), id, req.SchoolID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Escola atribuída."})
}
