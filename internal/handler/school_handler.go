package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
)

type SchoolHandler struct {
	schoolService *service.SchoolService
}

func NewSchoolHandler(schoolService *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// GetAll godoc
// GET /api/v1/admin/schools
func (h *SchoolHandler) GetAll(c *gin.Context) {
	schools, err := h.schoolService.GetAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if schools == nil {
		schools = []model.School{}
	}
	response.Success(c, http.StatusOK, gin.H{"schools": schools})
}

// Create godoc
// POST /api/v1/admin/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var req model.CreateSchoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	school := &model.School{Name: req.Name, City: req.City}
	if err := h.schoolService.Create(c.Request.Context(), school); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"school": school})
}

// Update godoc
// PUT /api/v1/admin/schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSchoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	school := &model.School{ID: id, Name: req.Name, City: req.City}
	if err := h.schoolService.Update(c.Request.Context(), school); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Escola atualizada."})
}

// Delete godoc
// DELETE /api/v1/admin/schools/:id
func (h *SchoolHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.schoolService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Escola eliminada."})
}
