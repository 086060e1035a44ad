package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/repository"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
)

type ClassHandler struct {
	classService *service.ClassService
}

func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// List godoc
// GET /api/v1/admin/classes?school_id=1
func (h *ClassHandler) List(c *gin.Context) {
	schoolID, err := strconv.Atoi(c.Query("school_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	classes, err := h.classService.ListBySchool(c.Request.Context(), schoolID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if classes == nil {
		classes = []model.Class{}
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Create godoc
// POST /api/v1/admin/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.Class{SchoolID: req.SchoolID, Name: req.Name, Year: req.Year}
	if err := h.classService.Create(c.Request.Context(), class); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PUT /api/v1/admin/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class := &model.Class{ID: id, Name: req.Name, Year: req.Year}
	if err := h.classService.Update(c.Request.Context(), class); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Turma atualizada."})
}

// Delete godoc
// DELETE /api/v1/admin/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Turma eliminada."})
}
