package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/escolacentral/escola-backend/internal/model"
	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
	"github.com/escolacentral/escola-backend/internal/validator"
)

// FirstAccessHandler exposes the admin provisioning handshake: a super admin
// issues tokens; the public endpoints let the invitee check and redeem one.
type FirstAccessHandler struct {
	provisioning *service.ProvisioningService
}

// NewFirstAccessHandler creates a new FirstAccessHandler.
func NewFirstAccessHandler(provisioning *service.ProvisioningService) *FirstAccessHandler {
	return &FirstAccessHandler{provisioning: provisioning}
}

// IssueToken godoc
// POST /api/v1/admin/access-tokens
func (h *FirstAccessHandler) IssueToken(c *gin.Context) {
	var req model.IssueTokenRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRole)
		return
	}

	issued, err := h.provisioning.Issue(c.Request.Context(), req.Email, req.Name, role, clientOrigin(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// The activation URL is returned to the issuer only, so the invite can
	// be forwarded manually if the mail never arrives.
	response.Success(c, http.StatusCreated, gin.H{
		"token":          issued.Token,
		"activation_url": issued.ActivationURL,
	})
}

// CheckToken godoc
// GET /api/v1/public/first-access/:token
//
// Read-only and idempotent; the first-access page calls this on every load.
func (h *FirstAccessHandler) CheckToken(c *gin.Context) {
	v := h.provisioning.Validate(c.Request.Context(), c.Param("token"), clientOrigin(c))
	response.Success(c, http.StatusOK, v)
}

// Activate godoc
// POST /api/v1/public/first-access
func (h *FirstAccessHandler) Activate(c *gin.Context) {
	var req model.ActivateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.provisioning.Activate(c.Request.Context(), req.Token, req.Password, clientOrigin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakCredential):
			// The policy is public; naming the unmet rule is user-correctable
			// feedback, not an oracle.
			response.FailWithFields(c, http.StatusBadRequest, response.ErrWeakPassword,
				map[string]string{"password": weakCredentialDetail(err)})
		case errors.Is(err, service.ErrTokenAlreadyUsed):
			response.Fail(c, http.StatusConflict, response.ErrAccessTokenUsed)
		case errors.Is(err, service.ErrStorageConflict):
			response.Fail(c, http.StatusConflict, response.ErrActivationConflict)
		case errors.Is(err, service.ErrTokenNotFound),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenRevoked):
			// One message for all three: the endpoint must not reveal whether
			// a token ever existed.
			response.Fail(c, http.StatusBadRequest, response.ErrAccessTokenInvalid)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

func weakCredentialDetail(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
