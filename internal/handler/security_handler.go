package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/escolacentral/escola-backend/internal/response"
	"github.com/escolacentral/escola-backend/internal/service"
)

const (
	defaultDashboardWindow = time.Hour
	maxDashboardWindow     = 7 * 24 * time.Hour
	dashboardStreamPeriod  = 10 * time.Second
)

// SecurityHandler serves the security monitoring surface.
type SecurityHandler struct {
	security *service.SecurityService
	log      zerolog.Logger
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(security *service.SecurityService, log zerolog.Logger) *SecurityHandler {
	return &SecurityHandler{
		security: security,
		log:      log.With().Str("component", "security_handler").Logger(),
	}
}

// GetDashboard godoc
// GET /api/v1/admin/security/dashboard?window_minutes=60
func (h *SecurityHandler) GetDashboard(c *gin.Context) {
	window := parseWindow(c.Query("window_minutes"))

	dashboard, err := h.security.Summarize(c.Request.Context(), window)
	if err != nil {
		h.log.Error().Err(err).Msg("Dashboard aggregation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}

// StreamDashboard godoc
// GET /api/v1/admin/security/stream
//
// SSE push of the dashboard. The loop lives exactly as long as the caller's
// request context — there is no process-wide refresh timer.
func (h *SecurityHandler) StreamDashboard(c *gin.Context) {
	window := parseWindow(c.Query("window_minutes"))
	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(dashboardStreamPeriod)
	defer ticker.Stop()

	// Send immediately on connect, then every tick.
	h.writeDashboard(c, window)

	for {
		select {
		case <-reqCtx.Done():
			return
		case <-ticker.C:
			h.writeDashboard(c, window)
		}
	}
}

func (h *SecurityHandler) writeDashboard(c *gin.Context, window time.Duration) {
	dashboard, err := h.security.Summarize(c.Request.Context(), window)
	if err != nil {
		h.log.Warn().Err(err).Msg("Dashboard refresh failed")
		return
	}
	data, err := json.Marshal(dashboard)
	if err != nil {
		return
	}
	c.Writer.Write([]byte("data: "))
	c.Writer.Write(data)
	c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

func parseWindow(raw string) time.Duration {
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return defaultDashboardWindow
	}
	window := time.Duration(minutes) * time.Minute
	if window > maxDashboardWindow {
		return maxDashboardWindow
	}
	return window
}
