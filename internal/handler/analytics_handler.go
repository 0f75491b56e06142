package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/service"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// AnalyticsHandler exposes the admin dashboard endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Dashboard returns the lookback window analytics view.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Overview returns the landing page entity counts.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	stats, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
