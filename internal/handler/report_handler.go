package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/service"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// ReportHandler exposes per-school performance report endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Schools lists the schools a report can be generated for.
func (h *ReportHandler) Schools(c *gin.Context) {
	schools, err := h.reports.Schools(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schools, nil)
}

// Generate returns the report as JSON.
func (h *ReportHandler) Generate(c *gin.Context) {
	schoolID, err := parseIDParam(c, "schoolId")
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Generate(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// GeneratePDF streams the report as a downloadable PDF.
func (h *ReportHandler) GeneratePDF(c *gin.Context) {
	schoolID, err := parseIDParam(c, "schoolId")
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, err := h.reports.GeneratePDF(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}
