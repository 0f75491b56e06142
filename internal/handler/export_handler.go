package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	"github.com/shule-labs/school-admin-api/internal/service"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
	"github.com/shule-labs/school-admin-api/pkg/response"
)

// ExportHandler exposes asynchronous export endpoints.
type ExportHandler struct {
	jobs     *service.ExportJobService
	exporter *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(jobs *service.ExportJobService, exporter *service.ExportService) *ExportHandler {
	return &ExportHandler{jobs: jobs, exporter: exporter}
}

// Enqueue creates a new export job.
func (h *ExportHandler) Enqueue(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}
	job, err := h.jobs.Enqueue(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, response.Envelope{Data: job})
}

// Status reports the progress of a job.
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.jobs.Status(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// DownloadNow renders an export synchronously and streams it back, skipping
// the job queue. Defaults to the schools dataset in CSV.
func (h *ExportHandler) DownloadNow(c *gin.Context) {
	typ := models.ExportType(c.DefaultQuery("type", string(models.ExportTypeSchools)))
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportFormatCSV)))
	switch format {
	case models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatXLSX:
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}

	filename, payload, err := h.exporter.RenderNow(c.Request.Context(), typ, format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "export failed"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentTypeFor(format), payload)
}

// Download streams a finished export through its signed token.
func (h *ExportHandler) Download(c *gin.Context) {
	job, relPath, err := h.jobs.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exporter.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available"))
		return
	}
	defer file.Close()

	filename := filepath.Base(relPath)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", contentTypeFor(job.Format))
	c.File(file.Name())
}

func contentTypeFor(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatCSV:
		return "text/csv"
	case models.ExportFormatPDF:
		return "application/pdf"
	case models.ExportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
