package dto

import "github.com/shule-labs/school-admin-api/internal/models"

// ExportRequest asks for a document to be generated asynchronously.
type ExportRequest struct {
	Type   models.ExportType   `json:"type" binding:"required"`
	Format models.ExportFormat `json:"format" binding:"required"`
}

// ExportJobResponse acknowledges job creation.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse reports job progress and, when finished, the signed
// download URL.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
