package dto

import "github.com/shule-labs/school-admin-api/internal/models"

// ResourceRequest creates or updates one resource inventory row.
type ResourceRequest struct {
	SubjectName  *string `json:"subject_name"`
	Grade        string  `json:"grade" binding:"required"`
	NumStudents  int     `json:"num_students" binding:"min=0"`
	NumBooks     int     `json:"num_books" binding:"min=0"`
	NumComputers int     `json:"num_computers" binding:"min=0"`
}

// ResourceSummaryResponse is the cross-school per-subject rollup.
type ResourceSummaryResponse struct {
	Subjects []models.ResourceSubjectSummary `json:"subjects"`
	Totals   models.ResourceGrandTotals      `json:"totals"`
}
