package models

import "time"

// SchoolReportResource is a per-(subject, grade) resource aggregate for one
// school, with its books-per-student ratio. StudentsPerBook is nil when the
// group has no books: the ratio is undefined, never a division error.
type SchoolReportResource struct {
	SubjectName     *string  `db:"subject_name" json:"subject_name"`
	Grade           string   `db:"grade" json:"grade"`
	TotalStudents   int      `db:"total_students" json:"total_students"`
	TotalBooks      int      `db:"total_books" json:"total_books"`
	StudentsPerBook *float64 `json:"students_per_book"`
}

// SchoolReport is the full per-school performance report view model.
type SchoolReport struct {
	School                   School                 `json:"school"`
	GeneratedAt              time.Time              `json:"generated_at"`
	TotalStudents            int                    `json:"total_students"`
	TotalTeachers            int                    `json:"total_teachers"`
	TeacherStudentRatio      *float64               `json:"teacher_student_ratio"`
	AvgWeeklyStudentAbsences float64                `json:"avg_weekly_student_absences"`
	AvgWeeklyTeacherAbsences float64                `json:"avg_weekly_teacher_absences"`
	Resources                []SchoolReportResource `json:"resources"`
	Suggestions              []string               `json:"suggestions"`
}

// ExportFormat enumerates supported export document formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ExportType enumerates the datasets an export job can render.
type ExportType string

const (
	ExportTypeSchools ExportType = "SCHOOLS"
)

// ExportStatus tracks the lifecycle of an export job.
type ExportStatus string

const (
	ExportStatusQueued   ExportStatus = "QUEUED"
	ExportStatusRunning  ExportStatus = "RUNNING"
	ExportStatusFinished ExportStatus = "FINISHED"
	ExportStatusFailed   ExportStatus = "FAILED"
)

// ExportJob is a queued document generation task persisted in export_jobs.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	Type         ExportType   `db:"type" json:"type"`
	Format       ExportFormat `db:"format" json:"format"`
	Status       ExportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	ResultURL    *string      `db:"result_url" json:"result_url,omitempty"`
	CreatedBy    int64        `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
}
