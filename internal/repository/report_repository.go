package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// ReportRepository serves the per-school performance report queries. Unlike
// the dashboard these read full recorded history, not a lookback window.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// CountStudents returns one school's roster size.
func (r *ReportRepository) CountStudents(ctx context.Context, schoolID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE school_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, schoolID); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// CountTeachers returns one school's teacher roster size.
func (r *ReportRepository) CountTeachers(ctx context.Context, schoolID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM teachers WHERE school_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, schoolID); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return total, nil
}

// ResourceSums aggregates one school's resource rows per (subject, grade).
func (r *ReportRepository) ResourceSums(ctx context.Context, schoolID int64) ([]models.SchoolReportResource, error) {
	const query = `SELECT
			subject_name,
			grade,
			COALESCE(SUM(num_students), 0) AS total_students,
			COALESCE(SUM(num_books), 0) AS total_books
		FROM resources
		WHERE school_id = $1
		GROUP BY subject_name, grade
		ORDER BY subject_name ASC NULLS LAST, grade ASC`
	var sums []models.SchoolReportResource
	if err := r.db.SelectContext(ctx, &sums, query, schoolID); err != nil {
		return nil, fmt.Errorf("report resource sums: %w", err)
	}
	return sums, nil
}

// WeeklyStudentAbsences counts one school's student absences per ISO week
// across full history.
func (r *ReportRepository) WeeklyStudentAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error) {
	return r.weeklyAbsences(ctx, "student_attendance", schoolID)
}

// WeeklyTeacherAbsences counts one school's teacher absences per ISO week
// across full history.
func (r *ReportRepository) WeeklyTeacherAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error) {
	return r.weeklyAbsences(ctx, "teacher_attendance", schoolID)
}

func (r *ReportRepository) weeklyAbsences(ctx context.Context, table string, schoolID int64) ([]models.WeeklyAbsenceRow, error) {
	query := `SELECT ` + yearWeekExpr + ` AS year_week, COUNT(*) AS absences
		FROM ` + table + `
		WHERE school_id = $1 AND ` + absentPredicate + `
		GROUP BY 1
		ORDER BY 1 ASC`
	var rows []models.WeeklyAbsenceRow
	if err := r.db.SelectContext(ctx, &rows, query, schoolID); err != nil {
		return nil, fmt.Errorf("weekly absences %s: %w", table, err)
	}
	return rows, nil
}
