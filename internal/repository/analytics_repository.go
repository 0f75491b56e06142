package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// Lookback window predicate shared by the dashboard aggregations. The
// window is inclusive of today and parameterized in days.
const lookbackPredicate = "date >= CURRENT_DATE - ($1 * INTERVAL '1 day')"

// AnalyticsRepository serves the admin dashboard aggregations. All
// attendance-based queries are bounded by the lookback window; headcounts
// and resource ratios read current state.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// SchoolHeadcounts returns per-school student and teacher totals. Schools
// with no roster rows appear with zero counts.
func (r *AnalyticsRepository) SchoolHeadcounts(ctx context.Context) ([]models.SchoolHeadcount, error) {
	const query = `SELECT
			u.id AS school_id,
			u.username AS school_name,
			COALESCE(s.total, 0) AS total_students,
			COALESCE(t.total, 0) AS total_teachers
		FROM users u
		LEFT JOIN (SELECT school_id, COUNT(*) AS total FROM students GROUP BY school_id) s ON s.school_id = u.id
		LEFT JOIN (SELECT school_id, COUNT(*) AS total FROM teachers GROUP BY school_id) t ON t.school_id = u.id
		WHERE u.role = 'school'
		ORDER BY u.username ASC`
	var counts []models.SchoolHeadcount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("school headcounts: %w", err)
	}
	return counts, nil
}

// ResourceRatios aggregates resource rows per (school, subject, grade).
// The join to users is outer so rows survive a deleted school account; the
// service substitutes a placeholder name for those.
func (r *AnalyticsRepository) ResourceRatios(ctx context.Context) ([]models.ResourceRatioRow, error) {
	const query = `SELECT
			r.school_id,
			COALESCE(u.username, '') AS school_name,
			r.subject_name,
			r.grade,
			COALESCE(SUM(r.num_students), 0) AS total_students,
			COALESCE(SUM(r.num_books), 0) AS total_books
		FROM resources r
		LEFT JOIN users u ON u.id = r.school_id
		GROUP BY r.school_id, u.username, r.subject_name, r.grade
		ORDER BY school_name ASC, r.subject_name ASC NULLS LAST, r.grade ASC`
	var rows []models.ResourceRatioRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("resource ratios: %w", err)
	}
	return rows, nil
}

// StudentDailyTrend returns per-day present/absent counts for students
// inside the lookback window.
func (r *AnalyticsRepository) StudentDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error) {
	return r.dailyTrend(ctx, "student_attendance", lookbackDays)
}

// TeacherDailyTrend returns per-day present/absent counts for teachers
// inside the lookback window.
func (r *AnalyticsRepository) TeacherDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error) {
	return r.dailyTrend(ctx, "teacher_attendance", lookbackDays)
}

func (r *AnalyticsRepository) dailyTrend(ctx context.Context, table string, lookbackDays int) ([]models.DailyAttendanceTrend, error) {
	query := `SELECT
			date,
			COUNT(*) FILTER (WHERE TRIM(LOWER(status)) = 'present') AS present,
			COUNT(*) FILTER (WHERE ` + absentPredicate + `) AS absent
		FROM ` + table + `
		WHERE ` + lookbackPredicate + `
		GROUP BY date
		ORDER BY date ASC`
	var trend []models.DailyAttendanceTrend
	if err := r.db.SelectContext(ctx, &trend, query, lookbackDays); err != nil {
		return nil, fmt.Errorf("daily trend %s: %w", table, err)
	}
	return trend, nil
}

// StudentRateCounts tallies student attendance rows inside the lookback
// window by normalized status.
func (r *AnalyticsRepository) StudentRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error) {
	return r.rateCounts(ctx, "student_attendance", lookbackDays)
}

// TeacherRateCounts tallies teacher attendance rows inside the lookback
// window by normalized status.
func (r *AnalyticsRepository) TeacherRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error) {
	return r.rateCounts(ctx, "teacher_attendance", lookbackDays)
}

func (r *AnalyticsRepository) rateCounts(ctx context.Context, table string, lookbackDays int) (*models.AttendanceRateCounts, error) {
	query := `SELECT
			COUNT(*) FILTER (WHERE TRIM(LOWER(status)) = 'present') AS present,
			COUNT(*) FILTER (WHERE ` + absentPredicate + `) AS absent,
			COUNT(*) FILTER (WHERE TRIM(LOWER(status)) NOT IN ('present', 'absent')) AS unknown
		FROM ` + table + `
		WHERE ` + lookbackPredicate
	var counts models.AttendanceRateCounts
	if err := r.db.GetContext(ctx, &counts, query, lookbackDays); err != nil {
		return nil, fmt.Errorf("rate counts %s: %w", table, err)
	}
	return &counts, nil
}

// LatenessHeatmap sums student late and early-leave minutes per weekday
// inside the lookback window, Monday=0 through Sunday=6.
func (r *AnalyticsRepository) LatenessHeatmap(ctx context.Context, lookbackDays int) ([]models.LatenessHeatmapCell, error) {
	query := `SELECT
			(EXTRACT(ISODOW FROM date) - 1)::INT AS weekday,
			COALESCE(SUM(late_minutes), 0) AS total_late,
			COALESCE(SUM(early_minutes), 0) AS total_early
		FROM student_attendance
		WHERE ` + lookbackPredicate + `
		GROUP BY 1
		ORDER BY 1 ASC`
	var cells []models.LatenessHeatmapCell
	if err := r.db.SelectContext(ctx, &cells, query, lookbackDays); err != nil {
		return nil, fmt.Errorf("lateness heatmap: %w", err)
	}
	return cells, nil
}

// ChronicAbsentees lists students with at least three absences inside the
// lookback window, worst first, capped at fifteen rows.
func (r *AnalyticsRepository) ChronicAbsentees(ctx context.Context, lookbackDays int) ([]models.ChronicAbsentee, error) {
	query := `SELECT
			s.name,
			s.grade,
			s.student_class,
			a.school_id,
			COALESCE(u.username, '') AS school_name,
			COUNT(*) AS absent_days,
			COUNT(*) FILTER (WHERE a.excused) AS excused_days
		FROM student_attendance a
		JOIN students s ON s.id = a.student_id
		LEFT JOIN users u ON u.id = a.school_id
		WHERE ` + absentPredicate + ` AND ` + lookbackPredicate + `
		GROUP BY s.id, s.name, s.grade, s.student_class, a.school_id, u.username
		HAVING COUNT(*) >= 3
		ORDER BY absent_days DESC, s.grade ASC
		LIMIT 15`
	var absentees []models.ChronicAbsentee
	if err := r.db.SelectContext(ctx, &absentees, query, lookbackDays); err != nil {
		return nil, fmt.Errorf("chronic absentees: %w", err)
	}
	return absentees, nil
}

// Overview counts the portal's primary entities.
func (r *AnalyticsRepository) Overview(ctx context.Context) (*models.OverviewStats, error) {
	const query = `SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'school') AS schools,
			(SELECT COUNT(*) FROM students) AS students,
			(SELECT COUNT(*) FROM teachers) AS teachers,
			(SELECT COUNT(*) FROM resources) AS resources`
	var stats models.OverviewStats
	if err := r.db.QueryRowxContext(ctx, query).
		Scan(&stats.Schools, &stats.Students, &stats.Teachers, &stats.Resources); err != nil {
		return nil, fmt.Errorf("overview stats: %w", err)
	}
	return &stats, nil
}
