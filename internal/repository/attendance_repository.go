package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// Canonical status predicate and ISO week key used by every attendance
// aggregation. Raw status strings are trimmed and lowercased in SQL so a
// stray "Absent " still counts; the week key is isoyear*100+isoweek with
// Monday-start weeks.
const (
	absentPredicate = "TRIM(LOWER(status)) = 'absent'"
	yearWeekExpr    = "(EXTRACT(ISOYEAR FROM date) * 100 + EXTRACT(WEEK FROM date))::INT"
)

// AttendanceRepository persists daily attendance rows and serves the
// cross-school weekly rollup.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// InsertStudentBatch stores a batch of student attendance rows in a single
// transaction. Any insert failure rolls back the whole batch.
func (r *AttendanceRepository) InsertStudentBatch(ctx context.Context, records []models.StudentAttendance) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student attendance batch: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO student_attendance
		(student_id, school_id, date, status, reason, excused, late_minutes, early_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query,
			rec.StudentID, rec.SchoolID, rec.Date, rec.Status, rec.Reason,
			rec.Excused, rec.LateMinutes, rec.EarlyMinutes,
		); err != nil {
			return fmt.Errorf("insert student attendance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student attendance batch: %w", err)
	}
	return nil
}

// InsertTeacherBatch stores a batch of teacher attendance rows in a single
// transaction. Any insert failure rolls back the whole batch.
func (r *AttendanceRepository) InsertTeacherBatch(ctx context.Context, records []models.TeacherAttendance) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher attendance batch: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO teacher_attendance
		(teacher_id, school_id, date, status, reason, excused, late_minutes, early_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query,
			rec.TeacherID, rec.SchoolID, rec.Date, rec.Status, rec.Reason,
			rec.Excused, rec.LateMinutes, rec.EarlyMinutes,
		); err != nil {
			return fmt.Errorf("insert teacher attendance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher attendance batch: %w", err)
	}
	return nil
}

// StudentSessionDates lists the distinct dates with recorded student
// attendance for one school, newest first.
func (r *AttendanceRepository) StudentSessionDates(ctx context.Context, schoolID int64) ([]time.Time, error) {
	const query = `SELECT DISTINCT date FROM student_attendance WHERE school_id = $1 ORDER BY date DESC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, schoolID); err != nil {
		return nil, fmt.Errorf("list student session dates: %w", err)
	}
	return dates, nil
}

// TeacherSessionDates lists the distinct dates with recorded teacher
// attendance for one school, newest first.
func (r *AttendanceRepository) TeacherSessionDates(ctx context.Context, schoolID int64) ([]time.Time, error) {
	const query = `SELECT DISTINCT date FROM teacher_attendance WHERE school_id = $1 ORDER BY date DESC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, schoolID); err != nil {
		return nil, fmt.Errorf("list teacher session dates: %w", err)
	}
	return dates, nil
}

// StudentDetails returns one day's student attendance joined with the
// roster, ordered by grade then name.
func (r *AttendanceRepository) StudentDetails(ctx context.Context, schoolID int64, date time.Time) ([]models.StudentAttendanceDetail, error) {
	const query = `SELECT
			s.name, s.grade, s.student_class,
			a.status, a.reason, a.excused, a.late_minutes, a.early_minutes
		FROM student_attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.school_id = $1 AND a.date = $2
		ORDER BY s.grade ASC, s.name ASC`
	var details []models.StudentAttendanceDetail
	if err := r.db.SelectContext(ctx, &details, query, schoolID, date); err != nil {
		return nil, fmt.Errorf("student attendance details: %w", err)
	}
	return details, nil
}

// TeacherDetails returns one day's teacher attendance joined with the
// roster, ordered by name.
func (r *AttendanceRepository) TeacherDetails(ctx context.Context, schoolID int64, date time.Time) ([]models.TeacherAttendanceDetail, error) {
	const query = `SELECT
			t.teacher_code, t.name, t.email, t.phone, t.subject,
			a.status, a.reason, a.excused, a.late_minutes, a.early_minutes
		FROM teacher_attendance a
		JOIN teachers t ON t.id = a.teacher_id
		WHERE a.school_id = $1 AND a.date = $2
		ORDER BY t.name ASC`
	var details []models.TeacherAttendanceDetail
	if err := r.db.SelectContext(ctx, &details, query, schoolID, date); err != nil {
		return nil, fmt.Errorf("teacher attendance details: %w", err)
	}
	return details, nil
}

// WeeklySummary buckets all recorded history into ISO weeks across every
// school, most recent week first. A week appears when either table has any
// row in it, even with zero absences, so recorded all-present weeks are not
// silently dropped.
func (r *AttendanceRepository) WeeklySummary(ctx context.Context) ([]models.WeeklyAttendanceRow, error) {
	query := `WITH all_dates AS (
			SELECT date FROM student_attendance
			UNION
			SELECT date FROM teacher_attendance
		),
		weeks AS (
			SELECT ` + yearWeekExpr + ` AS year_week,
				MIN(DATE_TRUNC('week', date))::DATE AS week_start
			FROM all_dates
			GROUP BY 1
		),
		student_absences AS (
			SELECT ` + yearWeekExpr + ` AS year_week, COUNT(*) AS absent_students
			FROM student_attendance
			WHERE ` + absentPredicate + `
			GROUP BY 1
		),
		teacher_absences AS (
			SELECT ` + yearWeekExpr + ` AS year_week, COUNT(*) AS absent_teachers
			FROM teacher_attendance
			WHERE ` + absentPredicate + `
			GROUP BY 1
		)
		SELECT
			w.year_week,
			w.week_start,
			COALESCE(s.absent_students, 0) AS absent_students,
			COALESCE(t.absent_teachers, 0) AS absent_teachers
		FROM weeks w
		LEFT JOIN student_absences s ON s.year_week = w.year_week
		LEFT JOIN teacher_absences t ON t.year_week = w.year_week
		ORDER BY w.year_week DESC`

	var rows []models.WeeklyAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("weekly attendance summary: %w", err)
	}
	return rows, nil
}

// Totals counts all-history absences on both sides.
func (r *AttendanceRepository) Totals(ctx context.Context) (*models.AttendanceTotals, error) {
	query := `SELECT
			(SELECT COUNT(*) FROM student_attendance WHERE ` + absentPredicate + `) AS absent_students,
			(SELECT COUNT(*) FROM teacher_attendance WHERE ` + absentPredicate + `) AS absent_teachers`
	var totals models.AttendanceTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("attendance totals: %w", err)
	}
	return &totals, nil
}
