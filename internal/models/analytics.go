package models

import "time"

// SchoolHeadcount carries per-school student and teacher totals.
type SchoolHeadcount struct {
	SchoolID      int64  `db:"school_id" json:"school_id"`
	SchoolName    string `db:"school_name" json:"school_name"`
	TotalStudents int    `db:"total_students" json:"total_students"`
	TotalTeachers int    `db:"total_teachers" json:"total_teachers"`
}

// ResourceRatioRow aggregates resource rows per (school, subject, grade).
type ResourceRatioRow struct {
	SchoolID      int64   `db:"school_id" json:"school_id"`
	SchoolName    string  `db:"school_name" json:"school_name"`
	SubjectName   *string `db:"subject_name" json:"subject_name"`
	Grade         string  `db:"grade" json:"grade"`
	TotalStudents int     `db:"total_students" json:"total_students"`
	TotalBooks    int     `db:"total_books" json:"total_books"`
}

// DailyAttendanceTrend is one day's present/absent counts inside the
// lookback window.
type DailyAttendanceTrend struct {
	Date    time.Time `db:"date" json:"date"`
	Present int       `db:"present" json:"present"`
	Absent  int       `db:"absent" json:"absent"`
}

// AttendanceRateCounts holds the raw counters behind a rate percentage.
// Unknown rows are excluded from both sides of the rate but surfaced so the
// undercount stays visible.
type AttendanceRateCounts struct {
	Present int `db:"present" json:"present"`
	Absent  int `db:"absent" json:"absent"`
	Unknown int `db:"unknown" json:"unknown"`
}

// LatenessHeatmapCell sums late/early minutes for one weekday bucket,
// Monday=0 through Sunday=6.
type LatenessHeatmapCell struct {
	Weekday    int `db:"weekday" json:"weekday"`
	TotalLate  int `db:"total_late" json:"total_late"`
	TotalEarly int `db:"total_early" json:"total_early"`
}

// ChronicAbsentee is a student with at least three absences inside the
// lookback window.
type ChronicAbsentee struct {
	Name        string `db:"name" json:"name"`
	Grade       string `db:"grade" json:"grade"`
	Class       string `db:"student_class" json:"student_class"`
	SchoolID    int64  `db:"school_id" json:"school_id"`
	SchoolName  string `db:"school_name" json:"school_name"`
	AbsentDays  int    `db:"absent_days" json:"absent_days"`
	ExcusedDays int    `db:"excused_days" json:"excused_days"`
}

// OverviewStats are the plain entity counts on the admin landing page.
type OverviewStats struct {
	Schools   int `json:"schools"`
	Students  int `json:"students"`
	Teachers  int `json:"teachers"`
	Resources int `json:"resources"`
}
