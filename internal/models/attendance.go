package models

import (
	"strings"
	"time"
)

// AttendanceStatus is the normalized daily attendance state. Raw status
// strings are compared case-insensitively after trimming; anything that is
// not present/absent normalizes to Unknown and is never counted on either
// side of a rate.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusUnknown AttendanceStatus = "unknown"
)

// NormalizeStatus maps a raw status string onto the canonical enum.
func NormalizeStatus(raw string) AttendanceStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present":
		return StatusPresent
	case "absent":
		return StatusAbsent
	default:
		return StatusUnknown
	}
}

// StudentAttendance is one student_attendance row. Duplicate same-day rows
// per student are possible and both count.
type StudentAttendance struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	SchoolID     int64     `db:"school_id" json:"school_id"`
	Date         time.Time `db:"date" json:"date"`
	Status       string    `db:"status" json:"status"`
	Reason       string    `db:"reason" json:"reason"`
	Excused      bool      `db:"excused" json:"excused"`
	LateMinutes  int       `db:"late_minutes" json:"late_minutes"`
	EarlyMinutes int       `db:"early_minutes" json:"early_minutes"`
}

// TeacherAttendance is one teacher_attendance row.
type TeacherAttendance struct {
	ID           int64     `db:"id" json:"id"`
	TeacherID    int64     `db:"teacher_id" json:"teacher_id"`
	SchoolID     int64     `db:"school_id" json:"school_id"`
	Date         time.Time `db:"date" json:"date"`
	Status       string    `db:"status" json:"status"`
	Reason       string    `db:"reason" json:"reason"`
	Excused      bool      `db:"excused" json:"excused"`
	LateMinutes  int       `db:"late_minutes" json:"late_minutes"`
	EarlyMinutes int       `db:"early_minutes" json:"early_minutes"`
}

// StudentAttendanceDetail joins a day's record with the student roster row.
type StudentAttendanceDetail struct {
	Name         string `db:"name" json:"name"`
	Grade        string `db:"grade" json:"grade"`
	Class        string `db:"student_class" json:"student_class"`
	Status       string `db:"status" json:"status"`
	Reason       string `db:"reason" json:"reason"`
	Excused      bool   `db:"excused" json:"excused"`
	LateMinutes  int    `db:"late_minutes" json:"late_minutes"`
	EarlyMinutes int    `db:"early_minutes" json:"early_minutes"`
}

// TeacherAttendanceDetail joins a day's record with the teacher roster row.
type TeacherAttendanceDetail struct {
	TeacherCode  string `db:"teacher_code" json:"teacher_code"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone"`
	Subject      string `db:"subject" json:"subject"`
	Status       string `db:"status" json:"status"`
	Reason       string `db:"reason" json:"reason"`
	Excused      bool   `db:"excused" json:"excused"`
	LateMinutes  int    `db:"late_minutes" json:"late_minutes"`
	EarlyMinutes int    `db:"early_minutes" json:"early_minutes"`
}

// WeeklyAttendanceRow is one ISO week bucket in the cross-school rollup.
// YearWeek is isoyear*100+isoweek (Monday-start weeks); WeekStart is that
// week's Monday.
type WeeklyAttendanceRow struct {
	YearWeek       int       `db:"year_week" json:"year_week"`
	WeekStart      time.Time `db:"week_start" json:"-"`
	WeekLabel      string    `json:"week_label"`
	AbsentStudents int       `db:"absent_students" json:"absent_students"`
	AbsentTeachers int       `db:"absent_teachers" json:"absent_teachers"`
}

// AttendanceTotals carries the all-history grand totals for the rollup.
type AttendanceTotals struct {
	Weeks          int `json:"weeks"`
	AbsentStudents int `db:"absent_students" json:"absent_students"`
	AbsentTeachers int `db:"absent_teachers" json:"absent_teachers"`
}

// WeeklyAbsenceRow is a per-school weekly absence count used by report
// generation (full history, no lookback).
type WeeklyAbsenceRow struct {
	YearWeek int `db:"year_week"`
	Absences int `db:"absences"`
}
