package dto

import "github.com/shule-labs/school-admin-api/internal/models"

// WeeklySummaryResponse is the cross-school weekly attendance rollup.
type WeeklySummaryResponse struct {
	Weeks  []models.WeeklyAttendanceRow `json:"weeks"`
	Totals models.AttendanceTotals      `json:"totals"`
}

// AttendanceEntry is one person's mark inside a manual batch submission.
type AttendanceEntry struct {
	PersonID     int64  `json:"person_id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	Reason       string `json:"reason"`
	Excused      bool   `json:"excused"`
	LateMinutes  int    `json:"late_minutes"`
	EarlyMinutes int    `json:"early_minutes"`
}

// MarkAttendanceRequest records a day's attendance for a set of people.
type MarkAttendanceRequest struct {
	Date    string            `json:"date" binding:"required"`
	Grade   string            `json:"grade"`
	Class   string            `json:"class"`
	Entries []AttendanceEntry `json:"entries" binding:"required"`
}

// ImportResult reports the outcome of a CSV attendance import.
type ImportResult struct {
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`
	UnknownCodes []string `json:"unknown_codes,omitempty"`
}

// SessionList carries the distinct attendance dates for a school.
type SessionList struct {
	Dates []string `json:"dates"`
}
