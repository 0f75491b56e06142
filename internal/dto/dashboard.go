package dto

import "github.com/shule-labs/school-admin-api/internal/models"

// AttendanceRate is one side (students or teachers) of the window rate.
// Rate is a percentage rounded to one decimal and is 0 when present+absent
// is 0.
type AttendanceRate struct {
	Rate    float64 `json:"rate"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Unknown int     `json:"unknown"`
}

// AttendanceRates groups student and teacher window rates.
type AttendanceRates struct {
	Students AttendanceRate `json:"students"`
	Teachers AttendanceRate `json:"teachers"`
}

// AttendanceTrends groups daily trends per population.
type AttendanceTrends struct {
	Students []models.DailyAttendanceTrend `json:"students"`
	Teachers []models.DailyAttendanceTrend `json:"teachers"`
}

// ChartData is the ready-to-plot headcount series for the dashboard chart.
type ChartData struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// AnalyticsDashboardResponse is the full admin analytics view model. All
// sections cover the same fixed lookback window except TeacherStudent and
// ResourceRatios, which span the whole dataset.
type AnalyticsDashboardResponse struct {
	LookbackDays     int                          `json:"lookback_days"`
	TeacherStudent   []models.SchoolHeadcount     `json:"teacher_student"`
	ResourceRatios   []models.ResourceRatioRow    `json:"resource_ratios"`
	ChartData        ChartData                    `json:"chart_data"`
	AttendanceTrend  AttendanceTrends             `json:"attendance_trend"`
	AttendanceRates  AttendanceRates              `json:"attendance_rates"`
	LatenessHeatmap  []models.LatenessHeatmapCell `json:"lateness_heatmap"`
	ChronicAbsentees []models.ChronicAbsentee     `json:"chronic_absentees"`
}
