package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
)

type mockAnalyticsRepo struct {
	headcounts    []models.SchoolHeadcount
	ratios        []models.ResourceRatioRow
	studentTrend  []models.DailyAttendanceTrend
	teacherTrend  []models.DailyAttendanceTrend
	studentCounts *models.AttendanceRateCounts
	teacherCounts *models.AttendanceRateCounts
	heatmap       []models.LatenessHeatmapCell
	absentees     []models.ChronicAbsentee
	overview      *models.OverviewStats
	trendErr      error
	lookbackSeen  int
}

func (m *mockAnalyticsRepo) SchoolHeadcounts(ctx context.Context) ([]models.SchoolHeadcount, error) {
	return m.headcounts, nil
}

func (m *mockAnalyticsRepo) ResourceRatios(ctx context.Context) ([]models.ResourceRatioRow, error) {
	return m.ratios, nil
}

func (m *mockAnalyticsRepo) StudentDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error) {
	m.lookbackSeen = lookbackDays
	if m.trendErr != nil {
		return nil, m.trendErr
	}
	return m.studentTrend, nil
}

func (m *mockAnalyticsRepo) TeacherDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error) {
	return m.teacherTrend, nil
}

func (m *mockAnalyticsRepo) StudentRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error) {
	return m.studentCounts, nil
}

func (m *mockAnalyticsRepo) TeacherRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error) {
	return m.teacherCounts, nil
}

func (m *mockAnalyticsRepo) LatenessHeatmap(ctx context.Context, lookbackDays int) ([]models.LatenessHeatmapCell, error) {
	return m.heatmap, nil
}

func (m *mockAnalyticsRepo) ChronicAbsentees(ctx context.Context, lookbackDays int) ([]models.ChronicAbsentee, error) {
	return m.absentees, nil
}

func (m *mockAnalyticsRepo) Overview(ctx context.Context) (*models.OverviewStats, error) {
	return m.overview, nil
}

func TestAnalyticsDashboard(t *testing.T) {
	repo := &mockAnalyticsRepo{
		headcounts: []models.SchoolHeadcount{
			{SchoolID: 1, SchoolName: "Green Hill", TotalStudents: 120, TotalTeachers: 8},
			{SchoolID: 2, SchoolName: "", TotalStudents: 45, TotalTeachers: 3},
		},
		studentCounts: &models.AttendanceRateCounts{Present: 90, Absent: 10, Unknown: 5},
		teacherCounts: &models.AttendanceRateCounts{},
		ratios: []models.ResourceRatioRow{
			{SchoolID: 1, SchoolName: "Green Hill", Grade: "5", TotalStudents: 60, TotalBooks: 10},
			{SchoolID: 9, SchoolName: "", Grade: "6", TotalStudents: 30, TotalBooks: 5},
		},
		absentees: []models.ChronicAbsentee{
			{Name: "Amina", Grade: "5", SchoolID: 9, SchoolName: "", AbsentDays: 6},
		},
	}
	svc := NewAnalyticsService(repo, nil, nil, zap.NewNop(), 30, 0)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, resp.LookbackDays)
	assert.Equal(t, 30, repo.lookbackSeen)

	assert.Equal(t, []string{"Green Hill", "School #2"}, resp.ChartData.Labels)
	assert.Equal(t, []int{120, 45}, resp.ChartData.Values)

	assert.Equal(t, 90.0, resp.AttendanceRates.Students.Rate)
	assert.Equal(t, 5, resp.AttendanceRates.Students.Unknown)
	assert.Equal(t, 0.0, resp.AttendanceRates.Teachers.Rate)

	assert.Equal(t, "Green Hill", resp.ResourceRatios[0].SchoolName)
	assert.Equal(t, "School #9", resp.ResourceRatios[1].SchoolName)
	assert.Equal(t, "School #9", resp.ChronicAbsentees[0].SchoolName)
}

func TestAnalyticsDashboardAggregationFailure(t *testing.T) {
	repo := &mockAnalyticsRepo{trendErr: errors.New("boom")}
	svc := NewAnalyticsService(repo, nil, nil, zap.NewNop(), 30, 0)

	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)
}

func TestAnalyticsDashboardDefaultLookback(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	svc := NewAnalyticsService(repo, nil, nil, zap.NewNop(), 0, 0)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, resp.LookbackDays)
}

func TestAnalyticsOverview(t *testing.T) {
	repo := &mockAnalyticsRepo{overview: &models.OverviewStats{Schools: 3, Students: 400, Teachers: 25, Resources: 60}}
	svc := NewAnalyticsService(repo, nil, nil, zap.NewNop(), 30, 0)

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Schools)
	assert.Equal(t, 400, stats.Students)
}

func TestBuildRate(t *testing.T) {
	rate := buildRate(&models.AttendanceRateCounts{Present: 2, Absent: 1, Unknown: 7})
	assert.InDelta(t, 66.7, rate.Rate, 0.0001)
	assert.Equal(t, 7, rate.Unknown)

	zero := buildRate(&models.AttendanceRateCounts{Unknown: 4})
	assert.Equal(t, 0.0, zero.Rate)
	assert.Equal(t, 4, zero.Unknown)

	assert.Equal(t, 0.0, buildRate(nil).Rate)
}
