package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

const weeklySummaryCacheKey = "attendance:weekly"

const dateLayout = "2006-01-02"

type attendanceRepository interface {
	InsertStudentBatch(ctx context.Context, records []models.StudentAttendance) error
	InsertTeacherBatch(ctx context.Context, records []models.TeacherAttendance) error
	StudentSessionDates(ctx context.Context, schoolID int64) ([]time.Time, error)
	TeacherSessionDates(ctx context.Context, schoolID int64) ([]time.Time, error)
	StudentDetails(ctx context.Context, schoolID int64, date time.Time) ([]models.StudentAttendanceDetail, error)
	TeacherDetails(ctx context.Context, schoolID int64, date time.Time) ([]models.TeacherAttendanceDetail, error)
	WeeklySummary(ctx context.Context) ([]models.WeeklyAttendanceRow, error)
	Totals(ctx context.Context) (*models.AttendanceTotals, error)
}

// AttendanceService records daily attendance and serves the cross-school
// weekly rollup.
type AttendanceService struct {
	repo      attendanceRepository
	cache     *CacheService
	analytics *AnalyticsService
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, cache *CacheService, analytics *AnalyticsService, logger *zap.Logger, cacheTTL time.Duration) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, cache: cache, analytics: analytics, logger: logger, cacheTTL: cacheTTL}
}

// WeeklySummary returns the all-history rollup bucketed by ISO week, plus
// grand totals. Weeks are labelled by their Monday-Sunday date range.
func (s *AttendanceService) WeeklySummary(ctx context.Context) (*dto.WeeklySummaryResponse, error) {
	var cached dto.WeeklySummaryResponse
	if hit, _ := s.cache.Get(ctx, weeklySummaryCacheKey, &cached); hit {
		return &cached, nil
	}

	weeks, err := s.repo.WeeklySummary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly summary")
	}
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance totals")
	}

	for i := range weeks {
		weeks[i].WeekLabel = weekLabel(weeks[i].WeekStart)
	}
	totals.Weeks = len(weeks)

	resp := &dto.WeeklySummaryResponse{Weeks: weeks, Totals: *totals}
	if err := s.cache.Set(ctx, weeklySummaryCacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache weekly summary", zap.Error(err))
	}
	return resp, nil
}

// MarkStudents records one day's attendance for a set of students. Statuses
// are normalized before storage; the whole batch is one transaction.
func (s *AttendanceService) MarkStudents(ctx context.Context, schoolID int64, req dto.MarkAttendanceRequest) (int, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	records := make([]models.StudentAttendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.StudentAttendance{
			StudentID:    entry.PersonID,
			SchoolID:     schoolID,
			Date:         date,
			Status:       string(models.NormalizeStatus(entry.Status)),
			Reason:       entry.Reason,
			Excused:      entry.Excused,
			LateMinutes:  entry.LateMinutes,
			EarlyMinutes: entry.EarlyMinutes,
		})
	}

	if err := s.repo.InsertStudentBatch(ctx, records); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record student attendance")
	}

	s.invalidate(ctx)
	return len(records), nil
}

// MarkTeachers records one day's attendance for a set of teachers.
func (s *AttendanceService) MarkTeachers(ctx context.Context, schoolID int64, req dto.MarkAttendanceRequest) (int, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	records := make([]models.TeacherAttendance, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.TeacherAttendance{
			TeacherID:    entry.PersonID,
			SchoolID:     schoolID,
			Date:         date,
			Status:       string(models.NormalizeStatus(entry.Status)),
			Reason:       entry.Reason,
			Excused:      entry.Excused,
			LateMinutes:  entry.LateMinutes,
			EarlyMinutes: entry.EarlyMinutes,
		})
	}

	if err := s.repo.InsertTeacherBatch(ctx, records); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record teacher attendance")
	}

	s.invalidate(ctx)
	return len(records), nil
}

// StudentSessions lists the dates a school recorded student attendance.
func (s *AttendanceService) StudentSessions(ctx context.Context, schoolID int64) (*dto.SessionList, error) {
	dates, err := s.repo.StudentSessionDates(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student sessions")
	}
	return formatSessions(dates), nil
}

// TeacherSessions lists the dates a school recorded teacher attendance.
func (s *AttendanceService) TeacherSessions(ctx context.Context, schoolID int64) (*dto.SessionList, error) {
	dates, err := s.repo.TeacherSessionDates(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher sessions")
	}
	return formatSessions(dates), nil
}

// StudentDetails returns one day's student attendance joined with the roster.
func (s *AttendanceService) StudentDetails(ctx context.Context, schoolID int64, rawDate string) ([]models.StudentAttendanceDetail, error) {
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	details, err := s.repo.StudentDetails(ctx, schoolID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student attendance details")
	}
	return details, nil
}

// TeacherDetails returns one day's teacher attendance joined with the roster.
func (s *AttendanceService) TeacherDetails(ctx context.Context, schoolID int64, rawDate string) ([]models.TeacherAttendanceDetail, error) {
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	details, err := s.repo.TeacherDetails(ctx, schoolID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher attendance details")
	}
	return details, nil
}

func (s *AttendanceService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "attendance:*"); err != nil {
		s.logger.Warn("failed to invalidate attendance cache", zap.Error(err))
	}
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
}

func formatSessions(dates []time.Time) *dto.SessionList {
	out := &dto.SessionList{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		out.Dates = append(out.Dates, d.Format(dateLayout))
	}
	return out
}

// weekLabel renders a Monday-start week as "Jan 2-Jan 8".
func weekLabel(monday time.Time) string {
	if monday.IsZero() {
		return ""
	}
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("Jan 2") + "-" + sunday.Format("Jan 2")
}
