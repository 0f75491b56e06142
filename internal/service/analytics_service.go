package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

const (
	dashboardCacheKey = "analytics:dashboard"
	overviewCacheKey  = "analytics:overview"
)

type analyticsRepository interface {
	SchoolHeadcounts(ctx context.Context) ([]models.SchoolHeadcount, error)
	ResourceRatios(ctx context.Context) ([]models.ResourceRatioRow, error)
	StudentDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error)
	TeacherDailyTrend(ctx context.Context, lookbackDays int) ([]models.DailyAttendanceTrend, error)
	StudentRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error)
	TeacherRateCounts(ctx context.Context, lookbackDays int) (*models.AttendanceRateCounts, error)
	LatenessHeatmap(ctx context.Context, lookbackDays int) ([]models.LatenessHeatmapCell, error)
	ChronicAbsentees(ctx context.Context, lookbackDays int) ([]models.ChronicAbsentee, error)
	Overview(ctx context.Context) (*models.OverviewStats, error)
}

// AnalyticsService assembles the admin dashboard from independent
// aggregations run concurrently. A failure in any aggregation fails the
// whole dashboard rather than serving a partially populated view.
type AnalyticsService struct {
	repo         analyticsRepository
	cache        *CacheService
	metrics      *MetricsService
	logger       *zap.Logger
	lookbackDays int
	cacheTTL     time.Duration
}

// NewAnalyticsService constructs the analytics service.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, lookbackDays int, cacheTTL time.Duration) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &AnalyticsService{
		repo:         repo,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		lookbackDays: lookbackDays,
		cacheTTL:     cacheTTL,
	}
}

// Dashboard builds the full analytics view over the lookback window.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*dto.AnalyticsDashboardResponse, error) {
	var cached dto.AnalyticsDashboardResponse
	if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
		return &cached, nil
	}

	start := time.Now()

	var (
		headcounts    []models.SchoolHeadcount
		ratios        []models.ResourceRatioRow
		studentTrend  []models.DailyAttendanceTrend
		teacherTrend  []models.DailyAttendanceTrend
		studentCounts *models.AttendanceRateCounts
		teacherCounts *models.AttendanceRateCounts
		heatmap       []models.LatenessHeatmapCell
		absentees     []models.ChronicAbsentee
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		headcounts, err = s.repo.SchoolHeadcounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		ratios, err = s.repo.ResourceRatios(gctx)
		return err
	})
	g.Go(func() (err error) {
		studentTrend, err = s.repo.StudentDailyTrend(gctx, s.lookbackDays)
		return err
	})
	g.Go(func() (err error) {
		teacherTrend, err = s.repo.TeacherDailyTrend(gctx, s.lookbackDays)
		return err
	})
	g.Go(func() (err error) {
		studentCounts, err = s.repo.StudentRateCounts(gctx, s.lookbackDays)
		return err
	})
	g.Go(func() (err error) {
		teacherCounts, err = s.repo.TeacherRateCounts(gctx, s.lookbackDays)
		return err
	})
	g.Go(func() (err error) {
		heatmap, err = s.repo.LatenessHeatmap(gctx, s.lookbackDays)
		return err
	})
	g.Go(func() (err error) {
		absentees, err = s.repo.ChronicAbsentees(gctx, s.lookbackDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build analytics dashboard")
	}

	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_dashboard", time.Since(start))
	}

	for i := range ratios {
		if ratios[i].SchoolName == "" {
			ratios[i].SchoolName = models.FallbackSchoolName(ratios[i].SchoolID)
		}
	}
	for i := range absentees {
		if absentees[i].SchoolName == "" {
			absentees[i].SchoolName = models.FallbackSchoolName(absentees[i].SchoolID)
		}
	}

	resp := &dto.AnalyticsDashboardResponse{
		LookbackDays:   s.lookbackDays,
		TeacherStudent: headcounts,
		ResourceRatios: ratios,
		ChartData:      buildChartData(headcounts),
		AttendanceTrend: dto.AttendanceTrends{
			Students: studentTrend,
			Teachers: teacherTrend,
		},
		AttendanceRates: dto.AttendanceRates{
			Students: buildRate(studentCounts),
			Teachers: buildRate(teacherCounts),
		},
		LatenessHeatmap:  heatmap,
		ChronicAbsentees: absentees,
	}

	if err := s.cache.Set(ctx, dashboardCacheKey, resp, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache analytics dashboard", zap.Error(err))
	}
	return resp, nil
}

// Overview returns the landing page entity counts.
func (s *AnalyticsService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	var cached models.OverviewStats
	if hit, _ := s.cache.Get(ctx, overviewCacheKey, &cached); hit {
		return &cached, nil
	}

	stats, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overview stats")
	}

	if err := s.cache.Set(ctx, overviewCacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache overview stats", zap.Error(err))
	}
	return stats, nil
}

// InvalidateCache drops cached analytics payloads after writes that change
// the underlying data.
func (s *AnalyticsService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
		s.logger.Warn("failed to invalidate analytics cache", zap.Error(err))
	}
}

// buildRate turns raw counters into a percentage over present+absent.
// Unknown rows count on neither side; a zero denominator yields rate 0.
func buildRate(counts *models.AttendanceRateCounts) dto.AttendanceRate {
	if counts == nil {
		return dto.AttendanceRate{}
	}
	rate := dto.AttendanceRate{
		Present: counts.Present,
		Absent:  counts.Absent,
		Unknown: counts.Unknown,
	}
	total := counts.Present + counts.Absent
	if total > 0 {
		rate.Rate = math.Round(float64(counts.Present)/float64(total)*1000) / 10
	}
	return rate
}

func buildChartData(headcounts []models.SchoolHeadcount) dto.ChartData {
	chart := dto.ChartData{
		Labels: make([]string, 0, len(headcounts)),
		Values: make([]int, 0, len(headcounts)),
	}
	for _, hc := range headcounts {
		name := hc.SchoolName
		if name == "" {
			name = models.FallbackSchoolName(hc.SchoolID)
		}
		chart.Labels = append(chart.Labels, name)
		chart.Values = append(chart.Values, hc.TotalStudents)
	}
	return chart
}
