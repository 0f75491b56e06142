package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type resourceRepository interface {
	ListBySchool(ctx context.Context, schoolID int64) ([]models.Resource, error)
	Create(ctx context.Context, resource *models.Resource) error
	Update(ctx context.Context, resource *models.Resource) error
	Delete(ctx context.Context, schoolID, id int64) error
	SubjectSummary(ctx context.Context) ([]models.ResourceSubjectSummary, error)
	GrandTotals(ctx context.Context) (*models.ResourceGrandTotals, error)
}

// ResourceService manages a school's resource inventory and serves the
// cross-school subject summary.
type ResourceService struct {
	repo      resourceRepository
	analytics *AnalyticsService
	logger    *zap.Logger
}

// NewResourceService constructs the resource service.
func NewResourceService(repo resourceRepository, analytics *AnalyticsService, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{repo: repo, analytics: analytics, logger: logger}
}

// List returns one school's resource rows.
func (s *ResourceService) List(ctx context.Context, schoolID int64) ([]models.Resource, error) {
	resources, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}
	return resources, nil
}

// Create stores a new resource row for the school.
func (s *ResourceService) Create(ctx context.Context, resource *models.Resource) error {
	if err := s.repo.Create(ctx, resource); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create resource")
	}
	s.invalidate(ctx)
	return nil
}

// Update rewrites a resource row owned by the school.
func (s *ResourceService) Update(ctx context.Context, resource *models.Resource) error {
	if err := s.repo.Update(ctx, resource); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update resource")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a resource row owned by the school.
func (s *ResourceService) Delete(ctx context.Context, schoolID, id int64) error {
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete resource")
	}
	s.invalidate(ctx)
	return nil
}

// Summary aggregates the whole resources table by subject, with grand
// totals for the footer row.
func (s *ResourceService) Summary(ctx context.Context) (*dto.ResourceSummaryResponse, error) {
	subjects, err := s.repo.SubjectSummary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarize resources")
	}
	totals, err := s.repo.GrandTotals(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			totals = &models.ResourceGrandTotals{}
		} else {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total resources")
		}
	}
	return &dto.ResourceSummaryResponse{Subjects: subjects, Totals: *totals}, nil
}

func (s *ResourceService) invalidate(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
}
