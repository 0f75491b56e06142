package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	GetByID(ctx context.Context, id int64) (*models.School, error)
	Delete(ctx context.Context, id int64) error
	ListAccounts(ctx context.Context) ([]models.User, error)
}

// SchoolService administers school accounts.
type SchoolService struct {
	repo      schoolRepository
	analytics *AnalyticsService
	logger    *zap.Logger
}

// NewSchoolService constructs the school service.
func NewSchoolService(repo schoolRepository, analytics *AnalyticsService, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, analytics: analytics, logger: logger}
}

// List returns every school account.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, nil
}

// Get returns one school account.
func (s *SchoolService) Get(ctx context.Context, id int64) (*models.School, error) {
	school, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSchoolNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

// Delete removes a school account after confirming it exists.
func (s *SchoolService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}

	s.logger.Info("school deleted", zap.Int64("school_id", id))
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
	return nil
}

// Accounts returns full user rows for every school, used by exports.
func (s *SchoolService) Accounts(ctx context.Context) ([]models.User, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list school accounts")
	}
	return accounts, nil
}
