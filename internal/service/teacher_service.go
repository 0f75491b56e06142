package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error)
	GetByID(ctx context.Context, schoolID, id int64) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, schoolID, id int64) error
}

// TeacherService manages a school's teacher roster.
type TeacherService struct {
	repo      teacherRepository
	analytics *AnalyticsService
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, analytics *AnalyticsService, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, analytics: analytics, logger: logger}
}

// List returns teachers matching the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get loads one teacher.
func (s *TeacherService) Get(ctx context.Context, schoolID, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.GetByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create stores a new teacher.
func (s *TeacherService) Create(ctx context.Context, teacher *models.Teacher) error {
	if err := s.repo.Create(ctx, teacher); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.invalidate(ctx)
	return nil
}

// Update rewrites a teacher owned by the school.
func (s *TeacherService) Update(ctx context.Context, teacher *models.Teacher) error {
	if err := s.repo.Update(ctx, teacher); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a teacher owned by the school.
func (s *TeacherService) Delete(ctx context.Context, schoolID, id int64) error {
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	s.invalidate(ctx)
	return nil
}

func (s *TeacherService) invalidate(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
}
