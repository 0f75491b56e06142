package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	GetByID(ctx context.Context, schoolID, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, schoolID, id int64) error
	Grades(ctx context.Context, schoolID int64) ([]string, error)
	Classes(ctx context.Context, schoolID int64, grade string) ([]string, error)
}

// StudentService manages a school's student roster.
type StudentService struct {
	repo      studentRepository
	analytics *AnalyticsService
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, analytics *AnalyticsService, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, analytics: analytics, logger: logger}
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get loads one student.
func (s *StudentService) Get(ctx context.Context, schoolID, id int64) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create stores a new student.
func (s *StudentService) Create(ctx context.Context, student *models.Student) error {
	if err := s.repo.Create(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidate(ctx)
	return nil
}

// Update rewrites a student owned by the school.
func (s *StudentService) Update(ctx context.Context, student *models.Student) error {
	if err := s.repo.Update(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a student owned by the school.
func (s *StudentService) Delete(ctx context.Context, schoolID, id int64) error {
	if err := s.repo.Delete(ctx, schoolID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidate(ctx)
	return nil
}

// Grades lists the distinct grades present for one school.
func (s *StudentService) Grades(ctx context.Context, schoolID int64) ([]string, error) {
	grades, err := s.repo.Grades(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Classes lists the distinct classes for one school and grade.
func (s *StudentService) Classes(ctx context.Context, schoolID int64, grade string) ([]string, error) {
	classes, err := s.repo.Classes(ctx, schoolID, grade)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
}
