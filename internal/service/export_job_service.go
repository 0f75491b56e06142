package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
	"github.com/shule-labs/school-admin-api/pkg/jobs"
)

const exportJobType = "export"

type exportJobRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, job *models.ExportJob) error
	ListQueued(ctx context.Context) ([]models.ExportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error)
}

// ExportJobService owns the asynchronous export lifecycle: it persists job
// records, dispatches work onto the queue, and tracks progress through to a
// signed download URL.
type ExportJobService struct {
	repo     exportJobRepository
	exporter *ExportService
	metrics  *MetricsService
	logger   *zap.Logger
	queue    *jobs.Queue
}

// NewExportJobService constructs the job service and its worker queue.
func NewExportJobService(repo exportJobRepository, exporter *ExportService, metrics *MetricsService, logger *zap.Logger, queueCfg jobs.QueueConfig) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportJobService{
		repo:     repo,
		exporter: exporter,
		metrics:  metrics,
		logger:   logger,
	}
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("exports", s.handleJob, queueCfg)
	return s
}

// Start launches the workers and requeues jobs left pending by a previous
// process.
func (s *ExportJobService) Start(ctx context.Context) {
	s.queue.Start(ctx)

	pending, err := s.repo.ListQueued(ctx)
	if err != nil {
		s.logger.Warn("failed to list pending export jobs", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.enqueue(job.ID); err != nil {
			s.logger.Warn("failed to requeue export job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// Stop drains the worker pool.
func (s *ExportJobService) Stop() {
	s.queue.Stop()
}

// Enqueue validates the request, persists a queued job, and dispatches it.
func (s *ExportJobService) Enqueue(ctx context.Context, userID int64, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	switch req.Type {
	case models.ExportTypeSchools:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export type")
	}
	switch req.Format {
	case models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatXLSX:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Format:    req.Format,
		Status:    models.ExportStatusQueued,
		Progress:  0,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.enqueue(job.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	s.logger.Info("export job queued",
		zap.String("job_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("format", string(job.Format)))

	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// Status reports job progress. Only the creator or an administrator may
// inspect a job.
func (s *ExportJobService) Status(ctx context.Context, id string, claims *models.JWTClaims) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	if claims != nil && job.CreatedBy != claims.UserID &&
		claims.Role != models.RoleAdmin && claims.Role != models.RoleITAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	return &dto.ExportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// Resolve validates a download token and opens the referenced file.
func (s *ExportJobService) Resolve(ctx context.Context, token string) (*models.ExportJob, string, error) {
	jobID, relPath, _, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export is not ready")
	}
	return job, relPath, nil
}

// CleanupExpired removes artifacts older than the configured TTL.
func (s *ExportJobService) CleanupExpired(ctx context.Context) {
	deleted, err := s.exporter.Cleanup(0)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("export artifacts cleaned", zap.Int("deleted", len(deleted)))
	}
}

// RunCleanupLoop triggers cleanup on an interval until the context ends.
func (s *ExportJobService) RunCleanupLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

func (s *ExportJobService) enqueue(jobID string) error {
	return s.queue.Enqueue(jobs.Job{ID: jobID, Type: exportJobType})
}

func (s *ExportJobService) handleJob(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.GetByID(ctx, queued.ID)
	if err != nil {
		return err
	}
	if job.Status == models.ExportStatusFinished {
		return nil
	}

	job.Status = models.ExportStatusRunning
	job.Progress = 10
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	result, err := s.exporter.Generate(ctx, job)
	now := time.Now().UTC()
	if err != nil {
		message := err.Error()
		job.Status = models.ExportStatusFailed
		job.ErrorMessage = &message
		job.FinishedAt = &now
		if updateErr := s.repo.Update(ctx, job); updateErr != nil {
			s.logger.Error("failed to mark export job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		if s.metrics != nil {
			s.metrics.RecordExportJob("failed")
		}
		s.logger.Error("export job failed", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}

	job.Status = models.ExportStatusFinished
	job.Progress = 100
	job.ResultURL = &result.URL
	job.FinishedAt = &now
	job.ErrorMessage = nil
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordExportJob("finished")
	}

	s.logger.Info("export job finished",
		zap.String("job_id", job.ID),
		zap.String("path", result.RelativePath))
	return nil
}
