package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// ExportJobRepository persists the lifecycle of asynchronous export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository instantiates the repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

const exportJobColumns = "id, type, format, status, progress, result_url, created_by, created_at, finished_at, error_message"

// Create inserts a freshly queued job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	const query = `INSERT INTO export_jobs (id, type, format, status, progress, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Format, job.Status, job.Progress, job.CreatedBy, job.CreatedAt,
	); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// GetByID loads one job.
func (r *ExportJobRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := "SELECT " + exportJobColumns + " FROM export_jobs WHERE id = $1"
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get export job %s: %w", id, err)
	}
	return &job, nil
}

// Update rewrites a job's mutable lifecycle fields.
func (r *ExportJobRepository) Update(ctx context.Context, job *models.ExportJob) error {
	const query = `UPDATE export_jobs
		SET status = $1, progress = $2, result_url = $3, finished_at = $4, error_message = $5
		WHERE id = $6`
	if _, err := r.db.ExecContext(ctx, query,
		job.Status, job.Progress, job.ResultURL, job.FinishedAt, job.ErrorMessage, job.ID,
	); err != nil {
		return fmt.Errorf("update export job %s: %w", job.ID, err)
	}
	return nil
}

// ListQueued returns jobs still waiting for a worker, oldest first. Used on
// startup to requeue work that was pending when the process stopped.
func (r *ExportJobRepository) ListQueued(ctx context.Context) ([]models.ExportJob, error) {
	query := "SELECT " + exportJobColumns + " FROM export_jobs WHERE status = $1 ORDER BY created_at ASC"
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, models.ExportStatusQueued); err != nil {
		return nil, fmt.Errorf("list queued export jobs: %w", err)
	}
	return jobs, nil
}

// ListFinishedBefore returns finished or failed jobs older than the cutoff,
// for cleanup of expired artifacts.
func (r *ExportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time) ([]models.ExportJob, error) {
	query := "SELECT " + exportJobColumns + ` FROM export_jobs
		WHERE status IN ($1, $2) AND finished_at IS NOT NULL AND finished_at < $3
		ORDER BY finished_at ASC`
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, models.ExportStatusFinished, models.ExportStatusFailed, cutoff); err != nil {
		return nil, fmt.Errorf("list finished export jobs: %w", err)
	}
	return jobs, nil
}
