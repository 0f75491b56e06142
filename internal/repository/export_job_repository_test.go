package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shule-labs/school-admin-api/internal/models"
)

func TestExportJobRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	created := time.Now().UTC()
	mock.ExpectExec("INSERT INTO export_jobs").
		WithArgs("job-1", models.ExportTypeSchools, models.ExportFormatCSV, models.ExportStatusQueued, 0, int64(9), created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.ExportJob{
		ID:        "job-1",
		Type:      models.ExportTypeSchools,
		Format:    models.ExportFormatCSV,
		Status:    models.ExportStatusQueued,
		CreatedBy: 9,
		CreatedAt: created,
	})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "type", "format", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "SCHOOLS", "csv", "QUEUED", 0, nil, 9, created, nil, nil)
	mock.ExpectQuery("FROM export_jobs WHERE id").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := repo.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Nil(t, job.ResultURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	url := "/api/v1/exports/download/token"
	finished := time.Now().UTC()
	mock.ExpectExec("UPDATE export_jobs").
		WithArgs(models.ExportStatusFinished, 100, &url, &finished, nil, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.ExportJob{
		ID:         "job-1",
		Status:     models.ExportStatusFinished,
		Progress:   100,
		ResultURL:  &url,
		FinishedAt: &finished,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	rows := sqlmock.NewRows([]string{"id", "type", "format", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message"}).
		AddRow("job-1", "SCHOOLS", "csv", "QUEUED", 0, nil, 9, time.Now(), nil, nil)
	mock.ExpectQuery("FROM export_jobs WHERE status").
		WithArgs(models.ExportStatusQueued).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
