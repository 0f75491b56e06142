package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
	"github.com/shule-labs/school-admin-api/pkg/storage"
)

type schoolAccountsStub struct{}

func (schoolAccountsStub) ListAccounts(ctx context.Context) ([]models.User, error) {
	return []models.User{
		{ID: 1, Username: "greenhill", Role: models.RoleSchool},
		{ID: 2, Username: "riverside", Role: models.RoleSchool},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(schoolAccountsStub{}, store, signer, cfg, zap.NewNop(), nil, nil, nil)
	return svc, store
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{ID: "job-1", Type: models.ExportTypeSchools, Format: models.ExportFormatCSV}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/api/v1/exports/download/")

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", jobID)
	require.Equal(t, result.RelativePath, relPath)
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{ID: "job-2", Type: models.ExportTypeSchools, Format: models.ExportFormatPDF}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ExportFormatPDF, result.Format)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateXLSX(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{ID: "job-3", Type: models.ExportTypeSchools, Format: models.ExportFormatXLSX}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRenderNow(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	filename, payload, err := svc.RenderNow(context.Background(), models.ExportTypeSchools, models.ExportFormatCSV)
	require.NoError(t, err)
	require.Contains(t, filename, "schools_")
	require.Contains(t, string(payload), "greenhill")

	_, _, err = svc.RenderNow(context.Background(), models.ExportTypeSchools, "docx")
	require.Error(t, err)
}

func TestExportServiceGenerateUnsupportedType(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ExportJob{ID: "job-4", Type: "UNKNOWN", Format: models.ExportFormatCSV}

	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
