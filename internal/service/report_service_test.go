package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type mockReportRepo struct {
	students        int
	teachers        int
	resources       []models.SchoolReportResource
	studentAbsences []models.WeeklyAbsenceRow
	teacherAbsences []models.WeeklyAbsenceRow
}

func (m *mockReportRepo) CountStudents(ctx context.Context, schoolID int64) (int, error) {
	return m.students, nil
}

func (m *mockReportRepo) CountTeachers(ctx context.Context, schoolID int64) (int, error) {
	return m.teachers, nil
}

func (m *mockReportRepo) ResourceSums(ctx context.Context, schoolID int64) ([]models.SchoolReportResource, error) {
	return m.resources, nil
}

func (m *mockReportRepo) WeeklyStudentAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error) {
	return m.studentAbsences, nil
}

func (m *mockReportRepo) WeeklyTeacherAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error) {
	return m.teacherAbsences, nil
}

type mockReportSchoolRepo struct {
	school *models.School
	err    error
}

func (m *mockReportSchoolRepo) List(ctx context.Context) ([]models.School, error) {
	if m.school == nil {
		return nil, nil
	}
	return []models.School{*m.school}, nil
}

func (m *mockReportSchoolRepo) GetByID(ctx context.Context, id int64) (*models.School, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.school, nil
}

func strPtr(s string) *string { return &s }

func TestReportGenerateRatiosAndAverages(t *testing.T) {
	repo := &mockReportRepo{
		students: 200,
		teachers: 4,
		resources: []models.SchoolReportResource{
			{SubjectName: strPtr("Math"), Grade: "5", TotalStudents: 60, TotalBooks: 10},
			{SubjectName: strPtr("Science"), Grade: "6", TotalStudents: 30, TotalBooks: 0},
		},
		studentAbsences: []models.WeeklyAbsenceRow{{Absences: 12}, {Absences: 18}},
		teacherAbsences: []models.WeeklyAbsenceRow{{Absences: 1}},
	}
	schools := &mockReportSchoolRepo{school: &models.School{ID: 3, Username: "Green Hill"}}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	report, err := svc.Generate(context.Background(), 3)
	require.NoError(t, err)

	require.NotNil(t, report.TeacherStudentRatio)
	assert.InDelta(t, 50.0, *report.TeacherStudentRatio, 0.0001)
	assert.Equal(t, 15.0, report.AvgWeeklyStudentAbsences)
	assert.Equal(t, 1.0, report.AvgWeeklyTeacherAbsences)

	require.NotNil(t, report.Resources[0].StudentsPerBook)
	assert.InDelta(t, 6.0, *report.Resources[0].StudentsPerBook, 0.0001)
	assert.Nil(t, report.Resources[1].StudentsPerBook)
}

func TestReportGenerateSuggestions(t *testing.T) {
	repo := &mockReportRepo{
		students: 200,
		teachers: 4,
		resources: []models.SchoolReportResource{
			{SubjectName: strPtr("Math"), Grade: "5", TotalStudents: 60, TotalBooks: 10},
		},
		studentAbsences: []models.WeeklyAbsenceRow{{Absences: 12}, {Absences: 18}},
	}
	schools := &mockReportSchoolRepo{school: &models.School{ID: 3, Username: "Green Hill"}}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	report, err := svc.Generate(context.Background(), 3)
	require.NoError(t, err)

	require.Len(t, report.Suggestions, 3)
	assert.Equal(t, "Provide more books for subject Math in grade 5 (students per book: 6.00).", report.Suggestions[0])
	assert.Equal(t, "Improve attendance through parental engagement (average student absences exceed 10 per week).", report.Suggestions[1])
	assert.Equal(t, "Hire more teachers to balance the teacher-student ratio (currently above 40).", report.Suggestions[2])
}

func TestReportGenerateNoTeachersNoRatio(t *testing.T) {
	repo := &mockReportRepo{students: 50, teachers: 0}
	schools := &mockReportSchoolRepo{school: &models.School{ID: 3, Username: "Green Hill"}}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	report, err := svc.Generate(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, report.TeacherStudentRatio)
	assert.Empty(t, report.Suggestions)
}

func TestReportGenerateNilSubjectAndGradeFallbacks(t *testing.T) {
	repo := &mockReportRepo{
		students: 10,
		teachers: 2,
		resources: []models.SchoolReportResource{
			{SubjectName: nil, Grade: "", TotalStudents: 60, TotalBooks: 10},
		},
	}
	schools := &mockReportSchoolRepo{school: &models.School{ID: 3}}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	report, err := svc.Generate(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "Provide more books for subject N/A in grade - (students per book: 6.00).", report.Suggestions[0])
}

func TestReportGenerateSchoolNotFound(t *testing.T) {
	repo := &mockReportRepo{}
	schools := &mockReportSchoolRepo{err: sql.ErrNoRows}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	_, err := svc.Generate(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSchoolNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportGeneratePDF(t *testing.T) {
	repo := &mockReportRepo{students: 10, teachers: 2}
	schools := &mockReportSchoolRepo{school: &models.School{ID: 3, Username: "Green Hill"}}
	svc := NewReportService(repo, schools, nil, zap.NewNop())

	payload, filename, err := svc.GeneratePDF(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "school-report-3.pdf", filename)
	require.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestMeanWeeklyAbsences(t *testing.T) {
	assert.Equal(t, 0.0, meanWeeklyAbsences(nil))
	assert.Equal(t, 5.0, meanWeeklyAbsences([]models.WeeklyAbsenceRow{{Absences: 4}, {Absences: 6}}))
}
