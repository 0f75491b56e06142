package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
	"github.com/shule-labs/school-admin-api/pkg/export"
)

type reportRepository interface {
	CountStudents(ctx context.Context, schoolID int64) (int, error)
	CountTeachers(ctx context.Context, schoolID int64) (int, error)
	ResourceSums(ctx context.Context, schoolID int64) ([]models.SchoolReportResource, error)
	WeeklyStudentAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error)
	WeeklyTeacherAbsences(ctx context.Context, schoolID int64) ([]models.WeeklyAbsenceRow, error)
}

type reportSchoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	GetByID(ctx context.Context, id int64) (*models.School, error)
}

// ReportService builds per-school performance reports over full recorded
// history, with rule-based improvement suggestions.
type ReportService struct {
	repo    reportRepository
	schools reportSchoolRepository
	pdf     *export.SchoolReportPDF
	logger  *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, schools reportSchoolRepository, pdf *export.SchoolReportPDF, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewSchoolReportPDF()
	}
	return &ReportService{repo: repo, schools: schools, pdf: pdf, logger: logger}
}

// Schools lists the schools a report can be generated for.
func (s *ReportService) Schools(ctx context.Context) ([]models.School, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, nil
}

// Generate assembles the report for one school.
func (s *ReportService) Generate(ctx context.Context, schoolID int64) (*models.SchoolReport, error) {
	school, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrSchoolNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}

	var (
		totalStudents   int
		totalTeachers   int
		resources       []models.SchoolReportResource
		studentAbsences []models.WeeklyAbsenceRow
		teacherAbsences []models.WeeklyAbsenceRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalStudents, err = s.repo.CountStudents(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		totalTeachers, err = s.repo.CountTeachers(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		resources, err = s.repo.ResourceSums(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		studentAbsences, err = s.repo.WeeklyStudentAbsences(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		teacherAbsences, err = s.repo.WeeklyTeacherAbsences(gctx, schoolID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build school report")
	}

	report := &models.SchoolReport{
		School:                   *school,
		GeneratedAt:              time.Now().UTC(),
		TotalStudents:            totalStudents,
		TotalTeachers:            totalTeachers,
		AvgWeeklyStudentAbsences: meanWeeklyAbsences(studentAbsences),
		AvgWeeklyTeacherAbsences: meanWeeklyAbsences(teacherAbsences),
		Resources:                resources,
	}
	if totalTeachers > 0 {
		ratio := float64(totalStudents) / float64(totalTeachers)
		report.TeacherStudentRatio = &ratio
	}
	for i := range report.Resources {
		r := &report.Resources[i]
		if r.TotalBooks > 0 {
			perBook := float64(r.TotalStudents) / float64(r.TotalBooks)
			r.StudentsPerBook = &perBook
		}
	}
	report.Suggestions = buildSuggestions(report)

	return report, nil
}

// GeneratePDF renders the report as a downloadable PDF.
func (s *ReportService) GeneratePDF(ctx context.Context, schoolID int64) ([]byte, string, error) {
	report, err := s.Generate(ctx, schoolID)
	if err != nil {
		return nil, "", err
	}

	doc := export.SchoolReportDocument{
		SchoolName:               report.School.DisplayName(),
		GeneratedAt:              report.GeneratedAt,
		TotalStudents:            report.TotalStudents,
		TotalTeachers:            report.TotalTeachers,
		TeacherStudentRatio:      report.TeacherStudentRatio,
		AvgWeeklyStudentAbsences: report.AvgWeeklyStudentAbsences,
		AvgWeeklyTeacherAbsences: report.AvgWeeklyTeacherAbsences,
		Suggestions:              report.Suggestions,
	}
	for _, r := range report.Resources {
		subject := ""
		if r.SubjectName != nil {
			subject = *r.SubjectName
		}
		doc.Resources = append(doc.Resources, export.SchoolReportResourceLine{
			Subject:         subject,
			Grade:           r.Grade,
			TotalStudents:   r.TotalStudents,
			TotalBooks:      r.TotalBooks,
			StudentsPerBook: r.StudentsPerBook,
		})
	}

	payload, err := s.pdf.Render(doc)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report pdf")
	}

	filename := fmt.Sprintf("school-report-%d.pdf", schoolID)
	return payload, filename, nil
}

// meanWeeklyAbsences averages over weeks that have data; no weeks means 0.
func meanWeeklyAbsences(rows []models.WeeklyAbsenceRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0
	for _, row := range rows {
		sum += row.Absences
	}
	return float64(sum) / float64(len(rows))
}

// buildSuggestions applies the advisory thresholds: more than 5 students
// per book, more than 10 average weekly student absences, and a
// teacher-student ratio above 40.
func buildSuggestions(report *models.SchoolReport) []string {
	suggestions := []string{}

	for _, r := range report.Resources {
		if r.StudentsPerBook != nil && *r.StudentsPerBook > 5 {
			subject := "N/A"
			if r.SubjectName != nil && *r.SubjectName != "" {
				subject = *r.SubjectName
			}
			grade := r.Grade
			if grade == "" {
				grade = "-"
			}
			suggestions = append(suggestions, fmt.Sprintf(
				"Provide more books for subject %s in grade %s (students per book: %.2f).",
				subject, grade, *r.StudentsPerBook))
		}
	}

	if report.AvgWeeklyStudentAbsences > 10 {
		suggestions = append(suggestions,
			"Improve attendance through parental engagement (average student absences exceed 10 per week).")
	}

	if report.TeacherStudentRatio != nil && *report.TeacherStudentRatio > 40 {
		suggestions = append(suggestions,
			"Hire more teachers to balance the teacher-student ratio (currently above 40).")
	}

	return suggestions
}
