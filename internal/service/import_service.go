package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shule-labs/school-admin-api/internal/dto"
	"github.com/shule-labs/school-admin-api/internal/models"
	appErrors "github.com/shule-labs/school-admin-api/pkg/errors"
)

type importStudentRepository interface {
	BulkInsert(ctx context.Context, students []models.Student) error
}

type importTeacherRepository interface {
	BulkInsert(ctx context.Context, teachers []models.Teacher) error
	CodeMap(ctx context.Context, schoolID int64) (map[string]int64, error)
}

type importAttendanceRepository interface {
	InsertStudentBatch(ctx context.Context, records []models.StudentAttendance) error
	InsertTeacherBatch(ctx context.Context, records []models.TeacherAttendance) error
}

// ImportService parses CSV uploads into roster and attendance batches.
// Malformed rows are skipped at parse time and counted; once parsing
// succeeds the surviving batch is inserted in a single transaction, so a
// database failure never leaves a half-imported file behind.
type ImportService struct {
	students   importStudentRepository
	teachers   importTeacherRepository
	attendance importAttendanceRepository
	analytics  *AnalyticsService
	logger     *zap.Logger
}

// NewImportService constructs the import service.
func NewImportService(students importStudentRepository, teachers importTeacherRepository, attendance importAttendanceRepository, analytics *AnalyticsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{students: students, teachers: teachers, attendance: attendance, analytics: analytics, logger: logger}
}

// ImportStudents loads a student roster CSV. Rows without a name are
// skipped; an upload with no usable rows is rejected.
func (s *ImportService) ImportStudents(ctx context.Context, schoolID int64, r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	batch := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		name := row.get("name")
		if name == "" {
			result.Skipped++
			continue
		}
		batch = append(batch, models.Student{
			Name:        name,
			Grade:       row.get("grade"),
			Class:       row.get("class", "student_class"),
			Gender:      row.get("gender"),
			StudentCode: row.get("student_code", "code"),
			SchoolID:    schoolID,
		})
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	if err := s.students.BulkInsert(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import students")
	}
	result.Inserted = len(batch)

	s.logger.Info("imported students",
		zap.Int64("school_id", schoolID),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	s.invalidate(ctx)
	return result, nil
}

// ImportTeachers loads a teacher roster CSV. Rows without a name are
// skipped.
func (s *ImportService) ImportTeachers(ctx context.Context, schoolID int64, r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	batch := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		name := row.get("name")
		if name == "" {
			result.Skipped++
			continue
		}
		batch = append(batch, models.Teacher{
			Name:        name,
			Subject:     row.get("subject"),
			Gender:      row.get("gender"),
			Email:       row.get("email"),
			Phone:       row.get("phone"),
			TeacherCode: row.get("teacher_code", "code"),
			SchoolID:    schoolID,
		})
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	if err := s.teachers.BulkInsert(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import teachers")
	}
	result.Inserted = len(batch)

	s.logger.Info("imported teachers",
		zap.Int64("school_id", schoolID),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	s.invalidate(ctx)
	return result, nil
}

// ImportStudentAttendance loads a student attendance CSV keyed by student
// id. Rows missing an id or status are skipped. A date column is optional;
// rows without one are stamped with the upload day, matching a same-day
// register upload.
func (s *ImportService) ImportStudentAttendance(ctx context.Context, schoolID int64, r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &dto.ImportResult{}
	batch := make([]models.StudentAttendance, 0, len(rows))
	for _, row := range rows {
		studentID, idErr := strconv.ParseInt(row.get("student_id", "id"), 10, 64)
		date, dateErr := rowDate(row)
		status := row.get("status")
		if idErr != nil || dateErr != nil || status == "" {
			result.Skipped++
			continue
		}
		batch = append(batch, models.StudentAttendance{
			StudentID:    studentID,
			SchoolID:     schoolID,
			Date:         date,
			Status:       string(models.NormalizeStatus(status)),
			Reason:       row.get("reason"),
			Excused:      parseBool(row.get("excused")),
			LateMinutes:  parseInt(row.get("late_minutes")),
			EarlyMinutes: parseInt(row.get("early_minutes")),
		})
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	if err := s.attendance.InsertStudentBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import student attendance")
	}
	result.Inserted = len(batch)

	s.logger.Info("imported student attendance",
		zap.Int64("school_id", schoolID),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	s.invalidate(ctx)
	return result, nil
}

// ImportTeacherAttendance loads a teacher attendance CSV keyed by teacher
// code. Codes that do not resolve to a teacher of this school are skipped
// and reported back to the caller. The date column is optional, as in
// ImportStudentAttendance.
func (s *ImportService) ImportTeacherAttendance(ctx context.Context, schoolID int64, r io.Reader) (*dto.ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	codes, err := s.teachers.CodeMap(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher codes")
	}

	result := &dto.ImportResult{}
	batch := make([]models.TeacherAttendance, 0, len(rows))
	for _, row := range rows {
		code := row.get("teacher_code", "code")
		date, dateErr := rowDate(row)
		status := row.get("status")
		if code == "" || dateErr != nil || status == "" {
			result.Skipped++
			continue
		}
		teacherID, ok := codes[code]
		if !ok {
			result.Skipped++
			result.UnknownCodes = append(result.UnknownCodes, code)
			continue
		}
		batch = append(batch, models.TeacherAttendance{
			TeacherID:    teacherID,
			SchoolID:     schoolID,
			Date:         date,
			Status:       string(models.NormalizeStatus(status)),
			Reason:       row.get("reason"),
			Excused:      parseBool(row.get("excused")),
			LateMinutes:  parseInt(row.get("late_minutes")),
			EarlyMinutes: parseInt(row.get("early_minutes")),
		})
	}
	if len(batch) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyImport, "")
	}

	if err := s.attendance.InsertTeacherBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import teacher attendance")
	}
	result.Inserted = len(batch)

	s.logger.Info("imported teacher attendance",
		zap.Int64("school_id", schoolID),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("unknown_codes", len(result.UnknownCodes)))
	s.invalidate(ctx)
	return result, nil
}

func (s *ImportService) invalidate(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.InvalidateCache(ctx)
	}
}

// csvRow maps normalized header names to trimmed cell values.
type csvRow map[string]string

// get returns the first non-empty value among the candidate columns.
func (r csvRow) get(columns ...string) string {
	for _, column := range columns {
		if v := r[column]; v != "" {
			return v
		}
	}
	return ""
}

// readCSV parses the upload into header-keyed rows. Header names are
// lowercased and space-normalized so "Student Code" matches student_code.
func readCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, appErrors.Clone(appErrors.ErrEmptyImport, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read CSV header")
	}
	for i, name := range header {
		header[i] = normalizeHeader(name)
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read CSV row")
		}
		row := make(csvRow, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}

// rowDate reads an optional per-row date. An absent column means the upload
// covers today; a present but unparsable value is an error so the row gets
// skipped rather than misfiled.
func rowDate(row csvRow) (time.Time, error) {
	raw := row.get("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.ToLower(raw))
	return err == nil && v
}

func parseInt(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
