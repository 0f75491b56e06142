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

func TestAttendanceInsertStudentBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO student_attendance").
		WithArgs(int64(11), int64(3), date, "present", "", false, 0, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_attendance").
		WithArgs(int64(12), int64(3), date, "absent", "sick", true, 0, 0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.InsertStudentBatch(context.Background(), []models.StudentAttendance{
		{StudentID: 11, SchoolID: 3, Date: date, Status: "present"},
		{StudentID: 12, SchoolID: 3, Date: date, Status: "absent", Reason: "sick", Excused: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceInsertStudentBatchEmptyNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.InsertStudentBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceInsertTeacherBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_attendance").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.InsertTeacherBatch(context.Background(), []models.TeacherAttendance{
		{TeacherID: 21, SchoolID: 3, Date: time.Now(), Status: "absent"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceStudentSessionDates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT DISTINCT date FROM student_attendance").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).
			AddRow(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)).
			AddRow(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)))

	dates, err := repo.StudentSessionDates(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.True(t, dates[0].After(dates[1]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceWeeklySummary(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"year_week", "week_start", "absent_students", "absent_teachers"}).
		AddRow(202607, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), 0, 0).
		AddRow(202606, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), 4, 1)
	mock.ExpectQuery("ORDER BY w.year_week DESC").WillReturnRows(rows)

	weeks, err := repo.WeeklySummary(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Greater(t, weeks[0].YearWeek, weeks[1].YearWeek)
	assert.Equal(t, 202607, weeks[0].YearWeek)
	assert.Equal(t, 0, weeks[0].AbsentStudents)
	assert.Equal(t, 4, weeks[1].AbsentStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceTotals(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"absent_students", "absent_teachers"}).AddRow(42, 7))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, totals.AbsentStudents)
	assert.Equal(t, 7, totals.AbsentTeachers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceStudentDetails(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"name", "grade", "student_class", "status", "reason", "excused", "late_minutes", "early_minutes"}).
		AddRow("Amina", "5", "A", "absent", "sick", true, 0, 0)
	mock.ExpectQuery("FROM student_attendance a").
		WithArgs(int64(3), date).
		WillReturnRows(rows)

	details, err := repo.StudentDetails(context.Background(), 3, date)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Amina", details[0].Name)
	assert.True(t, details[0].Excused)
	assert.NoError(t, mock.ExpectationsWereMet())
}
