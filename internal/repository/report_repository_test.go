package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCountStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(200))

	total, err := repo.CountStudents(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 200, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportResourceSums(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"subject_name", "grade", "total_students", "total_books"}).
		AddRow("Math", "5", 60, 10).
		AddRow(nil, "6", 30, 0)
	mock.ExpectQuery("FROM resources").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	sums, err := repo.ResourceSums(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	require.NotNil(t, sums[0].SubjectName)
	assert.Equal(t, "Math", *sums[0].SubjectName)
	assert.Nil(t, sums[1].SubjectName)
	assert.Equal(t, 0, sums[1].TotalBooks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportWeeklyStudentAbsences(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"year_week", "absences"}).
		AddRow(202605, 12).
		AddRow(202606, 18)
	mock.ExpectQuery("FROM student_attendance").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	weeks, err := repo.WeeklyStudentAbsences(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, 202605, weeks[0].YearWeek)
	assert.Equal(t, 18, weeks[1].Absences)
	assert.NoError(t, mock.ExpectationsWereMet())
}
