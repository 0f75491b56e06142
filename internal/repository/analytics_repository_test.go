package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsSchoolHeadcounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"school_id", "school_name", "total_students", "total_teachers"}).
		AddRow(1, "Green Hill", 120, 8).
		AddRow(2, "Riverside", 0, 0)
	mock.ExpectQuery("FROM users u").WillReturnRows(rows)

	counts, err := repo.SchoolHeadcounts(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Green Hill", counts[0].SchoolName)
	assert.Equal(t, 0, counts[1].TotalStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsStudentDailyTrendBoundsWindow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"date", "present", "absent"}).
		AddRow(time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), 80, 5)
	mock.ExpectQuery("FROM student_attendance").
		WithArgs(30).
		WillReturnRows(rows)

	trend, err := repo.StudentDailyTrend(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, trend, 1)
	assert.Equal(t, 80, trend[0].Present)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsTeacherRateCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("FROM teacher_attendance").
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"present", "absent", "unknown"}).AddRow(50, 3, 2))

	counts, err := repo.TeacherRateCounts(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 50, counts.Present)
	assert.Equal(t, 3, counts.Absent)
	assert.Equal(t, 2, counts.Unknown)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsChronicAbsentees(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"name", "grade", "student_class", "school_id", "school_name", "absent_days", "excused_days"}).
		AddRow("Amina", "5", "A", 3, "Green Hill", 6, 2).
		AddRow("Brian", "6", "B", 4, "", 4, 0)
	mock.ExpectQuery("LEFT JOIN users u(.|\n)*HAVING COUNT").
		WithArgs(30).
		WillReturnRows(rows)

	absentees, err := repo.ChronicAbsentees(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, absentees, 2)
	assert.Equal(t, 6, absentees[0].AbsentDays)
	assert.Equal(t, 2, absentees[0].ExcusedDays)
	assert.Equal(t, int64(4), absentees[1].SchoolID)
	assert.Empty(t, absentees[1].SchoolName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsResourceRatiosKeepsOrphanedSchools(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"school_id", "school_name", "subject_name", "grade", "total_students", "total_books"}).
		AddRow(1, "Green Hill", "Math", "5", 60, 10).
		AddRow(9, "", "Science", "6", 30, 5)
	mock.ExpectQuery("FROM resources r\\s+LEFT JOIN users u").WillReturnRows(rows)

	ratios, err := repo.ResourceRatios(context.Background())
	require.NoError(t, err)
	require.Len(t, ratios, 2)
	assert.Equal(t, int64(9), ratios[1].SchoolID)
	assert.Empty(t, ratios[1].SchoolName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsLatenessHeatmap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"weekday", "total_late", "total_early"}).
		AddRow(0, 45, 10).
		AddRow(4, 90, 0)
	mock.ExpectQuery("EXTRACT\\(ISODOW FROM date\\)").
		WithArgs(30).
		WillReturnRows(rows)

	cells, err := repo.LatenessHeatmap(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, 0, cells[0].Weekday)
	assert.Equal(t, 90, cells[1].TotalLate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsOverview(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"schools", "students", "teachers", "resources"}).AddRow(3, 400, 25, 60))

	stats, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Schools)
	assert.Equal(t, 60, stats.Resources)
	assert.NoError(t, mock.ExpectationsWereMet())
}
