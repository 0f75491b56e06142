package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shule-labs/school-admin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestStudentRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "grade", "student_class", "gender", "student_code", "school_id"}).
		AddRow(1, "Amina", "5", "A", "F", "S001", 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, grade, student_class, gender, student_code, school_id FROM students WHERE school_id = $1 AND grade = $2 AND (name::TEXT ILIKE $3 OR student_code::TEXT ILIKE $4) ORDER BY grade ASC, name ASC")).
		WithArgs(int64(3), "5", "%ami%", "%ami%").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), models.StudentFilter{SchoolID: 3, Grade: "5", Search: "ami"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Amina", students[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListUnfiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, grade, student_class, gender, student_code, school_id FROM students ORDER BY grade ASC, name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "grade", "student_class", "gender", "student_code", "school_id"}))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Amina", "5", "A", "F", "S001", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	student := &models.Student{Name: "Amina", Grade: "5", Class: "A", Gender: "F", StudentCode: "S001", SchoolID: 3}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(17), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateNoMatchingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students").
		WithArgs("Amina", "5", "A", "F", "S001", int64(17), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	student := &models.Student{ID: 17, Name: "Amina", Grade: "5", Class: "A", Gender: "F", StudentCode: "S001", SchoolID: 99}
	err := repo.Update(context.Background(), student)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryBulkInsertTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").
		WithArgs("Amina", "5", "A", "F", "S001", int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO students").
		WithArgs("Brian", "6", "B", "M", "S002", int64(3)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.BulkInsert(context.Background(), []models.Student{
		{Name: "Amina", Grade: "5", Class: "A", Gender: "F", StudentCode: "S001", SchoolID: 3},
		{Name: "Brian", Grade: "6", Class: "B", Gender: "M", StudentCode: "S002", SchoolID: 3},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryBulkInsertRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO students").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.BulkInsert(context.Background(), []models.Student{{Name: "Amina", SchoolID: 3}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGrades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT grade FROM students WHERE school_id = $1 ORDER BY grade ASC")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"grade"}).AddRow("5").AddRow("6"))

	grades, err := repo.Grades(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "6"}, grades)
	assert.NoError(t, mock.ExpectationsWereMet())
}
