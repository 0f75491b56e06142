package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// StudentRepository persists student roster rows.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, name, grade, student_class, gender, student_code, school_id"

// List returns students matching the filter, ordered by grade then name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	var preds Predicates
	if filter.SchoolID > 0 {
		preds.Equal("school_id", filter.SchoolID)
	}
	if filter.Grade != "" {
		preds.Equal("grade", filter.Grade)
	}
	if filter.Class != "" {
		preds.Equal("student_class", filter.Class)
	}
	preds.Search(filter.Search, "name", "student_code")

	clause, args := preds.Clause()
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students" + clause + " ORDER BY grade ASC, name ASC")

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// GetByID loads one student scoped to its school.
func (r *StudentRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1 AND school_id = $2"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, schoolID); err != nil {
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}
	return &student, nil
}

// Create inserts a single student and fills in the generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (name, grade, student_class, gender, student_code, school_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		student.Name, student.Grade, student.Class, student.Gender, student.StudentCode, student.SchoolID,
	).Scan(&student.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a student owned by the school.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students
		SET name = $1, grade = $2, student_class = $3, gender = $4, student_code = $5
		WHERE id = $6 AND school_id = $7`
	res, err := r.db.ExecContext(ctx, query,
		student.Name, student.Grade, student.Class, student.Gender, student.StudentCode,
		student.ID, student.SchoolID,
	)
	if err != nil {
		return fmt.Errorf("update student %d: %w", student.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update student %d: no matching row", student.ID)
	}
	return nil
}

// Delete removes a student owned by the school.
func (r *StudentRepository) Delete(ctx context.Context, schoolID, id int64) error {
	const query = `DELETE FROM students WHERE id = $1 AND school_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, schoolID); err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return nil
}

// BulkInsert stores a batch of imported students inside a single
// transaction. Any insert failure rolls back the whole batch.
func (r *StudentRepository) BulkInsert(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student import: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO students (name, grade, student_class, gender, student_code, school_id)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, student := range students {
		if _, err := tx.ExecContext(ctx, query,
			student.Name, student.Grade, student.Class, student.Gender, student.StudentCode, student.SchoolID,
		); err != nil {
			return fmt.Errorf("insert student %q: %w", student.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit student import: %w", err)
	}
	return nil
}

// Grades returns the distinct grades present for one school.
func (r *StudentRepository) Grades(ctx context.Context, schoolID int64) ([]string, error) {
	const query = `SELECT DISTINCT grade FROM students WHERE school_id = $1 ORDER BY grade ASC`
	var grades []string
	if err := r.db.SelectContext(ctx, &grades, query, schoolID); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// Classes returns the distinct classes for one school and grade.
func (r *StudentRepository) Classes(ctx context.Context, schoolID int64, grade string) ([]string, error) {
	const query = `SELECT DISTINCT student_class FROM students WHERE school_id = $1 AND grade = $2 ORDER BY student_class ASC`
	var classes []string
	if err := r.db.SelectContext(ctx, &classes, query, schoolID, grade); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}
