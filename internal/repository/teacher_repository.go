package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// TeacherRepository persists teacher roster rows.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = "id, name, subject, gender, email, phone, teacher_code, school_id"

// List returns teachers matching the filter, ordered by name.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, error) {
	var preds Predicates
	if filter.SchoolID > 0 {
		preds.Equal("school_id", filter.SchoolID)
	}
	if filter.Subject != "" {
		preds.Equal("subject", filter.Subject)
	}
	preds.Search(filter.Search, "name", "teacher_code", "email")

	clause, args := preds.Clause()
	query := r.db.Rebind("SELECT " + teacherColumns + " FROM teachers" + clause + " ORDER BY name ASC")

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// GetByID loads one teacher scoped to its school.
func (r *TeacherRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.Teacher, error) {
	query := "SELECT " + teacherColumns + " FROM teachers WHERE id = $1 AND school_id = $2"
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id, schoolID); err != nil {
		return nil, fmt.Errorf("get teacher %d: %w", id, err)
	}
	return &teacher, nil
}

// Create inserts a single teacher and fills in the generated id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teachers (name, subject, gender, email, phone, teacher_code, school_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		teacher.Name, teacher.Subject, teacher.Gender, teacher.Email, teacher.Phone, teacher.TeacherCode, teacher.SchoolID,
	).Scan(&teacher.ID); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a teacher owned by the school.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	const query = `UPDATE teachers
		SET name = $1, subject = $2, gender = $3, email = $4, phone = $5, teacher_code = $6
		WHERE id = $7 AND school_id = $8`
	res, err := r.db.ExecContext(ctx, query,
		teacher.Name, teacher.Subject, teacher.Gender, teacher.Email, teacher.Phone, teacher.TeacherCode,
		teacher.ID, teacher.SchoolID,
	)
	if err != nil {
		return fmt.Errorf("update teacher %d: %w", teacher.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update teacher %d: no matching row", teacher.ID)
	}
	return nil
}

// Delete removes a teacher owned by the school.
func (r *TeacherRepository) Delete(ctx context.Context, schoolID, id int64) error {
	const query = `DELETE FROM teachers WHERE id = $1 AND school_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, schoolID); err != nil {
		return fmt.Errorf("delete teacher %d: %w", id, err)
	}
	return nil
}

// BulkInsert stores a batch of imported teachers inside a single
// transaction. Any insert failure rolls back the whole batch.
func (r *TeacherRepository) BulkInsert(ctx context.Context, teachers []models.Teacher) error {
	if len(teachers) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher import: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO teachers (name, subject, gender, email, phone, teacher_code, school_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, teacher := range teachers {
		if _, err := tx.ExecContext(ctx, query,
			teacher.Name, teacher.Subject, teacher.Gender, teacher.Email, teacher.Phone, teacher.TeacherCode, teacher.SchoolID,
		); err != nil {
			return fmt.Errorf("insert teacher %q: %w", teacher.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher import: %w", err)
	}
	return nil
}

// CodeMap resolves one school's teacher codes to teacher ids, used when
// importing teacher attendance keyed by code.
func (r *TeacherRepository) CodeMap(ctx context.Context, schoolID int64) (map[string]int64, error) {
	const query = `SELECT id, teacher_code FROM teachers WHERE school_id = $1`
	rows, err := r.db.QueryxContext(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("load teacher codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]int64)
	for rows.Next() {
		var (
			id   int64
			code string
		)
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("scan teacher code: %w", err)
		}
		codes[code] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teacher codes: %w", err)
	}
	return codes, nil
}
