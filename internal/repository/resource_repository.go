package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// ResourceRepository persists resource inventory rows and serves the
// cross-school subject summaries.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository instantiates the repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

const resourceColumns = "id, subject_name, grade, num_students, num_books, num_computers, school_id"

// ListBySchool returns a school's resource rows ordered by subject then grade.
// NULL subjects sort last.
func (r *ResourceRepository) ListBySchool(ctx context.Context, schoolID int64) ([]models.Resource, error) {
	query := "SELECT " + resourceColumns + " FROM resources WHERE school_id = $1 ORDER BY subject_name ASC NULLS LAST, grade ASC"
	var resources []models.Resource
	if err := r.db.SelectContext(ctx, &resources, query, schoolID); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	return resources, nil
}

// Create inserts a resource row and fills in the generated id.
func (r *ResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	const query = `INSERT INTO resources (subject_name, grade, num_students, num_books, num_computers, school_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		resource.SubjectName, resource.Grade, resource.NumStudents, resource.NumBooks, resource.NumComputers, resource.SchoolID,
	).Scan(&resource.ID); err != nil {
		return fmt.Errorf("create resource: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a resource row owned by the school.
func (r *ResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	const query = `UPDATE resources
		SET subject_name = $1, grade = $2, num_students = $3, num_books = $4, num_computers = $5
		WHERE id = $6 AND school_id = $7`
	res, err := r.db.ExecContext(ctx, query,
		resource.SubjectName, resource.Grade, resource.NumStudents, resource.NumBooks, resource.NumComputers,
		resource.ID, resource.SchoolID,
	)
	if err != nil {
		return fmt.Errorf("update resource %d: %w", resource.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update resource %d: no matching row", resource.ID)
	}
	return nil
}

// Delete removes a resource row owned by the school.
func (r *ResourceRepository) Delete(ctx context.Context, schoolID, id int64) error {
	const query = `DELETE FROM resources WHERE id = $1 AND school_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, schoolID); err != nil {
		return fmt.Errorf("delete resource %d: %w", id, err)
	}
	return nil
}

// SubjectSummary groups the whole resources table by subject. NULL subjects
// form their own group rather than being folded into a placeholder.
func (r *ResourceRepository) SubjectSummary(ctx context.Context) ([]models.ResourceSubjectSummary, error) {
	const query = `SELECT
			subject_name,
			COALESCE(SUM(num_students), 0) AS total_students,
			COALESCE(SUM(num_books), 0) AS total_books,
			COALESCE(SUM(num_computers), 0) AS total_computers,
			COUNT(*) AS record_count,
			COUNT(DISTINCT school_id) AS school_count
		FROM resources
		GROUP BY subject_name
		ORDER BY subject_name ASC NULLS LAST`
	var summaries []models.ResourceSubjectSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("resource subject summary: %w", err)
	}
	return summaries, nil
}

// GrandTotals aggregates the whole resources table into one row.
func (r *ResourceRepository) GrandTotals(ctx context.Context) (*models.ResourceGrandTotals, error) {
	const query = `SELECT
			COUNT(DISTINCT subject_name) AS subjects,
			COALESCE(SUM(num_students), 0) AS total_students,
			COALESCE(SUM(num_books), 0) AS total_books,
			COALESCE(SUM(num_computers), 0) AS total_computers,
			COUNT(*) AS total_rows,
			COUNT(DISTINCT school_id) AS total_schools
		FROM resources`
	var totals models.ResourceGrandTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return nil, fmt.Errorf("resource grand totals: %w", err)
	}
	return &totals, nil
}
