package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shule-labs/school-admin-api/internal/models"
)

// SchoolRepository reads and administers school accounts (users rows with
// role school).
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository instantiates the repository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns every school account ordered by username.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	const query = `SELECT id, username FROM users WHERE role = 'school' ORDER BY username ASC`
	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// GetByID returns the school with the given id, or sql.ErrNoRows when the
// id does not belong to a school account.
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	const query = `SELECT id, username FROM users WHERE id = $1 AND role = 'school'`
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, fmt.Errorf("get school %d: %w", id, err)
	}
	return &school, nil
}

// Delete removes a school account. Deleting a non-school user id is a no-op.
func (r *SchoolRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1 AND role = 'school'`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete school %d: %w", id, err)
	}
	return nil
}

// ListAccounts returns full user rows for every school, used by the
// schools export (columns ID, Username, Role).
func (r *SchoolRepository) ListAccounts(ctx context.Context) ([]models.User, error) {
	const query = `SELECT id, username, role, created_at FROM users WHERE role = 'school' ORDER BY id ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list school accounts: %w", err)
	}
	return users, nil
}
