package models

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleITAdmin UserRole = "itadmin"
	RoleAdmin   UserRole = "admin"
	RoleSchool  UserRole = "school"
)

// User represents an account stored in the users table. Rows with role
// "school" double as tenant records: the school's display name is its
// username and its id owns students, teachers, and resources.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// School is the tenant-facing projection of a users row with role school.
type School struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// DisplayName returns the school name shown in reports, falling back to a
// numbered placeholder when the username is empty.
func (s School) DisplayName() string {
	if s.Username != "" {
		return s.Username
	}
	return FallbackSchoolName(s.ID)
}

// FallbackSchoolName builds the placeholder used when a school row has no
// username.
func FallbackSchoolName(id int64) string {
	return "School #" + strconv.FormatInt(id, 10)
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// JWTClaims carries the identity attached to authenticated requests.
type JWTClaims struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
