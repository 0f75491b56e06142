package dto

import "github.com/shule-labs/school-admin-api/internal/models"

// LoginRequest authenticates a user by username and password.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated identity.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	User        UserInfo        `json:"user"`
	Role        models.UserRole `json:"role"`
}

// UserInfo is the public projection of an account.
type UserInfo struct {
	ID       int64           `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

// RegisterRequest creates an account; the access code gates the endpoint.
type RegisterRequest struct {
	Username   string          `json:"username" binding:"required"`
	Password   string          `json:"password" binding:"required"`
	Role       models.UserRole `json:"role" binding:"required"`
	AccessCode string          `json:"access_code" binding:"required"`
}
