package auth

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// CreateOperatorRequest for POST /auth/operators (admin only)
type CreateOperatorRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=admin agent"`
}

// ChangePasswordRequest for POST /auth/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// AuthResponse returned after login/refresh
type AuthResponse struct {
	Operator OperatorResponse `json:"operator"`
	Tokens   TokensResponse   `json:"tokens"`
}

// OperatorResponse represents an operator in API responses
type OperatorResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"created_at"`
}

// TokensResponse represents tokens in API responses
type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // seconds until access token expires
}

// NewOperatorResponse creates OperatorResponse from entity
func NewOperatorResponse(op *Operator) OperatorResponse {
	return OperatorResponse{
		ID:        op.ID,
		Email:     op.Email,
		Name:      op.Name,
		Role:      string(op.Role),
		Active:    op.Active,
		CreatedAt: op.CreatedAt.Format(time.RFC3339),
	}
}
