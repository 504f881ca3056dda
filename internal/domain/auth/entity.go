package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role of a back-office account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
)

// IsValidRole checks role value
func IsValidRole(r string) bool {
	return r == string(RoleAdmin) || r == string(RoleAgent)
}

// Operator represents a back-office account
type Operator struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
