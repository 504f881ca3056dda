package auth

import "errors"

var (
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRole          = errors.New("invalid role, must be 'admin' or 'agent'")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrOperatorNotFound     = errors.New("operator not found")
	ErrOperatorInactive     = errors.New("operator account is deactivated")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
)
