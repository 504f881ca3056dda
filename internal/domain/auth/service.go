package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tripline/tripline-api/internal/pkg/jwt"
	"github.com/tripline/tripline-api/internal/pkg/password"
)

// Service handles operator authentication
type Service struct {
	repo       Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(repo Repository, jwtService *jwt.Service, redis *redis.Client) *Service {
	return &Service{repo: repo, jwtService: jwtService, redis: redis}
}

// Login authenticates an operator
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	op, err := s.repo.GetByEmail(ctx, email)
	if err != nil || op == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, op.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !op.Active {
		return nil, ErrOperatorInactive
	}

	return s.generateTokens(ctx, op)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// The hash must still be present in Redis; logout deletes it.
	refreshHash := jwt.HashRefreshToken(refreshToken)
	operatorID, err := s.getRefreshToken(ctx, refreshHash)
	if err != nil || operatorID != claims.OperatorID {
		return nil, ErrInvalidRefreshToken
	}

	op, err := s.repo.GetByID(ctx, operatorID)
	if err != nil || op == nil {
		return nil, ErrOperatorNotFound
	}
	if !op.Active {
		return nil, ErrOperatorInactive
	}

	// Token rotation: the old refresh token is single-use.
	_ = s.deleteRefreshToken(ctx, refreshHash)

	return s.generateTokens(ctx, op)
}

// Logout revokes a refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.deleteRefreshToken(ctx, jwt.HashRefreshToken(refreshToken))
}

// Me returns the current operator
func (s *Service) Me(ctx context.Context, operatorID uuid.UUID) (*OperatorResponse, error) {
	op, err := s.repo.GetByID(ctx, operatorID)
	if err != nil || op == nil {
		return nil, ErrOperatorNotFound
	}
	resp := NewOperatorResponse(op)
	return &resp, nil
}

// CreateOperator creates a new back-office account (admin only)
func (s *Service) CreateOperator(ctx context.Context, req *CreateOperatorRequest) (*OperatorResponse, error) {
	email := normalizeEmail(req.Email)

	if !IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	existing, _ := s.repo.GetByEmail(ctx, email)
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	op := &Operator{
		ID:           uuid.New(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         Role(req.Role),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}

	resp := NewOperatorResponse(op)
	return &resp, nil
}

// ListOperators lists all back-office accounts (admin only)
func (s *Service) ListOperators(ctx context.Context) ([]OperatorResponse, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OperatorResponse, len(ops))
	for i, op := range ops {
		out[i] = NewOperatorResponse(op)
	}
	return out, nil
}

// SetOperatorActive toggles an account on or off (admin only)
func (s *Service) SetOperatorActive(ctx context.Context, id uuid.UUID, active bool) error {
	op, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if op == nil {
		return ErrOperatorNotFound
	}
	return s.repo.SetActive(ctx, id, active)
}

// ChangePassword updates the current operator's password
func (s *Service) ChangePassword(ctx context.Context, operatorID uuid.UUID, req *ChangePasswordRequest) error {
	op, err := s.repo.GetByID(ctx, operatorID)
	if err != nil || op == nil {
		return ErrOperatorNotFound
	}

	if !password.Verify(req.CurrentPassword, op.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, operatorID, hash)
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, op *Operator) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(op.ID, string(op.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, _, _, err := s.jwtService.GenerateRefreshToken(op.ID)
	if err != nil {
		return nil, err
	}

	// Store hash(refresh) in Redis with the token's TTL
	refreshHash := jwt.HashRefreshToken(refreshToken)
	if err := s.storeRefreshToken(ctx, refreshHash, op.ID); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Operator: NewOperatorResponse(op),
		Tokens: TokensResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(s.jwtService.GetAccessTTL().Seconds()),
		},
	}, nil
}

// Redis helpers (handle nil redis gracefully)
func (s *Service) storeRefreshToken(ctx context.Context, tokenHash string, operatorID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+tokenHash, operatorID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) getRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	if s.redis == nil {
		// Without Redis, refresh tokens cannot be revoked, so they
		// are not honored at all.
		return uuid.Nil, ErrInvalidRefreshToken
	}
	val, err := s.redis.Get(ctx, "refresh:"+tokenHash).Result()
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return uuid.Parse(val)
}

func (s *Service) deleteRefreshToken(ctx context.Context, tokenHash string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+tokenHash).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
