package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/pkg/jwt"
	"github.com/tripline/tripline-api/internal/pkg/password"
)

type fakeOperatorRepo struct {
	byEmail *Operator
	created *Operator
}

func (f *fakeOperatorRepo) Create(ctx context.Context, op *Operator) error {
	f.created = op
	return nil
}

func (f *fakeOperatorRepo) GetByID(ctx context.Context, id uuid.UUID) (*Operator, error) {
	if f.byEmail != nil && f.byEmail.ID == id {
		return f.byEmail, nil
	}
	if f.created != nil && f.created.ID == id {
		return f.created, nil
	}
	return nil, nil
}

func (f *fakeOperatorRepo) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	if f.byEmail != nil && f.byEmail.Email == email {
		return f.byEmail, nil
	}
	return nil, nil
}

func (f *fakeOperatorRepo) List(ctx context.Context) ([]*Operator, error) {
	if f.byEmail != nil {
		return []*Operator{f.byEmail}, nil
	}
	return nil, nil
}

func (f *fakeOperatorRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	if f.byEmail != nil && f.byEmail.ID == id {
		f.byEmail.PasswordHash = hash
	}
	return nil
}

func (f *fakeOperatorRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if f.byEmail != nil && f.byEmail.ID == id {
		f.byEmail.Active = active
	}
	return nil
}

func newTestService(repo Repository) *Service {
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, jwtSvc, nil)
}

func seededOperator(t *testing.T, pass string, role Role, active bool) *Operator {
	t.Helper()
	hash, err := password.Hash(pass)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now()
	return &Operator{
		ID:           uuid.New(),
		Email:        "ops@tripline.io",
		Name:         "Ops",
		PasswordHash: hash,
		Role:         role,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &fakeOperatorRepo{byEmail: seededOperator(t, "correct-horse-1", RoleAgent, true)}
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "  OPS@tripline.io ",
		Password: "correct-horse-1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.Operator.Role != "agent" {
		t.Errorf("role = %q, want agent", resp.Operator.Role)
	}
	if resp.Tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in = %d", resp.Tokens.ExpiresIn)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeOperatorRepo{byEmail: seededOperator(t, "correct-horse-1", RoleAgent, true)}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ops@tripline.io",
		Password: "wrong",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(&fakeOperatorRepo{})

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@tripline.io",
		Password: "whatever",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveOperator(t *testing.T) {
	repo := &fakeOperatorRepo{byEmail: seededOperator(t, "correct-horse-1", RoleAgent, false)}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ops@tripline.io",
		Password: "correct-horse-1",
	})
	if err != ErrOperatorInactive {
		t.Errorf("err = %v, want ErrOperatorInactive", err)
	}
}

func TestRefreshWithoutRedisRejected(t *testing.T) {
	// With no Redis the stored hash can never be found, so even a
	// validly signed refresh token must be rejected.
	repo := &fakeOperatorRepo{byEmail: seededOperator(t, "correct-horse-1", RoleAgent, true)}
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ops@tripline.io",
		Password: "correct-horse-1",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), resp.Tokens.RefreshToken)
	if err != ErrInvalidRefreshToken {
		t.Errorf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRefreshEmptyToken(t *testing.T) {
	svc := newTestService(&fakeOperatorRepo{})

	_, err := svc.Refresh(context.Background(), "")
	if err != ErrRefreshTokenRequired {
		t.Errorf("err = %v, want ErrRefreshTokenRequired", err)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := newTestService(&fakeOperatorRepo{})

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if err != ErrInvalidRefreshToken {
		t.Errorf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestLogoutEmptyTokenIsNoop(t *testing.T) {
	svc := newTestService(&fakeOperatorRepo{})

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("logout: %v", err)
	}
}

func TestCreateOperator(t *testing.T) {
	repo := &fakeOperatorRepo{}
	svc := newTestService(repo)

	resp, err := svc.CreateOperator(context.Background(), &CreateOperatorRequest{
		Email:    "New@Tripline.io",
		Name:     "New Agent",
		Password: "long-enough-pass",
		Role:     "agent",
	})
	if err != nil {
		t.Fatalf("create operator: %v", err)
	}
	if resp.Email != "new@tripline.io" {
		t.Errorf("email = %q, want normalized lowercase", resp.Email)
	}
	if repo.created == nil {
		t.Fatal("expected operator to be persisted")
	}
	if repo.created.PasswordHash == "long-enough-pass" {
		t.Error("password stored in clear")
	}
	if !password.Verify("long-enough-pass", repo.created.PasswordHash) {
		t.Error("stored hash does not match password")
	}
	if !repo.created.Active {
		t.Error("new operator should start active")
	}
}

func TestCreateOperatorDuplicateEmail(t *testing.T) {
	repo := &fakeOperatorRepo{byEmail: seededOperator(t, "correct-horse-1", RoleAdmin, true)}
	svc := newTestService(repo)

	_, err := svc.CreateOperator(context.Background(), &CreateOperatorRequest{
		Email:    "ops@tripline.io",
		Name:     "Dup",
		Password: "long-enough-pass",
		Role:     "agent",
	})
	if err != ErrEmailAlreadyExists {
		t.Errorf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestCreateOperatorInvalidRole(t *testing.T) {
	svc := newTestService(&fakeOperatorRepo{})

	_, err := svc.CreateOperator(context.Background(), &CreateOperatorRequest{
		Email:    "x@tripline.io",
		Name:     "X",
		Password: "long-enough-pass",
		Role:     "superuser",
	})
	if err != ErrInvalidRole {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	op := seededOperator(t, "correct-horse-1", RoleAgent, true)
	repo := &fakeOperatorRepo{byEmail: op}
	svc := newTestService(repo)

	err := svc.ChangePassword(context.Background(), op.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "another-long-pass",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	op := seededOperator(t, "correct-horse-1", RoleAgent, true)
	repo := &fakeOperatorRepo{byEmail: op}
	svc := newTestService(repo)

	err := svc.ChangePassword(context.Background(), op.ID, &ChangePasswordRequest{
		CurrentPassword: "correct-horse-1",
		NewPassword:     "another-long-pass",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if !password.Verify("another-long-pass", op.PasswordHash) {
		t.Error("new password not stored")
	}
}
