package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines operator data access
type Repository interface {
	Create(ctx context.Context, op *Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*Operator, error)
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	List(ctx context.Context) ([]*Operator, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates operator repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, op *Operator) error {
	query := `
		INSERT INTO operators (id, email, name, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		op.ID, op.Email, op.Name, op.PasswordHash, op.Role, op.Active, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Operator, error) {
	query := `
		SELECT id, email, name, password_hash, role, active, created_at, updated_at
		FROM operators
		WHERE id = $1
	`
	var op Operator
	if err := r.db.GetContext(ctx, &op, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	query := `
		SELECT id, email, name, password_hash, role, active, created_at, updated_at
		FROM operators
		WHERE email = $1
	`
	var op Operator
	if err := r.db.GetContext(ctx, &op, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

func (r *repository) List(ctx context.Context) ([]*Operator, error) {
	query := `
		SELECT id, email, name, password_hash, role, active, created_at, updated_at
		FROM operators
		ORDER BY created_at
	`
	var ops []*Operator
	if err := r.db.SelectContext(ctx, &ops, query); err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE operators SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, passwordHash)
	return err
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE operators SET active = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, active)
	return err
}
