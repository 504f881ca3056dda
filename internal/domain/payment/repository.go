package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines payment data access
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetByExternalID(ctx context.Context, externalID string) (*Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, failReason string) error
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, quote_id, provider, external_id,
			amount_cents, currency, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BookingID, p.QuoteID, p.Provider, p.ExternalID,
		p.AmountCents, p.Currency, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	query := `SELECT * FROM payments WHERE id = $1`
	var p Payment
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Payment, error) {
	query := `SELECT * FROM payments WHERE external_id = $1`
	var p Payment
	err := r.db.GetContext(ctx, &p, query, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, failReason string) error {
	query := `
		UPDATE payments
		SET status = $2,
		    fail_reason = NULLIF($3, ''),
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, failReason)
	return err
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Payment, error) {
	query := `SELECT * FROM payments WHERE booking_id = $1 ORDER BY created_at DESC`
	var payments []*Payment
	if err := r.db.SelectContext(ctx, &payments, query, bookingID); err != nil {
		return nil, err
	}
	return payments, nil
}
