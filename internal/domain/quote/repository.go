package quote

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines quote data access
type Repository interface {
	Create(ctx context.Context, q *Quote, items []QuoteItem) error
	GetLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*Quote, []QuoteItem, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Quote, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates quote repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create persists the quote and its lines in one transaction. Any
// previously sent quote for the booking is marked superseded so the
// latest one is unambiguous.
func (r *repository) Create(ctx context.Context, q *Quote, items []QuoteItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE quotes SET status = 'superseded' WHERE booking_id = $1 AND status = 'sent'`,
		q.BookingID,
	)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO quotes (
			id, booking_id, subtotal, tax, service_fee, total, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		q.ID, q.BookingID, q.Subtotal, q.Tax, q.ServiceFee, q.Total, q.Status, q.CreatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO quote_items (
			id, quote_id, source_item_id, service_id, item_type, title, description,
			quantity, unit_price,
			start_date, end_date, start_time, end_time, return_date, return_time,
			origin, destination, is_round_trip, with_driver
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9,
			$10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19
		)
	`
	for _, it := range items {
		_, err = tx.ExecContext(ctx, itemQuery,
			it.ID, it.QuoteID, it.SourceItemID, it.ServiceID, it.ItemType, it.Title, it.Description,
			it.Quantity, it.UnitPrice,
			it.StartDate, it.EndDate, it.StartTime, it.EndTime, it.ReturnDate, it.ReturnTime,
			it.Origin, it.Destination, it.IsRoundTrip, it.WithDriver,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*Quote, []QuoteItem, error) {
	query := `SELECT * FROM quotes WHERE booking_id = $1 ORDER BY created_at DESC LIMIT 1`
	var q Quote
	err := r.db.GetContext(ctx, &q, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var items []QuoteItem
	itemQuery := `SELECT * FROM quote_items WHERE quote_id = $1 ORDER BY title ASC`
	if err := r.db.SelectContext(ctx, &items, itemQuery, q.ID); err != nil {
		return nil, nil, err
	}

	return &q, items, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]*Quote, error) {
	query := `SELECT * FROM quotes WHERE booking_id = $1 ORDER BY created_at DESC`
	var quotes []*Quote
	if err := r.db.SelectContext(ctx, &quotes, query, bookingID); err != nil {
		return nil, err
	}
	return quotes, nil
}
