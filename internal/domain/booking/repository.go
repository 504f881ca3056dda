package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines booking data access
type Repository interface {
	Create(ctx context.Context, b *Booking, items []RequestedItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListItems(ctx context.Context, bookingID uuid.UUID) ([]RequestedItem, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reason string) error
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Booking, items []RequestedItem) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO bookings (
			id, contact_name, contact_email, contact_phone,
			destination, start_date, end_date, travelers,
			needs_flights, needs_hotel, needs_car, needs_guide,
			notes, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16
		)
	`
	_, err = tx.ExecContext(ctx, query,
		b.ID, b.ContactName, b.ContactEmail, b.ContactPhone,
		b.Destination, b.StartDate, b.EndDate, b.Travelers,
		b.NeedsFlights, b.NeedsHotel, b.NeedsCar, b.NeedsGuide,
		b.Notes, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO booking_items (
			id, booking_id, raw_type, title, description, quantity,
			start_date, end_date, start_time, end_time, return_date, return_time,
			origin, destination, is_round_trip, with_driver, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17
		)
	`
	for _, it := range items {
		_, err = tx.ExecContext(ctx, itemQuery,
			it.ID, it.BookingID, it.RawType, it.Title, it.Description, it.Quantity,
			it.StartDate, it.EndDate, it.StartTime, it.EndTime, it.ReturnDate, it.ReturnTime,
			it.Origin, it.Destination, it.IsRoundTrip, it.WithDriver, it.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListItems(ctx context.Context, bookingID uuid.UUID) ([]RequestedItem, error) {
	query := `SELECT * FROM booking_items WHERE booking_id = $1 ORDER BY created_at ASC`
	var items []RequestedItem
	if err := r.db.SelectContext(ctx, &items, query, bookingID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) List(ctx context.Context, status *Status, limit, offset int) ([]*Booking, int, error) {
	var args []interface{}
	where := ""
	argIdx := 1

	if status != nil {
		where = " WHERE status = $1"
		args = append(args, *status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM bookings" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT * FROM bookings %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, reason string) error {
	query := `
		UPDATE bookings SET
			status = $2, status_reason = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, status, reason)
	return err
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) as count FROM bookings GROUP BY status`

	type row struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	result := make(map[Status]int)
	for _, rw := range rows {
		result[rw.Status] = rw.Count
	}
	return result, nil
}
