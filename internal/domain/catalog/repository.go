package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ListFilter narrows the catalog listing
type ListFilter struct {
	Type       *ServiceType
	VendorID   *uuid.UUID
	LocationID *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines catalog data access
type Repository interface {
	Create(ctx context.Context, s *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f ListFilter) ([]*Service, int, error)

	AddPhoto(ctx context.Context, p *Photo) error
	ListPhotos(ctx context.Context, serviceID uuid.UUID) ([]Photo, error)
	GetPhoto(ctx context.Context, id uuid.UUID) (*Photo, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates catalog repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (
			id, vendor_id, location_id, type, title, description,
			base_price, currency, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.VendorID, s.LocationID, s.Type, s.Title, s.Description,
		s.BasePrice, s.Currency, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrVendorNotFound
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := `SELECT * FROM services WHERE id = $1`
	var s Service
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Service) error {
	query := `
		UPDATE services
		SET location_id = $2, type = $3, title = $4, description = $5,
		    base_price = $6, currency = $7, active = $8, updated_at = $9
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.LocationID, s.Type, s.Title, s.Description,
		s.BasePrice, s.Currency, s.Active, s.UpdatedAt,
	)
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrServiceQuoted
	}
	return err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Service, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	n := 0

	if f.Type != nil {
		n++
		where += ` AND type = $` + strconv.Itoa(n)
		args = append(args, *f.Type)
	}
	if f.VendorID != nil {
		n++
		where += ` AND vendor_id = $` + strconv.Itoa(n)
		args = append(args, *f.VendorID)
	}
	if f.LocationID != nil {
		n++
		where += ` AND location_id = $` + strconv.Itoa(n)
		args = append(args, *f.LocationID)
	}
	if f.ActiveOnly {
		where += ` AND active = true`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM services `+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM services ` + where +
		` ORDER BY title ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, f.Limit, f.Offset)

	var services []*Service
	if err := r.db.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, 0, err
	}
	return services, total, nil
}

func (r *repository) AddPhoto(ctx context.Context, p *Photo) error {
	query := `
		INSERT INTO service_photos (id, service_id, url, thumb_url, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ServiceID, p.URL, p.ThumbURL, p.Width, p.Height, p.CreatedAt,
	)
	return err
}

func (r *repository) ListPhotos(ctx context.Context, serviceID uuid.UUID) ([]Photo, error) {
	query := `SELECT * FROM service_photos WHERE service_id = $1 ORDER BY created_at ASC`
	var photos []Photo
	if err := r.db.SelectContext(ctx, &photos, query, serviceID); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repository) GetPhoto(ctx context.Context, id uuid.UUID) (*Photo, error) {
	query := `SELECT * FROM service_photos WHERE id = $1`
	var p Photo
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM service_photos WHERE id = $1`, id)
	return err
}
