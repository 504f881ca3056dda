package location

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines location data access
type Repository interface {
	Create(ctx context.Context, l *Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*Location, error)
	Update(ctx context.Context, l *Location) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, country string, activeOnly bool, limit, offset int) ([]*Location, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates location repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Location) error {
	query := `
		INSERT INTO locations (id, name, country, region, timezone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Country, l.Region, l.Timezone, l.Active, l.CreatedAt, l.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	query := `SELECT * FROM locations WHERE id = $1`
	var l Location
	err := r.db.GetContext(ctx, &l, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) Update(ctx context.Context, l *Location) error {
	query := `
		UPDATE locations
		SET name = $2, country = $3, region = $4, timezone = $5, active = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.Name, l.Country, l.Region, l.Timezone, l.Active, l.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return ErrLocationInUse
	}
	return err
}

func (r *repository) List(ctx context.Context, country string, activeOnly bool, limit, offset int) ([]*Location, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	n := 0

	if country != "" {
		n++
		where += ` AND country = $` + strconv.Itoa(n)
		args = append(args, country)
	}
	if activeOnly {
		where += ` AND active = true`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM locations `+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM locations ` + where +
		` ORDER BY name ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	var locations []*Location
	if err := r.db.SelectContext(ctx, &locations, query, args...); err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
