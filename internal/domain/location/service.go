package location

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Service handles destination catalog logic
type Service struct {
	repo Repository
}

// NewService creates location service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a new destination
func (s *Service) Create(ctx context.Context, req *CreateLocationRequest) (*Location, error) {
	now := time.Now()
	l := &Location{
		ID:        uuid.New(),
		Name:      req.Name,
		Country:   req.Country,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Region != "" {
		l.Region = sql.NullString{String: req.Region, Valid: true}
	}
	if req.Timezone != "" {
		l.Timezone = sql.NullString{String: req.Timezone, Valid: true}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetByID fetches one destination
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Location, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLocationNotFound
	}
	return l, nil
}

// Update applies a shallow patch
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateLocationRequest) (*Location, error) {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Country != nil {
		l.Country = *req.Country
	}
	if req.Region != nil {
		l.Region = sql.NullString{String: *req.Region, Valid: *req.Region != ""}
	}
	if req.Timezone != nil {
		l.Timezone = sql.NullString{String: *req.Timezone, Valid: *req.Timezone != ""}
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	l.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a destination no services reference
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns destinations with optional country filter
func (s *Service) List(ctx context.Context, country string, activeOnly bool, limit, offset int) ([]*Location, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, country, activeOnly, limit, offset)
}
