package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tripline/tripline-api/internal/pkg/imaging"
	"github.com/tripline/tripline-api/internal/pkg/storage"
)

// CatalogService handles catalog business logic. The entity keeps the
// Service name since that is the domain term for a bookable offering.
type CatalogService struct {
	repo      Repository
	store     storage.Storage
	processor *imaging.Processor
}

// NewService creates catalog service
func NewService(repo Repository, store storage.Storage, processor *imaging.Processor) *CatalogService {
	return &CatalogService{repo: repo, store: store, processor: processor}
}

// Create adds a catalog service
func (s *CatalogService) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return nil, ErrVendorNotFound
	}

	now := time.Now()
	svc := &Service{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Type:      ServiceType(req.Type),
		Title:     req.Title,
		BasePrice: req.BasePrice,
		Currency:  req.Currency,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if svc.Currency == "" {
		svc.Currency = "USD"
	}
	if !svc.Type.Valid() {
		return nil, ErrInvalidType
	}
	if req.LocationID != "" {
		if id, err := uuid.Parse(req.LocationID); err == nil {
			svc.LocationID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}
	if req.Description != "" {
		svc.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// GetByID fetches one service with its photos
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*Service, []Photo, error) {
	svc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil {
		return nil, nil, ErrServiceNotFound
	}
	photos, err := s.repo.ListPhotos(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return svc, photos, nil
}

// Update applies a shallow patch
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, req *UpdateServiceRequest) (*Service, error) {
	svc, _, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LocationID != nil {
		if *req.LocationID == "" {
			svc.LocationID = uuid.NullUUID{}
		} else if lid, err := uuid.Parse(*req.LocationID); err == nil {
			svc.LocationID = uuid.NullUUID{UUID: lid, Valid: true}
		}
	}
	if req.Type != nil {
		t := ServiceType(*req.Type)
		if !t.Valid() {
			return nil, ErrInvalidType
		}
		svc.Type = t
	}
	if req.Title != nil {
		svc.Title = *req.Title
	}
	if req.Description != nil {
		svc.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.BasePrice != nil {
		svc.BasePrice = *req.BasePrice
	}
	if req.Currency != nil {
		svc.Currency = *req.Currency
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	svc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete removes a service not referenced by any quote
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns filtered catalog services
func (s *CatalogService) List(ctx context.Context, f ListFilter) ([]*Service, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// UploadPhoto resizes, thumbnails, and stores one image for a service
func (s *CatalogService) UploadPhoto(ctx context.Context, serviceID uuid.UUID, filename string, reader io.Reader) (*Photo, error) {
	svc, _, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if !imaging.ValidateType(filename) {
		return nil, storage.ErrInvalidMimeType
	}

	processed, err := s.processor.Process(reader, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to process photo: %w", err)
	}

	photoID := uuid.New()
	originalKey, thumbKey := imaging.GeneratePaths(svc.ID.String(), photoID.String()+".jpg")

	if err := s.store.Put(ctx, originalKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		// best effort rollback of the original
		if delErr := s.store.Delete(ctx, originalKey); delErr != nil {
			log.Error().Err(delErr).Str("key", originalKey).Msg("Failed to clean up orphaned photo")
		}
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	p := &Photo{
		ID:        photoID,
		ServiceID: svc.ID,
		URL:       s.store.GetURL(originalKey),
		ThumbURL:  s.store.GetURL(thumbKey),
		Width:     processed.Width,
		Height:    processed.Height,
		CreatedAt: time.Now(),
	}

	if err := s.repo.AddPhoto(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("service_id", svc.ID.String()).
		Str("photo_id", p.ID.String()).
		Int("width", p.Width).
		Int("height", p.Height).
		Msg("Service photo uploaded")

	return p, nil
}

// DeletePhoto removes a photo row and its stored objects
func (s *CatalogService) DeletePhoto(ctx context.Context, serviceID, photoID uuid.UUID) error {
	p, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if p == nil || p.ServiceID != serviceID {
		return ErrPhotoNotFound
	}

	if err := s.repo.DeletePhoto(ctx, photoID); err != nil {
		return err
	}

	originalKey, thumbKey := imaging.GeneratePaths(serviceID.String(), photoID.String()+".jpg")
	if err := s.store.Delete(ctx, originalKey); err != nil {
		log.Error().Err(err).Str("key", originalKey).Msg("Failed to delete stored photo")
	}
	if err := s.store.Delete(ctx, thumbKey); err != nil {
		log.Error().Err(err).Str("key", thumbKey).Msg("Failed to delete stored thumbnail")
	}

	return nil
}
