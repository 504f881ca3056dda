package catalog

import (
	"time"

	"github.com/google/uuid"
)

// CreateServiceRequest for adding a catalog service
type CreateServiceRequest struct {
	VendorID   string `json:"vendor_id" validate:"required,uuid"`
	LocationID string `json:"location_id,omitempty" validate:"omitempty,uuid"`

	Type        string `json:"type" validate:"required,item_type"`
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`

	BasePrice float64 `json:"base_price" validate:"required,gte=0"`
	Currency  string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// UpdateServiceRequest is a shallow patch
type UpdateServiceRequest struct {
	LocationID  *string  `json:"location_id,omitempty" validate:"omitempty,uuid"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,item_type"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	BasePrice   *float64 `json:"base_price,omitempty" validate:"omitempty,gte=0"`
	Currency    *string  `json:"currency,omitempty" validate:"omitempty,len=3"`
	Active      *bool    `json:"active,omitempty"`
}

// PhotoResponse for API responses
type PhotoResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	ThumbURL string    `json:"thumb_url"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

// ServiceResponse for API responses
type ServiceResponse struct {
	ID          uuid.UUID `json:"id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	LocationID  string    `json:"location_id,omitempty"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	Currency    string    `json:"currency"`
	Active      bool      `json:"active"`
	CreatedAt   string    `json:"created_at"`

	Photos []PhotoResponse `json:"photos,omitempty"`
}

// ToResponse converts entity to response
func ToResponse(s *Service, photos []Photo) *ServiceResponse {
	resp := &ServiceResponse{
		ID:        s.ID,
		VendorID:  s.VendorID,
		Type:      string(s.Type),
		Title:     s.Title,
		BasePrice: s.BasePrice,
		Currency:  s.Currency,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if s.LocationID.Valid {
		resp.LocationID = s.LocationID.UUID.String()
	}
	if s.Description.Valid {
		resp.Description = s.Description.String
	}

	for _, p := range photos {
		resp.Photos = append(resp.Photos, PhotoResponse{
			ID:       p.ID,
			URL:      p.URL,
			ThumbURL: p.ThumbURL,
			Width:    p.Width,
			Height:   p.Height,
		})
	}

	return resp
}
