package location

import (
	"time"

	"github.com/google/uuid"
)

// CreateLocationRequest for adding a destination
type CreateLocationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Country  string `json:"country" validate:"required,min=2,max=100"`
	Region   string `json:"region,omitempty" validate:"omitempty,max=100"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,max=64"`
}

// UpdateLocationRequest is a shallow patch
type UpdateLocationRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Country  *string `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
	Region   *string `json:"region,omitempty" validate:"omitempty,max=100"`
	Timezone *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Active   *bool   `json:"active,omitempty"`
}

// LocationResponse for API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Region    string    `json:"region,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"created_at"`
}

// ToResponse converts entity to response
func ToResponse(l *Location) *LocationResponse {
	resp := &LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Country:   l.Country,
		Active:    l.Active,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.Region.Valid {
		resp.Region = l.Region.String
	}
	if l.Timezone.Valid {
		resp.Timezone = l.Timezone.String
	}
	return resp
}
