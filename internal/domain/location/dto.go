package location

import (
	"strings"
	"time"

	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

type CreateLocationRequest struct {
	Name      string   `json:"name" validate:"max=100"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Radius    *float64 `json:"radius" validate:"omitempty,gt=0,lte=10000"`
}

func (r *CreateLocationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

// RadiusOrDefault returns the requested radius or DefaultRadiusMeters.
func (r CreateLocationRequest) RadiusOrDefault() float64 {
	if r.Radius == nil {
		return DefaultRadiusMeters
	}
	return *r.Radius
}

type UpdateLocationRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Radius    *float64 `json:"radius" validate:"omitempty,gt=0,lte=10000"`
}

func (r *UpdateLocationRequest) Validate() error {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	return validator.Struct(r)
}

// Apply merges the non-nil fields into l.
func (r UpdateLocationRequest) Apply(l Location) Location {
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Latitude != nil {
		l.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		l.Longitude = *r.Longitude
	}
	if r.Radius != nil {
		l.Radius = *r.Radius
	}
	return l
}

type DecodeQRRequest struct {
	Payload string `json:"payload" validate:"required"`
}

func (r *DecodeQRRequest) Validate() error {
	return validator.Struct(r)
}

type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Radius    float64   `json:"radius"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeleteLocationResponse struct {
	ID                string   `json:"id"`
	UnassignedUserIDs []string `json:"unassigned_user_ids"`
}

func NewLocationResponse(l Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Radius:    l.Radius,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
