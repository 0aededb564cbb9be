package location

import (
	"time"

	"github.com/inout-app/inout-backend-go/internal/pkg/geofence"
)

// DefaultRadiusMeters is used when an admin creates a location without a radius.
const DefaultRadiusMeters = 100

// Location is an office geofence.
type Location struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
	Radius    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l Location) Coordinate() geofence.Coordinate {
	return geofence.Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}
