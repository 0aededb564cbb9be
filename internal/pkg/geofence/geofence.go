package geofence

import (
	"errors"
	"math"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000

var (
	ErrCoordinateUnavailable = errors.New("coordinate unavailable")
	ErrInvalidRadius         = errors.New("geofence radius must be greater than zero")
	ErrInvalidCoordinate     = errors.New("coordinate out of range")
)

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is finite and inside the lat/lng bounds.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Result is the outcome of a geofence check.
type Result struct {
	WithinRadius   bool    `json:"within_radius"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinate) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Validate checks whether observed lies within radius meters of target.
// A missing coordinate on either side never passes.
func Validate(observed, target *Coordinate, radius float64) (Result, error) {
	if observed == nil || target == nil {
		return Result{}, ErrCoordinateUnavailable
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Result{}, ErrInvalidRadius
	}
	if !observed.Valid() || !target.Valid() {
		return Result{}, ErrInvalidCoordinate
	}

	distance := Distance(*observed, *target)
	return Result{
		WithinRadius:   distance <= radius,
		DistanceMeters: distance,
	}, nil
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
