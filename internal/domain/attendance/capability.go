package attendance

import (
	"context"

	"github.com/inout-app/inout-backend-go/internal/pkg/geofence"
)

type BiometricOutcome string

const (
	BiometricSuccess BiometricOutcome = "success"
	BiometricError   BiometricOutcome = "error"
	BiometricFailed  BiometricOutcome = "failed"
)

// BiometricGate confirms the person at the device is the signed-in user.
type BiometricGate interface {
	Authenticate(ctx context.Context) (BiometricOutcome, error)
}

// LocationSource yields one current GPS fix. Implementations must honour
// ctx cancellation; a deadline is applied by the caller.
type LocationSource interface {
	CurrentLocation(ctx context.Context) (geofence.Coordinate, error)
}

const (
	LocationErrorPermissionDenied = "permission_denied"
	LocationErrorTimeout          = "timeout"
	LocationErrorUnavailable      = "unavailable"
)

// DeviceReport adapts what the mobile client reports after running the
// fingerprint prompt and requesting a GPS fix. It satisfies both BiometricGate
// and LocationSource.
type DeviceReport struct {
	Biometric     BiometricOutcome
	Coordinate    *geofence.Coordinate
	LocationError string
}

func (d DeviceReport) Authenticate(ctx context.Context) (BiometricOutcome, error) {
	if err := ctx.Err(); err != nil {
		return BiometricError, err
	}
	switch d.Biometric {
	case BiometricSuccess, BiometricFailed:
		return d.Biometric, nil
	default:
		return BiometricError, nil
	}
}

func (d DeviceReport) CurrentLocation(ctx context.Context) (geofence.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geofence.Coordinate{}, err
	}
	switch d.LocationError {
	case LocationErrorPermissionDenied:
		return geofence.Coordinate{}, ErrLocationPermission
	case LocationErrorTimeout:
		return geofence.Coordinate{}, ErrLocationTimeout
	case LocationErrorUnavailable:
		return geofence.Coordinate{}, ErrLocationUnavailable
	}
	if d.Coordinate == nil {
		return geofence.Coordinate{}, ErrLocationUnavailable
	}
	return *d.Coordinate, nil
}
