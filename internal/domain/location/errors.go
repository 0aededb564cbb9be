package location

import "errors"

var (
	ErrLocationNotFound      = errors.New("location not found")
	ErrLocationMisconfigured = errors.New("location has an invalid geofence")
	ErrQRPayloadInvalid      = errors.New("qr payload does not reference a known location")
)
