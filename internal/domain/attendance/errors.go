package attendance

import (
	"errors"
	"fmt"
)

var (
	ErrNoLocationAssigned = errors.New("no office location assigned")
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrNotCheckedIn       = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out today")
	ErrRecordNotFound     = errors.New("attendance record not found")

	ErrBiometricFailed     = errors.New("biometric verification failed")
	ErrBiometricError      = errors.New("biometric verification could not complete")
	ErrLocationPermission  = errors.New("location permission denied")
	ErrLocationTimeout     = errors.New("timed out waiting for a location fix")
	ErrLocationUnavailable = errors.New("location unavailable")

	ErrNegativeDuration = errors.New("check-out time is earlier than check-in time")
	ErrInvalidDateRange = errors.New("start_date must not be after end_date")
)

// MalformedTimeError reports a stored or supplied clock value that is not "HH:mm".
type MalformedTimeError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed %s %q: expected HH:mm", e.Field, e.Value)
}

func (e *MalformedTimeError) Unwrap() error {
	return e.Err
}
