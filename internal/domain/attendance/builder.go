package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

var errNotHHMM = errors.New("want zero-padded HH:mm")

func parseClock(field, value string) (time.Time, error) {
	if !validator.IsValidClock(value) {
		return time.Time{}, &MalformedTimeError{Field: field, Value: value, Err: errNotHHMM}
	}
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return time.Time{}, &MalformedTimeError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// CheckInInput carries everything needed to build a new record.
type CheckInInput struct {
	EmployeeID     string
	Name           string
	Now            time.Time
	Latitude       float64
	Longitude      float64
	LocationID     string
	LocationName   string
	DistanceMeters float64
}

// BuildCheckIn creates the record written at check-in. Now must already be in
// the business timezone since Date and CheckInTime are taken from it.
func BuildCheckIn(in CheckInInput) Record {
	date := in.Now.Format(DateLayout)
	return Record{
		ID:                  RecordID(in.EmployeeID, date),
		EmployeeID:          in.EmployeeID,
		Name:                in.Name,
		Date:                date,
		Timestamp:           in.Now,
		CheckInTime:         in.Now.Format(ClockLayout),
		CheckInLat:          in.Latitude,
		CheckInLng:          in.Longitude,
		FingerprintVerified: true,
		LocationVerified:    true,
		LocationID:          in.LocationID,
		LocationName:        in.LocationName,
		DistanceMeters:      in.DistanceMeters,
	}
}

// BuildCheckOut computes the check-out update for an existing record.
func BuildCheckOut(existing Record, checkOutTime string, lat, lng float64) (CheckOutUpdate, error) {
	if existing.HasCheckedOut() {
		return CheckOutUpdate{}, ErrAlreadyCheckedOut
	}

	total, err := CalculateDuration(existing.CheckInTime, checkOutTime)
	if err != nil {
		return CheckOutUpdate{}, err
	}

	return CheckOutUpdate{
		CheckOutTime: checkOutTime,
		CheckOutLat:  lat,
		CheckOutLng:  lng,
		TotalHours:   total,
	}, nil
}

// CalculateDuration returns the elapsed time between two same-day "HH:mm"
// values formatted as "<h>h <m>m". Shifts that cross midnight are rejected
// with ErrNegativeDuration.
func CalculateDuration(checkIn, checkOut string) (string, error) {
	start, err := parseClock("check_in_time", checkIn)
	if err != nil {
		return "", err
	}
	end, err := parseClock("check_out_time", checkOut)
	if err != nil {
		return "", err
	}

	minutes := int(end.Sub(start).Minutes())
	if minutes < 0 {
		return "", ErrNegativeDuration
	}

	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60), nil
}
