package attendance

import (
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/pkg/geofence"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500

	ReasonOutsideGeofence = "outside_geofence"
)

// ActionRequest is the body of check-in and check-out calls.
type ActionRequest struct {
	Biometric     string   `json:"biometric" validate:"required,oneof=success error failed"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LocationError string   `json:"location_error" validate:"omitempty,oneof=permission_denied timeout unavailable"`
}

func (r *ActionRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		return validator.ValidationErrors{{
			Field:   "coordinate",
			Message: "latitude and longitude must be sent together",
		}}
	}
	return nil
}

func (r ActionRequest) DeviceReport() DeviceReport {
	report := DeviceReport{
		Biometric:     BiometricOutcome(r.Biometric),
		LocationError: r.LocationError,
	}
	if r.Latitude != nil && r.Longitude != nil {
		report.Coordinate = &geofence.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return report
}

// HistoryFilter is the repository-level filter for record lists.
type HistoryFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}

type HistoryRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Limit     int    `json:"limit"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if r.StartDate != "" {
		if start, startOK = validator.IsValidDate(r.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != "" {
		if end, endOK = validator.IsValidDate(r.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if r.Limit < 0 || r.Limit > MaxHistoryLimit {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be between 1 and 500"})
	}

	if len(errs) > 0 {
		return errs
	}
	if startOK && endOK && start.After(end) {
		return ErrInvalidDateRange
	}
	if r.Limit == 0 {
		r.Limit = DefaultHistoryLimit
	}
	return nil
}

func (r HistoryRequest) Filter() HistoryFilter {
	return HistoryFilter{StartDate: r.StartDate, EndDate: r.EndDate, Limit: r.Limit}
}

// ListAttendanceRequest is the admin query. With EmployeeID it returns that
// employee's history, otherwise every record on Date.
type ListAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	HistoryRequest
}

func (r *ListAttendanceRequest) Validate() error {
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			return validator.ValidationErrors{{Field: "date", Message: "date must be YYYY-MM-DD"}}
		}
	}
	return r.HistoryRequest.Validate()
}

type RecordResponse struct {
	ID                  string    `json:"id"`
	EmployeeID          string    `json:"employee_id"`
	Name                string    `json:"name"`
	Date                string    `json:"date"`
	Timestamp           time.Time `json:"timestamp"`
	CheckInTime         string    `json:"check_in_time"`
	CheckInLat          float64   `json:"check_in_lat"`
	CheckInLng          float64   `json:"check_in_lng"`
	CheckOutTime        *string   `json:"check_out_time"`
	CheckOutLat         *float64  `json:"check_out_lat"`
	CheckOutLng         *float64  `json:"check_out_lng"`
	TotalHours          *string   `json:"total_hours"`
	FingerprintVerified bool      `json:"fingerprint_verified"`
	LocationVerified    bool      `json:"location_verified"`
	LocationID          string    `json:"location_id,omitempty"`
	LocationName        string    `json:"location_name,omitempty"`
	DistanceMeters      float64   `json:"distance_meters"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:                  r.ID,
		EmployeeID:          r.EmployeeID,
		Name:                r.Name,
		Date:                r.Date,
		Timestamp:           r.Timestamp,
		CheckInTime:         r.CheckInTime,
		CheckInLat:          r.CheckInLat,
		CheckInLng:          r.CheckInLng,
		CheckOutTime:        r.CheckOutTime,
		CheckOutLat:         r.CheckOutLat,
		CheckOutLng:         r.CheckOutLng,
		TotalHours:          r.TotalHours,
		FingerprintVerified: r.FingerprintVerified,
		LocationVerified:    r.LocationVerified,
		LocationID:          r.LocationID,
		LocationName:        r.LocationName,
		DistanceMeters:      r.DistanceMeters,
	}
}

type StatusResponse struct {
	State       State                      `json:"state"`
	Permissions Permissions                `json:"permissions"`
	Message     string                     `json:"message"`
	Date        string                     `json:"date"`
	EmployeeID  *string                    `json:"employee_id"`
	Location    *location.LocationResponse `json:"location,omitempty"`
	Today       *RecordResponse            `json:"today,omitempty"`
}

// ActionResult is returned by check-in and check-out. A geofence rejection
// is Accepted=false with Reason set, not an error.
type ActionResult struct {
	Accepted       bool            `json:"accepted"`
	Reason         string          `json:"reason,omitempty"`
	Message        string          `json:"message"`
	DistanceMeters *float64        `json:"distance_meters,omitempty"`
	Record         *RecordResponse `json:"record,omitempty"`
	Status         StatusResponse  `json:"status"`
}

// OpenShift is a record left without a check-out at the end of its day.
type OpenShift struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	CheckInTime string `json:"check_in_time"`
}

// StreamEvent is pushed on the status stream.
type StreamEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
