package attendance

import "time"

const (
	// DateLayout is the calendar date format of Record.Date.
	DateLayout = "2006-01-02"
	// ClockLayout is the wall-clock format of check-in and check-out times.
	ClockLayout = "15:04"
)

// Record is one employee's attendance for one calendar date.
// At most one record exists per (EmployeeID, Date).
type Record struct {
	ID                  string
	EmployeeID          string
	Name                string
	Date                string
	Timestamp           time.Time
	CheckInTime         string
	CheckInLat          float64
	CheckInLng          float64
	CheckOutTime        *string
	CheckOutLat         *float64
	CheckOutLng         *float64
	TotalHours          *string
	FingerprintVerified bool
	LocationVerified    bool
	LocationID          string
	LocationName        string
	DistanceMeters      float64
}

// RecordID builds the deterministic record key "<employeeID>_<date>".
func RecordID(employeeID, date string) string {
	return employeeID + "_" + date
}

func (r Record) HasCheckedOut() bool {
	return r.CheckOutTime != nil && *r.CheckOutTime != ""
}

// CheckOutUpdate is the partial update applied to a record at check-out.
type CheckOutUpdate struct {
	CheckOutTime string
	CheckOutLat  float64
	CheckOutLng  float64
	TotalHours   string
}
