package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is keyed by the identity provider's subject (uid).
type User struct {
	UID                string
	Email              string
	Role               Role
	Approved           bool
	EmployeeID         *string
	AssignedLocationID *string
	Name               string
	Phone              string
	PhotoURL           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanTrackAttendance reports whether the user has been approved and given an employee id.
func (u User) CanTrackAttendance() bool {
	return u.Role == RoleEmployee && u.Approved && u.EmployeeID != nil && *u.EmployeeID != ""
}

func (u User) HasAssignedLocation() bool {
	return u.AssignedLocationID != nil && *u.AssignedLocationID != ""
}

// DisplayName falls back to the email when no profile name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
