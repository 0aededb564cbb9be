package attendance

import (
	"fmt"

	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
)

// State is where an employee stands for the current day.
type State string

const (
	StateNoLocationAssigned State = "no_location_assigned"
	StateReadyToCheckIn     State = "ready_to_check_in"
	StateCheckedIn          State = "checked_in"
	StateShiftCompleted     State = "shift_completed"
)

// Permissions are the actions allowed in a state.
type Permissions struct {
	CanCheckIn  bool `json:"can_check_in"`
	CanCheckOut bool `json:"can_check_out"`
}

func (s State) Permissions() Permissions {
	switch s {
	case StateReadyToCheckIn:
		return Permissions{CanCheckIn: true}
	case StateCheckedIn:
		return Permissions{CanCheckOut: true}
	default:
		return Permissions{}
	}
}

// CurrentState derives the state from the user, their assigned location and
// today's record (nil when absent). Without an approved employee and a
// resolved location the state is always StateNoLocationAssigned.
func CurrentState(u *user.User, loc *location.Location, today *Record) State {
	if u == nil || !u.CanTrackAttendance() || !u.HasAssignedLocation() || loc == nil {
		return StateNoLocationAssigned
	}
	if today == nil {
		return StateReadyToCheckIn
	}
	if today.HasCheckedOut() {
		return StateShiftCompleted
	}
	return StateCheckedIn
}

// StatusMessage is the human readable line shown for a state.
func StatusMessage(state State, u *user.User, loc *location.Location, today *Record) string {
	switch state {
	case StateReadyToCheckIn:
		return fmt.Sprintf("Status: Not Checked In (%s)", loc.Name)
	case StateCheckedIn:
		return fmt.Sprintf("Status: Checked In at %s", today.CheckInTime)
	case StateShiftCompleted:
		total := ""
		if today.TotalHours != nil {
			total = *today.TotalHours
		}
		return fmt.Sprintf("Status: Day Completed (%s)", total)
	}

	if u != nil && u.Role == user.RoleEmployee && !u.CanTrackAttendance() {
		return "Status: Waiting for Admin approval."
	}
	return "Status: Waiting for Admin to assign an office location."
}

// ActionError maps a refused action in state to its error.
func ActionError(state State, checkIn bool) error {
	switch state {
	case StateNoLocationAssigned:
		return ErrNoLocationAssigned
	case StateReadyToCheckIn:
		if !checkIn {
			return ErrNotCheckedIn
		}
	case StateCheckedIn:
		if checkIn {
			return ErrAlreadyCheckedIn
		}
	case StateShiftCompleted:
		if checkIn {
			return ErrAlreadyCheckedIn
		}
		return ErrAlreadyCheckedOut
	}
	return nil
}
