package attendance

import "context"

type AttendanceService interface {
	// Status returns the caller's current state, permissions and message.
	Status(ctx context.Context, uid string) (StatusResponse, error)

	// CheckIn runs the check-in pipeline: state, biometric gate, location fix,
	// geofence and a create-if-absent write.
	CheckIn(ctx context.Context, uid string, gate BiometricGate, source LocationSource) (ActionResult, error)

	// CheckOut runs the same pipeline and closes today's record.
	CheckOut(ctx context.Context, uid string, gate BiometricGate, source LocationSource) (ActionResult, error)

	// History returns the caller's own records, newest first.
	History(ctx context.Context, uid string, req HistoryRequest) ([]RecordResponse, error)

	// List is the admin view of one employee's records or of one day.
	List(ctx context.Context, req ListAttendanceRequest) ([]RecordResponse, error)

	// OpenShifts lists records of date without a check-out.
	OpenShifts(ctx context.Context, date string) ([]OpenShift, error)

	// ReportOpenShifts pushes the open shifts of the previous business day
	// to every connected admin and returns them.
	ReportOpenShifts(ctx context.Context) ([]OpenShift, error)

	// Subscribe streams status changes for uid until ctx is done or cleanup is called.
	Subscribe(ctx context.Context, uid string) (<-chan StreamEvent, func())

	// NotifyStatus recomputes and publishes the status of each uid.
	NotifyStatus(ctx context.Context, uids ...string)
}

// StatusNotifier is the part of AttendanceService other services use to push
// status changes after they modify a user or location.
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, uids ...string)
}
