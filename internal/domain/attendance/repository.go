package attendance

import "context"

type AttendanceRepository interface {
	// GetByID returns nil, nil when the record does not exist.
	GetByID(ctx context.Context, id string) (*Record, error)

	// CreateIfAbsent writes record only if no record with the same id exists.
	// Returns ErrAlreadyCheckedIn otherwise.
	CreateIfAbsent(ctx context.Context, record Record) error

	// UpdateCheckOut applies update only while the record has no check-out.
	// Returns ErrRecordNotFound or ErrAlreadyCheckedOut.
	UpdateCheckOut(ctx context.Context, id string, update CheckOutUpdate) error

	// ListByEmployee returns the employee's records, newest first.
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Record, error)

	// ListByDate returns every record of a calendar date.
	ListByDate(ctx context.Context, date string) ([]Record, error)

	// ListOpenByDate returns records of date that were never checked out.
	ListOpenByDate(ctx context.Context, date string) ([]Record, error)
}
