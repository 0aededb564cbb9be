package user

import "context"

type UserRepository interface {
	// Create inserts a new user. Returns ErrUserAlreadyExists if the uid is taken.
	Create(ctx context.Context, user User) (User, error)

	// GetByUID returns ErrUserNotFound when no document exists.
	GetByUID(ctx context.Context, uid string) (User, error)

	// List returns users matching filter, newest first.
	List(ctx context.Context, filter UserFilter) ([]User, error)

	// UpdateProfile sets name, phone and photo url.
	UpdateProfile(ctx context.Context, uid string, name, phone, photoURL string) error

	// Approve marks an employee approved with an employee id and location in one write.
	// Returns ErrEmployeeIDTaken when the employee id belongs to someone else.
	Approve(ctx context.Context, uid string, employeeID string, locationID string) error

	// AssignLocation changes the employee's assigned location.
	AssignLocation(ctx context.Context, uid string, locationID string) error

	// Delete removes the user document. Attendance history is kept.
	Delete(ctx context.Context, uid string) error
}
