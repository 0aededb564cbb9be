package user

import (
	"context"
	"io"
)

// ProfileService serves the signed-in user's own profile.
type ProfileService interface {
	// GetProfile returns the caller's user document.
	GetProfile(ctx context.Context, uid string) (UserResponse, error)

	// UpdateProfile sets name and phone (both required) and an optional photo url.
	UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) (UserResponse, error)

	// UploadPhoto stores a resized avatar and saves its URL on the profile.
	UploadPhoto(ctx context.Context, uid string, file io.Reader, filename string) (UserResponse, error)
}

// EmployeeService is the admin view over employee accounts.
type EmployeeService interface {
	// List returns employees filtered by approval status.
	List(ctx context.Context, req ListEmployeesRequest) ([]UserResponse, error)

	// Approve assigns an employee id and office location and approves the account.
	Approve(ctx context.Context, uid string, req ApproveEmployeeRequest) (UserResponse, error)

	// AssignLocation moves an approved employee to another location.
	AssignLocation(ctx context.Context, uid string, req AssignLocationRequest) (UserResponse, error)

	// Delete removes an employee account.
	Delete(ctx context.Context, uid string) error
}
