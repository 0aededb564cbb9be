package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrEmployeeIDTaken     = errors.New("employee id is already assigned to another user")
	ErrNotAnEmployee       = errors.New("user is not an employee")
	ErrNotApproved         = errors.New("account is pending admin approval")
	ErrAlreadyApproved     = errors.New("employee is already approved")
	ErrAdminRequired       = errors.New("admin privilege required")
	ErrCannotDeleteAdmin   = errors.New("admin accounts cannot be deleted")
	ErrNoLocationsDefined  = errors.New("create a location before approving employees")
	ErrInvalidStatusFilter = errors.New("status must be one of: pending, approved, all")
)
