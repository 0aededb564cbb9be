package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	userRepo     user.UserRepository
	locationRepo location.LocationRepository
	notifier     attendance.StatusNotifier
}

func NewEmployeeService(userRepo user.UserRepository, locationRepo location.LocationRepository, notifier attendance.StatusNotifier) user.EmployeeService {
	return &EmployeeServiceImpl{
		userRepo:     userRepo,
		locationRepo: locationRepo,
		notifier:     notifier,
	}
}

// List implements user.EmployeeService.
func (e *EmployeeServiceImpl) List(ctx context.Context, req user.ListEmployeesRequest) ([]user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	users, err := e.userRepo.List(ctx, req.Filter())
	if err != nil {
		return nil, err
	}

	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.NewUserResponse(u))
	}
	return resp, nil
}

func (e *EmployeeServiceImpl) getEmployee(ctx context.Context, uid string) (user.User, error) {
	u, err := e.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return user.User{}, err
	}
	if u.Role != user.RoleEmployee {
		return user.User{}, user.ErrNotAnEmployee
	}
	return u, nil
}

// requireLocation fails with ErrNoLocationsDefined when no location exists at
// all, so the admin is told to create one first.
func (e *EmployeeServiceImpl) requireLocation(ctx context.Context, id string) error {
	_, err := e.locationRepo.GetByID(ctx, id)
	if err == nil {
		return nil
	}

	locations, listErr := e.locationRepo.List(ctx)
	if listErr != nil {
		return listErr
	}
	if len(locations) == 0 {
		return user.ErrNoLocationsDefined
	}
	return err
}

// Approve implements user.EmployeeService.
func (e *EmployeeServiceImpl) Approve(ctx context.Context, uid string, req user.ApproveEmployeeRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := e.getEmployee(ctx, uid)
	if err != nil {
		return user.UserResponse{}, err
	}
	if u.Approved {
		return user.UserResponse{}, user.ErrAlreadyApproved
	}

	if err := e.requireLocation(ctx, req.LocationID); err != nil {
		return user.UserResponse{}, err
	}

	if err := e.userRepo.Approve(ctx, uid, req.EmployeeID, req.LocationID); err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("Employee approved", "uid", uid, "employee_id", req.EmployeeID, "location_id", req.LocationID)

	e.notifier.NotifyStatus(ctx, uid)
	return e.reload(ctx, uid)
}

// AssignLocation implements user.EmployeeService.
func (e *EmployeeServiceImpl) AssignLocation(ctx context.Context, uid string, req user.AssignLocationRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	u, err := e.getEmployee(ctx, uid)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !u.Approved {
		return user.UserResponse{}, user.ErrNotApproved
	}

	if err := e.requireLocation(ctx, req.LocationID); err != nil {
		return user.UserResponse{}, err
	}

	if err := e.userRepo.AssignLocation(ctx, uid, req.LocationID); err != nil {
		return user.UserResponse{}, err
	}
	slog.Info("Employee location assigned", "uid", uid, "location_id", req.LocationID)

	e.notifier.NotifyStatus(ctx, uid)
	return e.reload(ctx, uid)
}

// Delete implements user.EmployeeService.
func (e *EmployeeServiceImpl) Delete(ctx context.Context, uid string) error {
	u, err := e.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if u.IsAdmin() {
		return user.ErrCannotDeleteAdmin
	}

	if err := e.userRepo.Delete(ctx, uid); err != nil {
		return err
	}
	slog.Info("Employee deleted", "uid", uid)

	e.notifier.NotifyStatus(ctx, uid)
	return nil
}

func (e *EmployeeServiceImpl) reload(ctx context.Context, uid string) (user.UserResponse, error) {
	u, err := e.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to reload employee: %w", err)
	}
	return user.NewUserResponse(u), nil
}
