package user

import (
	"strings"
	"time"

	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusAll      = "all"
)

// UserFilter narrows List. Nil fields are not filtered on.
type UserFilter struct {
	Role       *Role
	Approved   *bool
	LocationID *string
}

type ListEmployeesRequest struct {
	Status string `json:"status"`
}

func (r *ListEmployeesRequest) Validate() error {
	if r.Status == "" {
		r.Status = StatusAll
	}
	if !validator.IsInSlice(r.Status, []string{StatusPending, StatusApproved, StatusAll}) {
		return ErrInvalidStatusFilter
	}
	return nil
}

// Filter converts the request into a repository filter.
func (r ListEmployeesRequest) Filter() UserFilter {
	role := RoleEmployee
	filter := UserFilter{Role: &role}
	switch r.Status {
	case StatusPending:
		approved := false
		filter.Approved = &approved
	case StatusApproved:
		approved := true
		filter.Approved = &approved
	}
	return filter
}

type ApproveEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	LocationID string `json:"location_id" validate:"required"`
}

func (r *ApproveEmployeeRequest) Validate() error {
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if !validator.IsValidEmployeeID(r.EmployeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id must be 2-32 letters, digits, '-' or '_'",
		}}
	}
	return nil
}

type AssignLocationRequest struct {
	LocationID string `json:"location_id" validate:"required"`
}

func (r *AssignLocationRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	}

	if validator.IsEmpty(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone is required"})
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone must be 7-15 digits"})
	}

	if r.PhotoURL != "" && !strings.HasPrefix(r.PhotoURL, "https://") && !strings.HasPrefix(r.PhotoURL, "http://") {
		errs = append(errs, validator.ValidationError{Field: "photo_url", Message: "photo_url must be an http(s) URL"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UserResponse struct {
	UID                string    `json:"uid"`
	Email              string    `json:"email"`
	Role               Role      `json:"role"`
	Approved           bool      `json:"approved"`
	EmployeeID         *string   `json:"employee_id"`
	AssignedLocationID *string   `json:"assigned_location_id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	PhotoURL           string    `json:"photo_url"`
	ProfileComplete    bool      `json:"profile_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		UID:                u.UID,
		Email:              u.Email,
		Role:               u.Role,
		Approved:           u.Approved,
		EmployeeID:         u.EmployeeID,
		AssignedLocationID: u.AssignedLocationID,
		Name:               u.Name,
		Phone:              u.Phone,
		PhotoURL:           u.PhotoURL,
		ProfileComplete:    u.Name != "" && u.Phone != "",
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
