package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/inout-app/inout-backend-go/internal/pkg/secure"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
	"github.com/inout-app/inout-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var malformed *attendance.MalformedTimeError
	if errors.As(err, &malformed) {
		UnprocessableEntity(w, malformed.Error())
		return
	}

	switch {
	// Store
	case database.IsUnavailable(err):
		slog.Warn("Store unavailable", "error", err)
		ServiceUnavailable(w, "Storage is temporarily unavailable, please retry")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidIDToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrRoleMismatch):
		Forbidden(w, "This account is registered with a different role")
	case errors.Is(err, auth.ErrAdminNotAllowed):
		Forbidden(w, err.Error())

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserAlreadyExists):
		Conflict(w, "User already exists")
	case errors.Is(err, user.ErrEmployeeIDTaken):
		Conflict(w, "Employee ID is already in use")
	case errors.Is(err, user.ErrAlreadyApproved):
		Conflict(w, "Employee is already approved")
	case errors.Is(err, user.ErrNotApproved):
		ForbiddenCode(w, "NOT_APPROVED", "Waiting for Admin approval")
	case errors.Is(err, user.ErrNotAnEmployee), errors.Is(err, user.ErrAdminRequired), errors.Is(err, user.ErrCannotDeleteAdmin):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrNoLocationsDefined):
		UnprocessableEntity(w, "Create a location before approving employees")
	case errors.Is(err, user.ErrInvalidStatusFilter):
		BadRequest(w, err.Error(), nil)

	// Location domain errors
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, location.ErrLocationMisconfigured):
		UnprocessableEntity(w, "Assigned location has an invalid radius, contact your admin")
	case errors.Is(err, location.ErrQRPayloadInvalid):
		BadRequest(w, "QR code does not belong to a known location", nil)
	case errors.Is(err, secure.ErrDecryptionFailed):
		BadRequest(w, "QR code could not be read", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNoLocationAssigned):
		ForbiddenCode(w, "NO_LOCATION_ASSIGNED", "Waiting for Admin to assign an office location")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "Not checked in yet")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrBiometricFailed):
		ForbiddenCode(w, "BIOMETRIC_FAILED", "Fingerprint not recognised")
	case errors.Is(err, attendance.ErrBiometricError):
		ForbiddenCode(w, "BIOMETRIC_ERROR", "Fingerprint verification could not complete")
	case errors.Is(err, attendance.ErrLocationPermission):
		ForbiddenCode(w, "LOCATION_PERMISSION_DENIED", "Location permission is required")
	case errors.Is(err, attendance.ErrLocationTimeout):
		GatewayTimeout(w, "Timed out waiting for a GPS fix")
	case errors.Is(err, attendance.ErrLocationUnavailable):
		UnprocessableEntity(w, "Location unavailable, enable GPS and retry")
	case errors.Is(err, attendance.ErrNegativeDuration):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Files
	case errors.Is(err, file.ErrInvalidFileType), errors.Is(err, file.ErrInvalidImage):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrFileTooLarge):
		BadRequest(w, "File must not exceed 5MB", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
