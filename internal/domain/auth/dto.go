package auth

import (
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

// GoogleLoginRequest is sent by the mobile app after Google sign-in.
// Role is the role the user picked on the login screen.
type GoogleLoginRequest struct {
	IDToken string    `json:"id_token" validate:"required"`
	Role    user.Role `json:"role" validate:"required,oneof=admin employee"`
}

func (r *GoogleLoginRequest) Validate() error {
	return validator.Struct(r)
}

// GoogleIdentity is the verified subset of a Google account.
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}
	if len(r.RefreshToken) > 2048 {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token must not exceed 2048 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresIn  int64             `json:"access_token_expires_in"`
	RefreshToken          string            `json:"refresh_token"`
	RefreshTokenExpiresIn int64             `json:"refresh_token_expires_in"`
	User                  user.UserResponse `json:"user"`
	FirstSignIn           bool              `json:"first_sign_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
