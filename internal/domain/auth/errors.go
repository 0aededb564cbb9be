package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrInvalidIDToken      = errors.New("google id token is invalid")
	ErrEmailNotVerified    = errors.New("google account email is not verified")
	ErrRoleMismatch        = errors.New("account role mismatch")
	ErrAdminNotAllowed     = errors.New("this account is not allowed to sign in as admin")
	ErrStateCookieEmpty    = errors.New("oauth state cookie is empty")
	ErrStateParamEmpty     = errors.New("oauth state parameter is empty")
	ErrStateMismatch       = errors.New("oauth state mismatch")
	ErrCodeValueEmpty      = errors.New("oauth code is empty")
	ErrGoogleAccessDenied  = errors.New("google access denied by user")
)
