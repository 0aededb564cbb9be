package auth

import (
	"context"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
)

type AuthService interface {
	// LoginWithGoogle verifies a Google ID token and signs the user in,
	// creating the user document on first sign-in.
	LoginWithGoogle(ctx context.Context, req GoogleLoginRequest) (TokenResponse, error)

	// LoginWithGoogleIdentity signs in an identity already verified through the
	// browser OAuth flow.
	LoginWithGoogleIdentity(ctx context.Context, identity GoogleIdentity, role user.Role) (TokenResponse, error)

	// RefreshToken issues a new access token for a valid refresh token.
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Logout revokes the refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// StreamToken issues a short-lived token for the status stream.
	StreamToken(ctx context.Context, uid string) (StreamTokenResponse, error)
}
