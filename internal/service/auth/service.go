package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
	"github.com/inout-app/inout-backend-go/internal/pkg/oauth"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	idTokenVerifier oauth.IDTokenVerifier
	adminEmails     map[string]struct{}
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, idTokenVerifier oauth.IDTokenVerifier, adminEmails []string) auth.AuthService {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			allowed[email] = struct{}{}
		}
	}
	return &AuthServiceImpl{
		UserRepository:  userRepository,
		Service:         jwtService,
		idTokenVerifier: idTokenVerifier,
		adminEmails:     allowed,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AuthServiceImpl) isAdminEmail(email string) bool {
	_, ok := a.adminEmails[normalizeEmail(email)]
	return ok
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, req auth.GoogleLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	identity, err := a.idTokenVerifier.Verify(ctx, req.IDToken)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return a.LoginWithGoogleIdentity(ctx, identity, req.Role)
}

// LoginWithGoogleIdentity implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogleIdentity(ctx context.Context, identity auth.GoogleIdentity, role user.Role) (auth.TokenResponse, error) {
	if !role.Valid() {
		return auth.TokenResponse{}, auth.ErrRoleMismatch
	}
	if identity.Subject == "" {
		return auth.TokenResponse{}, auth.ErrInvalidIDToken
	}
	if !validator.IsValidEmail(identity.Email) {
		return auth.TokenResponse{}, auth.ErrInvalidIDToken
	}
	if !identity.EmailVerified {
		return auth.TokenResponse{}, auth.ErrEmailNotVerified
	}
	if role == user.RoleAdmin && !a.isAdminEmail(identity.Email) {
		slog.Warn("Admin sign-in refused", "email", identity.Email)
		return auth.TokenResponse{}, auth.ErrAdminNotAllowed
	}

	firstSignIn := false
	userData, err := a.UserRepository.GetByUID(ctx, identity.Subject)
	if errors.Is(err, user.ErrUserNotFound) {
		userData, err = a.UserRepository.Create(ctx, user.User{
			UID:      identity.Subject,
			Email:    identity.Email,
			Role:     role,
			Approved: role == user.RoleAdmin,
			Name:     identity.Name,
			PhotoURL: identity.Picture,
		})
		if errors.Is(err, user.ErrUserAlreadyExists) {
			// Lost a race with a concurrent first sign-in.
			userData, err = a.UserRepository.GetByUID(ctx, identity.Subject)
		} else if err == nil {
			firstSignIn = true
			slog.Info("User created on first sign-in", "uid", userData.UID, "role", userData.Role)
		}
	}
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to load user: %w", err)
	}

	if userData.Role != role {
		return auth.TokenResponse{}, auth.ErrRoleMismatch
	}

	tokenResponse, err := a.issueTokens(userData)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	tokenResponse.FirstSignIn = firstSignIn
	return tokenResponse, nil
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	var (
		tokenResponse auth.TokenResponse
		err           error
	)

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.UID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	tokenResponse.User = user.NewUserResponse(u)
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenRevoked) {
			return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByUID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	var accessTokenResponse auth.AccessTokenResponse
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessTokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" || a.Service.IsTokenRevoked(refreshToken) {
		return nil
	}

	token, err := jwtauth.VerifyToken(a.Service.JWTAuth(), refreshToken)
	if err != nil {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(refreshToken, token.Expiration().Unix())
	return nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context, uid string) (auth.StreamTokenResponse, error) {
	if _, err := a.UserRepository.GetByUID(ctx, uid); err != nil {
		return auth.StreamTokenResponse{}, err
	}

	token, expiresIn, err := a.Service.GenerateSSEToken(uid)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
