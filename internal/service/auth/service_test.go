package auth

import (
	"context"
	"testing"

	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
	"github.com/inout-app/inout-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

// stubVerifier treats the id token as a key into a fixed identity table.
type stubVerifier map[string]auth.GoogleIdentity

func (s stubVerifier) Verify(ctx context.Context, idToken string) (auth.GoogleIdentity, error) {
	identity, ok := s[idToken]
	if !ok {
		return auth.GoogleIdentity{}, auth.ErrInvalidIDToken
	}
	return identity, nil
}

var identities = stubVerifier{
	"employee-token": {Subject: "g-emp", Email: "emp@example.com", EmailVerified: true, Name: "Ravi", Picture: "https://example.com/ravi.png"},
	"admin-token":    {Subject: "g-admin", Email: "Boss@Example.com", EmailVerified: true, Name: "Boss"},
	"unverified":     {Subject: "g-unv", Email: "unv@example.com", EmailVerified: false},
}

func newTestAuthService() (auth.AuthService, user.UserRepository, jwt.Service) {
	users := memory.NewUserRepository(memory.NewStore())
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	return NewAuthService(users, jwtService, identities, []string{"boss@example.com"}), users, jwtService
}

func TestAuthService_LoginWithGoogle_FirstSignInCreatesEmployee(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.True(t, resp.FirstSignIn)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.AccessTokenExpiresIn, int64(0))
	assert.Equal(t, "g-emp", resp.User.UID)
	assert.False(t, resp.User.Approved)
	assert.False(t, resp.User.ProfileComplete)

	stored, err := users.GetByUID(ctx, "g-emp")
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, stored.Role)
	assert.Equal(t, "https://example.com/ravi.png", stored.PhotoURL)

	resp, err = svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.False(t, resp.FirstSignIn)
}

func TestAuthService_LoginWithGoogle_RoleMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "admin-token", Role: user.RoleEmployee})
	require.NoError(t, err)

	_, err = svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "admin-token", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, auth.ErrRoleMismatch)
}

func TestAuthService_LoginWithGoogle_AdminAllowList(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "admin-token", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, resp.User.Role)
	assert.True(t, resp.User.Approved)

	_, err = svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: user.RoleAdmin})
	assert.ErrorIs(t, err, auth.ErrAdminNotAllowed)
}

func TestAuthService_LoginWithGoogle_Rejections(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "bogus", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, auth.ErrInvalidIDToken)

	_, err = svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "unverified", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)

	_, err = svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: "manager"})
	assert.Error(t, err)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	login, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: user.RoleEmployee})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	assert.NoError(t, svc.Logout(ctx, login.RefreshToken))
	assert.ErrorIs(t, svc.Logout(ctx, "not-a-jwt"), auth.ErrInvalidToken)
}

func TestAuthService_StreamToken(t *testing.T) {
	svc, _, jwtService := newTestAuthService()
	ctx := context.Background()

	login, err := svc.LoginWithGoogle(ctx, auth.GoogleLoginRequest{IDToken: "employee-token", Role: user.RoleEmployee})
	require.NoError(t, err)

	stream, err := svc.StreamToken(ctx, login.User.UID)
	require.NoError(t, err)
	assert.Greater(t, stream.ExpiresIn, 0)

	uid, err := jwtService.ValidateSSEToken(stream.Token)
	require.NoError(t, err)
	assert.Equal(t, "g-emp", uid)

	_, err = svc.StreamToken(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
