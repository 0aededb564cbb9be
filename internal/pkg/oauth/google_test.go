package oauth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGenerateState(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://localhost/callback", []string{"email"})

	first := svc.GenerateState("agent")
	second := svc.GenerateState("agent")
	assert.NotEqual(t, first, second)

	raw, err := base64.URLEncoding.DecodeString(first)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(raw), ".agent"))
}

func TestRedirectURL(t *testing.T) {
	svc := NewGoogleService("client", "secret", "http://localhost/callback", []string{"email", "profile"})

	url := svc.RedirectURL("abc")
	assert.Contains(t, url, "state=abc")
	assert.Contains(t, url, "client_id=client")
}

func TestVerifyUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sub-1","email":"admin@example.com","verified_email":true,"name":"Admin"}`))
	}))
	defer server.Close()

	svc := NewGoogleService("client", "secret", "http://localhost/callback", nil).(*GoogleServiceImpl)
	svc.userInfoURL = server.URL

	info, err := svc.VerifyUser(t.Context(), &oauth2.Token{AccessToken: "access-123", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", info.GoogleID)
	assert.Equal(t, "admin@example.com", info.Email)
	assert.True(t, info.VerifiedEmail)
}
