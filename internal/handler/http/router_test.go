package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inout-app/inout-backend-go/internal/config"
	"github.com/inout-app/inout-backend-go/internal/domain/auth"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
	"github.com/inout-app/inout-backend-go/internal/pkg/oauth"
	"github.com/inout-app/inout-backend-go/internal/pkg/secure"
	"github.com/inout-app/inout-backend-go/internal/pkg/sse"
	"github.com/inout-app/inout-backend-go/internal/pkg/storage"
	"github.com/inout-app/inout-backend-go/internal/repository/memory"
	attendanceService "github.com/inout-app/inout-backend-go/internal/service/attendance"
	authService "github.com/inout-app/inout-backend-go/internal/service/auth"
	employeeService "github.com/inout-app/inout-backend-go/internal/service/employee"
	"github.com/inout-app/inout-backend-go/internal/service/file"
	locationService "github.com/inout-app/inout-backend-go/internal/service/location"
	profileService "github.com/inout-app/inout-backend-go/internal/service/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type stubVerifier map[string]auth.GoogleIdentity

func (s stubVerifier) Verify(ctx context.Context, idToken string) (auth.GoogleIdentity, error) {
	identity, ok := s[idToken]
	if !ok {
		return auth.GoogleIdentity{}, auth.ErrInvalidIDToken
	}
	return identity, nil
}

type testServer struct {
	router *chi.Mux
	cipher *secure.PayloadCipher
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", LogLevel: "error", CORSOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{BasePath: t.TempDir(), BaseURL: "http://localhost:8080/uploads"},
	}

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	locations := memory.NewLocationRepository(store)
	records := memory.NewAttendanceRepository(store)

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h", "24h", false)
	cipher, err := secure.NewPayloadCipher("qr-passphrase")
	require.NoError(t, err)
	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	require.NoError(t, err)

	verifier := stubVerifier{
		"employee-token": {Subject: "g-emp", Email: "emp@example.com", EmailVerified: true, Name: "Ravi"},
		"admin-token":    {Subject: "g-admin", Email: "boss@example.com", EmailVerified: true, Name: "Boss"},
	}

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	attendanceSvc := attendanceService.NewAttendanceService(records, users, locations, sse.NewHub(), attendanceService.Config{
		Timezone: time.UTC,
		Now:      func() time.Time { return now },
	})
	authSvc := authService.NewAuthService(users, jwtService, verifier, []string{"boss@example.com"})
	googleService := oauth.NewGoogleService("client", "secret", "http://localhost:8080/api/v1/auth/oauth/callback/google", []string{"openid"})

	router := NewRouter(
		cfg,
		jwtService,
		NewAuthHandler(jwtService, authSvc, googleService, "http://localhost:3000", false),
		NewProfileHandler(profileService.NewProfileService(users, file.NewFileService(fileStorage))),
		NewAttendanceHandler(attendanceSvc, jwtService),
		NewEmployeeHandler(employeeService.NewEmployeeService(users, locations, attendanceSvc)),
		NewLocationHandler(locationService.NewLocationService(locations, users, cipher, attendanceSvc)),
	)

	return &testServer{router: router, cipher: cipher, jwt: jwtService}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) signIn(t *testing.T, idToken, role string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/google", "", map[string]string{"id_token": idToken, "role": role})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, _, err := s.jwt.GenerateRefreshToken("g-emp")
	require.NoError(t, err)
	rec, _ = s.do(t, http.MethodGet, "/api/v1/profile", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh tokens are not access tokens")
}

func TestRouter_AdminRoutesRejectEmployees(t *testing.T) {
	s := newTestServer(t)
	employee := s.signIn(t, "employee-token", "employee")

	rec, _ := s.do(t, http.MethodGet, "/api/v1/employees", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/locations", employee, map[string]float64{"latitude": 1, "longitude": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_RequestErrors(t *testing.T) {
	s := newTestServer(t)
	employee := s.signIn(t, "employee-token", "employee")

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, map[string]string{"biometric": "maybe"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, map[string]any{
		"biometric": "success", "latitude": 12.9716, "longitude": 77.5946,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_APPROVED", env.Error.Code)
}

func TestRouter_AttendanceFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.signIn(t, "admin-token", "admin")
	employee := s.signIn(t, "employee-token", "employee")

	rec, env := s.do(t, http.MethodGet, "/api/v1/employees?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)

	rec, env = s.do(t, http.MethodPost, "/api/v1/locations", admin, map[string]any{
		"name": "HQ", "latitude": 12.9716, "longitude": 77.5946, "radius": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var hq struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hq))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/employees/g-emp/approve", admin, map[string]string{
		"employee_id": "EMP-001", "location_id": hq.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	far := map[string]any{"biometric": "success", "latitude": 12.9816, "longitude": 77.5946}
	rec, env = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, far)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Denied: You are not within the 100m radius of HQ", env.Message)

	here := map[string]any{"biometric": "success", "latitude": 12.9716, "longitude": 77.5946}
	rec, env = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, here)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Check-In Success!", env.Message)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", employee, here)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance/open-shifts?date=2025-03-10", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/attendance/history", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Len(t, history, 1)

	payload, err := s.cipher.Encrypt("inout:location:" + hq.ID)
	require.NoError(t, err)
	rec, env = s.do(t, http.MethodPost, "/api/v1/qr/decode", employee, map[string]string{"payload": payload})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), hq.ID)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/qr/decode", employee, map[string]string{"payload": "garbage"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/locations/%s/qr", hq.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestRouter_StreamRequiresStreamToken(t *testing.T) {
	s := newTestServer(t)
	employee := s.signIn(t, "employee-token", "employee")

	rec, _ := s.do(t, http.MethodGet, "/api/v1/attendance/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance/stream?token="+employee, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access tokens are not stream tokens")

	rec, env := s.do(t, http.MethodPost, "/api/v1/attendance/stream-token", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, env.Data)
}
