package location

import (
	"bytes"
	"context"
	"image/png"
	"sync"
	"testing"

	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/secure"
	"github.com/inout-app/inout-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	uids []string
}

func (r *recordingNotifier) NotifyStatus(ctx context.Context, uids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uids = append(r.uids, uids...)
}

func ptr[T any](v T) *T { return &v }

func newTestLocationService(t *testing.T) (location.LocationService, user.UserRepository, *recordingNotifier, *secure.PayloadCipher) {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	cipher, err := secure.NewPayloadCipher("test-passphrase")
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewLocationService(memory.NewLocationRepository(store), users, cipher, notifier), users, notifier, cipher
}

func TestLocationService_CreateDefaults(t *testing.T) {
	svc, _, _, _ := newTestLocationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, location.CreateLocationRequest{Latitude: ptr(12.9716), Longitude: ptr(77.5946)})
	require.NoError(t, err)
	assert.Equal(t, DefaultLocationName, created.Name)
	assert.Equal(t, float64(location.DefaultRadiusMeters), created.Radius)
	assert.Len(t, created.ID, 36)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Create(ctx, location.CreateLocationRequest{Name: "HQ", Latitude: ptr(95.0), Longitude: ptr(77.5)})
	assert.Error(t, err)

	_, err = svc.Create(ctx, location.CreateLocationRequest{Name: "HQ", Latitude: ptr(12.0), Longitude: ptr(77.5), Radius: ptr(-5.0)})
	assert.Error(t, err)
}

func TestLocationService_UpdateNotifiesAssigned(t *testing.T) {
	svc, users, notifier, _ := newTestLocationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, location.CreateLocationRequest{Name: "HQ", Latitude: ptr(12.9716), Longitude: ptr(77.5946)})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.User{UID: "e1", Role: user.RoleEmployee})
	require.NoError(t, err)
	require.NoError(t, users.Approve(ctx, "e1", "EMP001", created.ID))

	updated, err := svc.Update(ctx, created.ID, location.UpdateLocationRequest{Radius: ptr(250.0)})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Radius)
	assert.Equal(t, "HQ", updated.Name)
	assert.Equal(t, []string{"e1"}, notifier.uids)

	_, err = svc.Update(ctx, "missing", location.UpdateLocationRequest{Radius: ptr(250.0)})
	assert.ErrorIs(t, err, location.ErrLocationNotFound)
}

func TestLocationService_DeleteUnassigns(t *testing.T) {
	svc, users, notifier, _ := newTestLocationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, location.CreateLocationRequest{Name: "HQ", Latitude: ptr(12.9716), Longitude: ptr(77.5946)})
	require.NoError(t, err)
	_, err = users.Create(ctx, user.User{UID: "e1", Role: user.RoleEmployee})
	require.NoError(t, err)
	require.NoError(t, users.Approve(ctx, "e1", "EMP001", created.ID))

	resp, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, resp.UnassignedUserIDs)
	assert.Equal(t, []string{"e1"}, notifier.uids)

	u, err := users.GetByUID(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, u.HasAssignedLocation())

	_, err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, location.ErrLocationNotFound)
}

func TestLocationService_QRRoundTrip(t *testing.T) {
	svc, _, _, cipher := newTestLocationService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, location.CreateLocationRequest{Name: "HQ", Latitude: ptr(12.9716), Longitude: ptr(77.5946)})
	require.NoError(t, err)

	img, err := svc.QRCode(ctx, created.ID, 0)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, cfg.Width)

	payload, err := cipher.Encrypt(qrPayloadPrefix + created.ID)
	require.NoError(t, err)
	decoded, err := svc.DecodeQR(ctx, location.DecodeQRRequest{Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, created.ID, decoded.ID)

	_, err = svc.DecodeQR(ctx, location.DecodeQRRequest{Payload: "garbage"})
	assert.ErrorIs(t, err, secure.ErrDecryptionFailed)

	foreign, err := cipher.Encrypt("hello")
	require.NoError(t, err)
	_, err = svc.DecodeQR(ctx, location.DecodeQRRequest{Payload: foreign})
	assert.ErrorIs(t, err, location.ErrQRPayloadInvalid)

	notAnID, err := cipher.Encrypt(qrPayloadPrefix + "../../etc")
	require.NoError(t, err)
	_, err = svc.DecodeQR(ctx, location.DecodeQRRequest{Payload: notAnID})
	assert.ErrorIs(t, err, location.ErrQRPayloadInvalid)

	_, err = svc.QRCode(ctx, "missing", 0)
	assert.ErrorIs(t, err, location.ErrLocationNotFound)
}
