package profile

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/storage"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
	"github.com/inout-app/inout-backend-go/internal/repository/memory"
	"github.com/inout-app/inout-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfileService(t *testing.T) user.ProfileService {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	_, err := users.Create(context.Background(), user.User{
		UID:      "u1",
		Email:    "u1@example.com",
		Role:     user.RoleEmployee,
		Name:     "Google Name",
		PhotoURL: "https://lh3.googleusercontent.com/a/photo",
	})
	require.NoError(t, err)

	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return NewProfileService(users, file.NewFileService(s))
}

func TestProfileService_UpdateProfile(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	before, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, before.ProfileComplete)

	after, err := svc.UpdateProfile(ctx, "u1", user.UpdateProfileRequest{Name: "  Ravi Kumar ", Phone: "+91 98765-43210"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", after.Name)
	assert.Equal(t, "+91 98765-43210", after.Phone)
	assert.Equal(t, "https://lh3.googleusercontent.com/a/photo", after.PhotoURL)
	assert.True(t, after.ProfileComplete)
}

func TestProfileService_UpdateProfile_Validation(t *testing.T) {
	svc := newTestProfileService(t)

	_, err := svc.UpdateProfile(context.Background(), "u1", user.UpdateProfileRequest{Name: "", Phone: "abc"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	_, err = svc.UpdateProfile(context.Background(), "nobody", user.UpdateProfileRequest{Name: "A", Phone: "9876543210"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestProfileService_UploadPhoto(t *testing.T) {
	svc := newTestProfileService(t)
	ctx := context.Background()

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 300, 300))))

	resp, err := svc.UploadPhoto(ctx, "u1", buf, "avatar.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.PhotoURL, "http://localhost:8080/uploads/avatars/u1/"))
	assert.Equal(t, "Google Name", resp.Name)
}
