package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLocation(t *testing.T, ctx context.Context, repo location.LocationRepository, id string) location.Location {
	t.Helper()
	loc, err := repo.Create(ctx, location.Location{
		ID:        id,
		Name:      "HQ " + id,
		Latitude:  12.9716,
		Longitude: 77.5946,
		Radius:    100,
	})
	require.NoError(t, err)
	return loc
}

func createTestEmployee(t *testing.T, ctx context.Context, repo user.UserRepository, uid string) user.User {
	t.Helper()
	u, err := repo.Create(ctx, user.User{
		UID:   uid,
		Email: uid + "@example.com",
		Role:  user.RoleEmployee,
		Name:  "Employee " + uid,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	locations := postgresql.NewLocationRepository(db)

	loc := createTestLocation(t, ctx, locations, "loc-1")
	created := createTestEmployee(t, ctx, users, "uid-1")
	assert.False(t, created.Approved)
	assert.Nil(t, created.EmployeeID)

	_, err := users.Create(ctx, user.User{UID: "uid-1", Email: "dup@example.com", Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)

	require.NoError(t, users.Approve(ctx, "uid-1", "EMP-001", loc.ID))
	got, err := users.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, got.Approved)
	require.NotNil(t, got.EmployeeID)
	assert.Equal(t, "EMP-001", *got.EmployeeID)
	require.NotNil(t, got.AssignedLocationID)
	assert.Equal(t, loc.ID, *got.AssignedLocationID)

	createTestEmployee(t, ctx, users, "uid-2")
	err = users.Approve(ctx, "uid-2", "EMP-001", loc.ID)
	assert.ErrorIs(t, err, user.ErrEmployeeIDTaken)

	approved := true
	list, err := users.List(ctx, user.UserFilter{Approved: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "uid-1", list[0].UID)

	require.NoError(t, users.UpdateProfile(ctx, "uid-1", "Asha", "9876543210", ""))
	got, err = users.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	require.NoError(t, users.Delete(ctx, "uid-2"))
	_, err = users.GetByUID(ctx, "uid-2")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, users.Delete(ctx, "uid-2"), user.ErrUserNotFound)
}

func TestLocationRepository_DeleteAndUnassign(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)
	locations := postgresql.NewLocationRepository(db)

	loc := createTestLocation(t, ctx, locations, "loc-1")
	other := createTestLocation(t, ctx, locations, "loc-2")
	createTestEmployee(t, ctx, users, "uid-1")
	createTestEmployee(t, ctx, users, "uid-2")
	createTestEmployee(t, ctx, users, "uid-3")
	require.NoError(t, users.Approve(ctx, "uid-1", "EMP-001", loc.ID))
	require.NoError(t, users.Approve(ctx, "uid-2", "EMP-002", loc.ID))
	require.NoError(t, users.Approve(ctx, "uid-3", "EMP-003", other.ID))

	unassigned, err := locations.DeleteAndUnassign(ctx, loc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uid-1", "uid-2"}, unassigned)

	_, err = locations.GetByID(ctx, loc.ID)
	assert.ErrorIs(t, err, location.ErrLocationNotFound)

	u1, err := users.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, u1.AssignedLocationID)

	u3, err := users.GetByUID(ctx, "uid-3")
	require.NoError(t, err)
	require.NotNil(t, u3.AssignedLocationID)
	assert.Equal(t, other.ID, *u3.AssignedLocationID)

	_, err = locations.DeleteAndUnassign(ctx, loc.ID)
	assert.ErrorIs(t, err, location.ErrLocationNotFound)
}

func TestAttendanceRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rec := attendance.BuildCheckIn(attendance.CheckInInput{
		EmployeeID: "EMP-001", Name: "Asha", Now: now,
		Latitude: 12.9716, Longitude: 77.5946, LocationID: "loc-1", LocationName: "HQ",
	})

	missing, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.CreateIfAbsent(ctx, rec))
	assert.ErrorIs(t, repo.CreateIfAbsent(ctx, rec), attendance.ErrAlreadyCheckedIn)

	open, err := repo.ListOpenByDate(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, open, 1)

	update := attendance.CheckOutUpdate{CheckOutTime: "17:30", CheckOutLat: 12.9716, CheckOutLng: 77.5946, TotalHours: "8h 30m"}
	require.NoError(t, repo.UpdateCheckOut(ctx, rec.ID, update))
	assert.ErrorIs(t, repo.UpdateCheckOut(ctx, rec.ID, update), attendance.ErrAlreadyCheckedOut)
	assert.ErrorIs(t, repo.UpdateCheckOut(ctx, "EMP-404_2026-03-02", update), attendance.ErrRecordNotFound)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.HasCheckedOut())
	assert.Equal(t, "8h 30m", *got.TotalHours)

	next := rec
	next.Date = "2026-03-03"
	next.ID = attendance.RecordID("EMP-001", next.Date)
	next.Timestamp = now.Add(24 * time.Hour)
	require.NoError(t, repo.CreateIfAbsent(ctx, next))

	history, err := repo.ListByEmployee(ctx, "EMP-001", attendance.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-03-03", history[0].Date)

	ranged, err := repo.ListByEmployee(ctx, "EMP-001", attendance.HistoryFilter{StartDate: "2026-03-02", EndDate: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
}

func TestAttendanceRepository_ConcurrentCheckIn(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)

	rec := attendance.BuildCheckIn(attendance.CheckInInput{
		EmployeeID: "EMP-001", Name: "Asha", Now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.CreateIfAbsent(ctx, rec)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
}
