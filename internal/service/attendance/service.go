package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/geofence"
	"github.com/inout-app/inout-backend-go/internal/pkg/sse"
)

const (
	EventStatus     = "status"
	EventOpenShifts = "open_shifts"

	DefaultLocationTimeout = 15 * time.Second
)

type Config struct {
	Timezone        *time.Location
	LocationTimeout time.Duration
	// Now is overridable in tests.
	Now func() time.Time
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	locationRepo   location.LocationRepository
	hub            *sse.Hub
	cfg            Config
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	locationRepo location.LocationRepository,
	hub *sse.Hub,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.LocationTimeout <= 0 {
		cfg.LocationTimeout = DefaultLocationTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		locationRepo:   locationRepo,
		hub:            hub,
		cfg:            cfg,
	}
}

// snapshot is everything the state machine needs for one user on one day.
type snapshot struct {
	user     user.User
	location *location.Location
	today    *attendance.Record
	now      time.Time
	state    attendance.State
}

func (a *AttendanceServiceImpl) load(ctx context.Context, uid string) (snapshot, error) {
	now := a.cfg.Now().In(a.cfg.Timezone)

	u, err := a.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return snapshot{}, err
	}
	snap := snapshot{user: u, now: now}

	if u.HasAssignedLocation() {
		loc, err := a.locationRepo.GetByID(ctx, *u.AssignedLocationID)
		switch {
		case err == nil:
			snap.location = &loc
		case errors.Is(err, location.ErrLocationNotFound):
			slog.Warn("Assigned location missing", "uid", uid, "location_id", *u.AssignedLocationID)
		default:
			return snapshot{}, err
		}
	}

	if u.CanTrackAttendance() {
		rec, err := a.attendanceRepo.GetByID(ctx, attendance.RecordID(*u.EmployeeID, now.Format(attendance.DateLayout)))
		if err != nil {
			return snapshot{}, err
		}
		snap.today = rec
	}

	snap.state = attendance.CurrentState(&snap.user, snap.location, snap.today)
	return snap, nil
}

func (s snapshot) status() attendance.StatusResponse {
	resp := attendance.StatusResponse{
		State:       s.state,
		Permissions: s.state.Permissions(),
		Message:     attendance.StatusMessage(s.state, &s.user, s.location, s.today),
		Date:        s.now.Format(attendance.DateLayout),
		EmployeeID:  s.user.EmployeeID,
	}
	if s.location != nil {
		loc := location.NewLocationResponse(*s.location)
		resp.Location = &loc
	}
	if s.today != nil {
		rec := attendance.NewRecordResponse(*s.today)
		resp.Today = &rec
	}
	return resp
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context, uid string) (attendance.StatusResponse, error) {
	snap, err := a.load(ctx, uid)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	return snap.status(), nil
}

// verify runs the biometric gate, the location fix and the geofence check.
// A fix outside the geofence comes back as a non-nil rejected result.
func (a *AttendanceServiceImpl) verify(ctx context.Context, snap snapshot, gate attendance.BiometricGate, source attendance.LocationSource) (geofence.Coordinate, *attendance.ActionResult, float64, error) {
	outcome, err := gate.Authenticate(ctx)
	if err != nil {
		return geofence.Coordinate{}, nil, 0, fmt.Errorf("%w: %v", attendance.ErrBiometricError, err)
	}
	switch outcome {
	case attendance.BiometricSuccess:
	case attendance.BiometricFailed:
		return geofence.Coordinate{}, nil, 0, attendance.ErrBiometricFailed
	default:
		return geofence.Coordinate{}, nil, 0, attendance.ErrBiometricError
	}

	fixCtx, cancel := context.WithTimeout(ctx, a.cfg.LocationTimeout)
	defer cancel()

	observed, err := source.CurrentLocation(fixCtx)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, attendance.ErrLocationTimeout):
			return geofence.Coordinate{}, nil, 0, attendance.ErrLocationTimeout
		case errors.Is(err, attendance.ErrLocationPermission), errors.Is(err, attendance.ErrLocationUnavailable):
			return geofence.Coordinate{}, nil, 0, err
		default:
			return geofence.Coordinate{}, nil, 0, fmt.Errorf("%w: %v", attendance.ErrLocationUnavailable, err)
		}
	}

	target := snap.location.Coordinate()
	result, err := geofence.Validate(&observed, &target, snap.location.Radius)
	if err != nil {
		if errors.Is(err, geofence.ErrInvalidRadius) {
			slog.Error("Location has invalid radius", "location_id", snap.location.ID, "radius", snap.location.Radius)
			return geofence.Coordinate{}, nil, 0, location.ErrLocationMisconfigured
		}
		return geofence.Coordinate{}, nil, 0, err
	}

	if !result.WithinRadius {
		distance := result.DistanceMeters
		return observed, &attendance.ActionResult{
			Accepted:       false,
			Reason:         attendance.ReasonOutsideGeofence,
			Message:        fmt.Sprintf("Denied: You are not within the %.0fm radius of %s", snap.location.Radius, snap.location.Name),
			DistanceMeters: &distance,
			Status:         snap.status(),
		}, distance, nil
	}

	return observed, nil, result.DistanceMeters, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, uid string, gate attendance.BiometricGate, source attendance.LocationSource) (attendance.ActionResult, error) {
	snap, err := a.load(ctx, uid)
	if err != nil {
		return attendance.ActionResult{}, err
	}
	if !snap.state.Permissions().CanCheckIn {
		return attendance.ActionResult{}, a.refusal(snap, true)
	}

	observed, rejected, distance, err := a.verify(ctx, snap, gate, source)
	if err != nil {
		return attendance.ActionResult{}, err
	}
	if rejected != nil {
		slog.Info("Check-in outside geofence", "uid", uid, "location_id", snap.location.ID, "distance_m", distance)
		return *rejected, nil
	}

	rec := attendance.BuildCheckIn(attendance.CheckInInput{
		EmployeeID:     *snap.user.EmployeeID,
		Name:           snap.user.DisplayName(),
		Now:            snap.now,
		Latitude:       observed.Latitude,
		Longitude:      observed.Longitude,
		LocationID:     snap.location.ID,
		LocationName:   snap.location.Name,
		DistanceMeters: distance,
	})

	if err := a.attendanceRepo.CreateIfAbsent(ctx, rec); err != nil {
		return attendance.ActionResult{}, err
	}
	slog.Info("Employee checked in", "uid", uid, "employee_id", rec.EmployeeID, "date", rec.Date, "distance_m", distance)

	snap.today = &rec
	snap.state = attendance.CurrentState(&snap.user, snap.location, snap.today)
	status := snap.status()
	a.publish(uid, status)

	resp := attendance.NewRecordResponse(rec)
	return attendance.ActionResult{
		Accepted:       true,
		Message:        "Check-In Success!",
		DistanceMeters: &distance,
		Record:         &resp,
		Status:         status,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, uid string, gate attendance.BiometricGate, source attendance.LocationSource) (attendance.ActionResult, error) {
	snap, err := a.load(ctx, uid)
	if err != nil {
		return attendance.ActionResult{}, err
	}
	if !snap.state.Permissions().CanCheckOut {
		return attendance.ActionResult{}, a.refusal(snap, false)
	}

	observed, rejected, distance, err := a.verify(ctx, snap, gate, source)
	if err != nil {
		return attendance.ActionResult{}, err
	}
	if rejected != nil {
		slog.Info("Check-out outside geofence", "uid", uid, "location_id", snap.location.ID, "distance_m", distance)
		return *rejected, nil
	}

	update, err := attendance.BuildCheckOut(*snap.today, snap.now.Format(attendance.ClockLayout), observed.Latitude, observed.Longitude)
	if err != nil {
		return attendance.ActionResult{}, err
	}

	if err := a.attendanceRepo.UpdateCheckOut(ctx, snap.today.ID, update); err != nil {
		return attendance.ActionResult{}, err
	}
	slog.Info("Employee checked out", "uid", uid, "record_id", snap.today.ID, "total_hours", update.TotalHours)

	rec := *snap.today
	rec.CheckOutTime = &update.CheckOutTime
	rec.CheckOutLat = &update.CheckOutLat
	rec.CheckOutLng = &update.CheckOutLng
	rec.TotalHours = &update.TotalHours

	snap.today = &rec
	snap.state = attendance.CurrentState(&snap.user, snap.location, snap.today)
	status := snap.status()
	a.publish(uid, status)

	resp := attendance.NewRecordResponse(rec)
	return attendance.ActionResult{
		Accepted:       true,
		Message:        "Check-Out Success!",
		DistanceMeters: &distance,
		Record:         &resp,
		Status:         status,
	}, nil
}

func (a *AttendanceServiceImpl) refusal(snap snapshot, checkIn bool) error {
	if snap.state == attendance.StateNoLocationAssigned {
		switch {
		case snap.user.Role != user.RoleEmployee:
			return user.ErrNotAnEmployee
		case !snap.user.CanTrackAttendance():
			return user.ErrNotApproved
		}
	}
	return attendance.ActionError(snap.state, checkIn)
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, uid string, req attendance.HistoryRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := a.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.EmployeeID == nil || *u.EmployeeID == "" {
		return nil, user.ErrNotApproved
	}

	records, err := a.attendanceRepo.ListByEmployee(ctx, *u.EmployeeID, req.Filter())
	if err != nil {
		return nil, err
	}
	return mapRecords(records), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, req attendance.ListAttendanceRequest) ([]attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		records []attendance.Record
		err     error
	)
	if req.EmployeeID != "" {
		records, err = a.attendanceRepo.ListByEmployee(ctx, req.EmployeeID, req.Filter())
	} else {
		date := req.Date
		if date == "" {
			date = a.cfg.Now().In(a.cfg.Timezone).Format(attendance.DateLayout)
		}
		records, err = a.attendanceRepo.ListByDate(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	return mapRecords(records), nil
}

// OpenShifts implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) OpenShifts(ctx context.Context, date string) ([]attendance.OpenShift, error) {
	records, err := a.attendanceRepo.ListOpenByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	shifts := make([]attendance.OpenShift, 0, len(records))
	for _, rec := range records {
		shifts = append(shifts, attendance.OpenShift{
			EmployeeID:  rec.EmployeeID,
			Name:        rec.Name,
			Date:        rec.Date,
			CheckInTime: rec.CheckInTime,
		})
	}
	return shifts, nil
}

// ReportOpenShifts implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ReportOpenShifts(ctx context.Context) ([]attendance.OpenShift, error) {
	yesterday := a.cfg.Now().In(a.cfg.Timezone).AddDate(0, 0, -1).Format(attendance.DateLayout)

	shifts, err := a.OpenShifts(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to list open shifts: %w", err)
	}
	if len(shifts) == 0 {
		return shifts, nil
	}
	slog.Warn("Shifts left open", "date", yesterday, "count", len(shifts))

	role := user.RoleAdmin
	admins, err := a.userRepo.List(ctx, user.UserFilter{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	uids := make([]string, 0, len(admins))
	for _, admin := range admins {
		uids = append(uids, admin.UID)
	}
	a.hub.PublishToMany(uids, sse.Event{Event: EventOpenShifts, Data: shifts})
	return shifts, nil
}

// Subscribe implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Subscribe(ctx context.Context, uid string) (<-chan attendance.StreamEvent, func()) {
	ch, cleanup := a.hub.Subscribe(uid)

	out := make(chan attendance.StreamEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- attendance.StreamEvent{Event: event.Event, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// NotifyStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) NotifyStatus(ctx context.Context, uids ...string) {
	for _, uid := range uids {
		if a.hub.SubscriberCount(uid) == 0 {
			continue
		}
		snap, err := a.load(ctx, uid)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				a.hub.Publish(uid, sse.Event{UserID: uid, Event: EventStatus, Data: attendance.StatusResponse{
					State:   attendance.StateNoLocationAssigned,
					Message: "Status: Account removed.",
				}})
				continue
			}
			slog.Error("Failed to load status for notification", "uid", uid, "error", err)
			continue
		}
		a.publish(uid, snap.status())
	}
}

func (a *AttendanceServiceImpl) publish(uid string, status attendance.StatusResponse) {
	a.hub.Publish(uid, sse.Event{UserID: uid, Event: EventStatus, Data: status})
}

func mapRecords(records []attendance.Record) []attendance.RecordResponse {
	resp := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, attendance.NewRecordResponse(rec))
	}
	return resp
}
