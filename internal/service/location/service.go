package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/secure"
	"github.com/inout-app/inout-backend-go/internal/pkg/validator"
	"github.com/skip2/go-qrcode"
)

const (
	DefaultLocationName = "Map Selected Location"

	DefaultQRSize = 256
	MinQRSize     = 128
	MaxQRSize     = 1024

	qrPayloadPrefix = "inout:location:"
)

type LocationServiceImpl struct {
	locationRepo location.LocationRepository
	userRepo     user.UserRepository
	cipher       *secure.PayloadCipher
	notifier     attendance.StatusNotifier
}

func NewLocationService(locationRepo location.LocationRepository, userRepo user.UserRepository, cipher *secure.PayloadCipher, notifier attendance.StatusNotifier) location.LocationService {
	return &LocationServiceImpl{
		locationRepo: locationRepo,
		userRepo:     userRepo,
		cipher:       cipher,
		notifier:     notifier,
	}
}

// Create implements location.LocationService.
func (l *LocationServiceImpl) Create(ctx context.Context, req location.CreateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to generate location id: %w", err)
	}

	name := req.Name
	if name == "" {
		name = DefaultLocationName
	}

	created, err := l.locationRepo.Create(ctx, location.Location{
		ID:        id.String(),
		Name:      name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    req.RadiusOrDefault(),
	})
	if err != nil {
		return location.LocationResponse{}, err
	}
	slog.Info("Location created", "location_id", created.ID, "name", created.Name, "radius", created.Radius)

	return location.NewLocationResponse(created), nil
}

// GetByID implements location.LocationService.
func (l *LocationServiceImpl) GetByID(ctx context.Context, id string) (location.LocationResponse, error) {
	loc, err := l.locationRepo.GetByID(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return location.NewLocationResponse(loc), nil
}

// List implements location.LocationService.
func (l *LocationServiceImpl) List(ctx context.Context) ([]location.LocationResponse, error) {
	locations, err := l.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]location.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		resp = append(resp, location.NewLocationResponse(loc))
	}
	return resp, nil
}

// Update implements location.LocationService.
func (l *LocationServiceImpl) Update(ctx context.Context, id string, req location.UpdateLocationRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	existing, err := l.locationRepo.GetByID(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}

	updated, err := l.locationRepo.Update(ctx, req.Apply(existing))
	if err != nil {
		return location.LocationResponse{}, err
	}
	slog.Info("Location updated", "location_id", id)

	l.notifyAssigned(ctx, id)
	return location.NewLocationResponse(updated), nil
}

// Delete implements location.LocationService.
func (l *LocationServiceImpl) Delete(ctx context.Context, id string) (location.DeleteLocationResponse, error) {
	affected, err := l.locationRepo.DeleteAndUnassign(ctx, id)
	if err != nil {
		return location.DeleteLocationResponse{}, err
	}
	slog.Info("Location deleted", "location_id", id, "unassigned", len(affected))

	l.notifier.NotifyStatus(ctx, affected...)
	if affected == nil {
		affected = []string{}
	}
	return location.DeleteLocationResponse{ID: id, UnassignedUserIDs: affected}, nil
}

func (l *LocationServiceImpl) notifyAssigned(ctx context.Context, id string) {
	users, err := l.userRepo.List(ctx, user.UserFilter{LocationID: &id})
	if err != nil {
		slog.Error("Failed to list users of location", "location_id", id, "error", err)
		return
	}

	uids := make([]string, 0, len(users))
	for _, u := range users {
		uids = append(uids, u.UID)
	}
	l.notifier.NotifyStatus(ctx, uids...)
}

// QRCode implements location.LocationService.
func (l *LocationServiceImpl) QRCode(ctx context.Context, id string, size int) ([]byte, error) {
	switch {
	case size == 0:
		size = DefaultQRSize
	case size < MinQRSize:
		size = MinQRSize
	case size > MaxQRSize:
		size = MaxQRSize
	}

	loc, err := l.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := l.cipher.Encrypt(qrPayloadPrefix + loc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt qr payload: %w", err)
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

// DecodeQR implements location.LocationService.
func (l *LocationServiceImpl) DecodeQR(ctx context.Context, req location.DecodeQRRequest) (location.LocationResponse, error) {
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	plaintext, err := l.cipher.Decrypt(strings.TrimSpace(req.Payload))
	if err != nil {
		return location.LocationResponse{}, err
	}

	id, ok := strings.CutPrefix(plaintext, qrPayloadPrefix)
	if !ok || !validator.IsValidUUID(id) {
		return location.LocationResponse{}, location.ErrQRPayloadInvalid
	}

	loc, err := l.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return location.LocationResponse{}, location.ErrQRPayloadInvalid
		}
		return location.LocationResponse{}, err
	}
	return location.NewLocationResponse(loc), nil
}
