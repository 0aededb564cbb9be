package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"google.golang.org/api/iterator"
)

type locationDocument struct {
	Name      string    `firestore:"name"`
	Latitude  float64   `firestore:"latitude"`
	Longitude float64   `firestore:"longitude"`
	Radius    float64   `firestore:"radius"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (d locationDocument) toLocation(id string) location.Location {
	return location.Location{
		ID:        id,
		Name:      d.Name,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		Radius:    d.Radius,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type locationRepository struct {
	client *firestore.Client
}

func NewLocationRepository(client *firestore.Client) location.LocationRepository {
	return &locationRepository{client: client}
}

func (r *locationRepository) locations() *firestore.CollectionRef {
	return r.client.Collection(locationsCollection)
}

// Create implements location.LocationRepository.
func (r *locationRepository) Create(ctx context.Context, l location.Location) (location.Location, error) {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	doc := locationDocument{
		Name:      l.Name,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Radius:    l.Radius,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.locations().Doc(l.ID).Create(ctx, doc); err != nil {
		return location.Location{}, mapError(fmt.Errorf("failed to create location: %w", err))
	}
	return l, nil
}

// GetByID implements location.LocationRepository.
func (r *locationRepository) GetByID(ctx context.Context, id string) (location.Location, error) {
	snap, err := r.locations().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, mapError(fmt.Errorf("failed to get location: %w", err))
	}

	var doc locationDocument
	if err := snap.DataTo(&doc); err != nil {
		return location.Location{}, fmt.Errorf("failed to decode location: %w", err)
	}
	return doc.toLocation(snap.Ref.ID), nil
}

// List implements location.LocationRepository.
func (r *locationRepository) List(ctx context.Context) ([]location.Location, error) {
	iter := r.locations().OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	locations := make([]location.Location, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(fmt.Errorf("failed to list locations: %w", err))
		}

		var doc locationDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode location %s: %w", snap.Ref.ID, err)
		}
		locations = append(locations, doc.toLocation(snap.Ref.ID))
	}
	return locations, nil
}

// Update implements location.LocationRepository.
func (r *locationRepository) Update(ctx context.Context, l location.Location) (location.Location, error) {
	l.UpdatedAt = time.Now().UTC()

	_, err := r.locations().Doc(l.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: l.Name},
		{Path: "latitude", Value: l.Latitude},
		{Path: "longitude", Value: l.Longitude},
		{Path: "radius", Value: l.Radius},
		{Path: "updatedAt", Value: l.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, mapError(fmt.Errorf("failed to update location: %w", err))
	}
	return l, nil
}

// DeleteAndUnassign implements location.LocationRepository. All reads happen
// before the writes, as Firestore transactions require.
func (r *locationRepository) DeleteAndUnassign(ctx context.Context, id string) ([]string, error) {
	var unassigned []string

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		unassigned = nil
		ref := r.locations().Doc(id)

		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return location.ErrLocationNotFound
			}
			return err
		}

		assigned, err := tx.Documents(r.client.Collection(usersCollection).Where("assignedLocationId", "==", id)).GetAll()
		if err != nil {
			return err
		}

		for _, snap := range assigned {
			if err := tx.Update(snap.Ref, []firestore.Update{
				{Path: "assignedLocationId", Value: nil},
				{Path: "updatedAt", Value: firestore.ServerTimestamp},
			}); err != nil {
				return err
			}
			unassigned = append(unassigned, snap.Ref.ID)
		}

		return tx.Delete(ref)
	})
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			return nil, err
		}
		return nil, mapError(fmt.Errorf("failed to delete location: %w", err))
	}

	if unassigned == nil {
		unassigned = []string{}
	}
	return unassigned, nil
}
