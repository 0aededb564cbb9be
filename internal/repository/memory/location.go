package memory

import (
	"context"
	"sort"

	"github.com/inout-app/inout-backend-go/internal/domain/location"
)

type locationRepositoryImpl struct {
	store *Store
}

func NewLocationRepository(store *Store) location.LocationRepository {
	return &locationRepositoryImpl{store: store}
}

// Create implements location.LocationRepository.
func (r *locationRepositoryImpl) Create(ctx context.Context, loc location.Location) (location.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	loc.CreatedAt = now
	loc.UpdatedAt = now
	r.store.locations[loc.ID] = loc
	return loc, nil
}

// GetByID implements location.LocationRepository.
func (r *locationRepositoryImpl) GetByID(ctx context.Context, id string) (location.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	loc, ok := r.store.locations[id]
	if !ok {
		return location.Location{}, location.ErrLocationNotFound
	}
	return loc, nil
}

// List implements location.LocationRepository.
func (r *locationRepositoryImpl) List(ctx context.Context) ([]location.Location, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	locations := make([]location.Location, 0, len(r.store.locations))
	for _, loc := range r.store.locations {
		locations = append(locations, loc)
	}
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Name < locations[j].Name
	})
	return locations, nil
}

// Update implements location.LocationRepository.
func (r *locationRepositoryImpl) Update(ctx context.Context, loc location.Location) (location.Location, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.locations[loc.ID]
	if !ok {
		return location.Location{}, location.ErrLocationNotFound
	}
	loc.CreatedAt = existing.CreatedAt
	loc.UpdatedAt = r.store.now()
	r.store.locations[loc.ID] = loc
	return loc, nil
}

// DeleteAndUnassign implements location.LocationRepository.
func (r *locationRepositoryImpl) DeleteAndUnassign(ctx context.Context, id string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.locations[id]; !ok {
		return nil, location.ErrLocationNotFound
	}

	var affected []string
	now := r.store.now()
	for uid, u := range r.store.users {
		if u.AssignedLocationID != nil && *u.AssignedLocationID == id {
			u.AssignedLocationID = nil
			u.UpdatedAt = now
			r.store.users[uid] = u
			affected = append(affected, uid)
		}
	}
	delete(r.store.locations, id)
	sort.Strings(affected)
	return affected, nil
}
