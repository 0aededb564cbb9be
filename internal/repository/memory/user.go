package memory

import (
	"context"
	"sort"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
)

type userRepositoryImpl struct {
	store *Store
}

func NewUserRepository(store *Store) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, u user.User) (user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[u.UID]; ok {
		return user.User{}, user.ErrUserAlreadyExists
	}
	now := r.store.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.store.users[u.UID] = cloneUser(u)
	return cloneUser(u), nil
}

// GetByUID implements user.UserRepository.
func (r *userRepositoryImpl) GetByUID(ctx context.Context, uid string) (user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[uid]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]user.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Approved != nil && u.Approved != *filter.Approved {
			continue
		}
		if filter.LocationID != nil && (u.AssignedLocationID == nil || *u.AssignedLocationID != *filter.LocationID) {
			continue
		}
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, uid string, name, phone, photoURL string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[uid]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Name = name
	u.Phone = phone
	u.PhotoURL = photoURL
	u.UpdatedAt = r.store.now()
	r.store.users[uid] = u
	return nil
}

// Approve implements user.UserRepository.
func (r *userRepositoryImpl) Approve(ctx context.Context, uid string, employeeID string, locationID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[uid]
	if !ok {
		return user.ErrUserNotFound
	}
	for otherUID, other := range r.store.users {
		if otherUID != uid && other.EmployeeID != nil && *other.EmployeeID == employeeID {
			return user.ErrEmployeeIDTaken
		}
	}
	u.Approved = true
	u.EmployeeID = &employeeID
	u.AssignedLocationID = &locationID
	u.UpdatedAt = r.store.now()
	r.store.users[uid] = u
	return nil
}

// AssignLocation implements user.UserRepository.
func (r *userRepositoryImpl) AssignLocation(ctx context.Context, uid string, locationID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[uid]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AssignedLocationID = &locationID
	u.UpdatedAt = r.store.now()
	r.store.users[uid] = u
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, uid string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[uid]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.store.users, uid)
	return nil
}
