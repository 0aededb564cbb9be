package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"google.golang.org/api/iterator"
)

type userDocument struct {
	Email              string    `firestore:"email"`
	Role               string    `firestore:"role"`
	Approved           bool      `firestore:"approved"`
	EmployeeID         *string   `firestore:"employeeId"`
	AssignedLocationID *string   `firestore:"assignedLocationId"`
	Name               string    `firestore:"name"`
	Phone              string    `firestore:"phone"`
	PhotoURL           string    `firestore:"photoUrl"`
	CreatedAt          time.Time `firestore:"createdAt"`
	UpdatedAt          time.Time `firestore:"updatedAt"`
}

func toUserDocument(u user.User) userDocument {
	return userDocument{
		Email:              u.Email,
		Role:               string(u.Role),
		Approved:           u.Approved,
		EmployeeID:         u.EmployeeID,
		AssignedLocationID: u.AssignedLocationID,
		Name:               u.Name,
		Phone:              u.Phone,
		PhotoURL:           u.PhotoURL,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (d userDocument) toUser(uid string) user.User {
	return user.User{
		UID:                uid,
		Email:              d.Email,
		Role:               user.Role(d.Role),
		Approved:           d.Approved,
		EmployeeID:         d.EmployeeID,
		AssignedLocationID: d.AssignedLocationID,
		Name:               d.Name,
		Phone:              d.Phone,
		PhotoURL:           d.PhotoURL,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type userRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) user.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) users() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

// Create implements user.UserRepository.
func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	now := time.Now().UTC()
	newUser.CreatedAt = now
	newUser.UpdatedAt = now

	if _, err := r.users().Doc(newUser.UID).Create(ctx, toUserDocument(newUser)); err != nil {
		if isAlreadyExists(err) {
			return user.User{}, user.ErrUserAlreadyExists
		}
		return user.User{}, mapError(fmt.Errorf("failed to create user: %w", err))
	}
	return newUser, nil
}

// GetByUID implements user.UserRepository.
func (r *userRepository) GetByUID(ctx context.Context, uid string) (user.User, error) {
	snap, err := r.users().Doc(uid).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, mapError(fmt.Errorf("failed to get user: %w", err))
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return user.User{}, fmt.Errorf("failed to decode user: %w", err)
	}
	return doc.toUser(snap.Ref.ID), nil
}

// List implements user.UserRepository.
func (r *userRepository) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	query := r.users().Query
	if filter.Role != nil {
		query = query.Where("role", "==", string(*filter.Role))
	}
	if filter.Approved != nil {
		query = query.Where("approved", "==", *filter.Approved)
	}
	if filter.LocationID != nil {
		query = query.Where("assignedLocationId", "==", *filter.LocationID)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	users := make([]user.User, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(fmt.Errorf("failed to list users: %w", err))
		}

		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		users = append(users, doc.toUser(snap.Ref.ID))
	}

	sortUsersNewestFirst(users)
	return users, nil
}

// UpdateProfile implements user.UserRepository.
func (r *userRepository) UpdateProfile(ctx context.Context, uid string, name, phone, photoURL string) error {
	return r.update(ctx, uid, []firestore.Update{
		{Path: "name", Value: name},
		{Path: "phone", Value: phone},
		{Path: "photoUrl", Value: photoURL},
	})
}

// Approve implements user.UserRepository. The employee id uniqueness check and
// the write happen in one transaction.
func (r *userRepository) Approve(ctx context.Context, uid string, employeeID string, locationID string) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := r.users().Doc(uid)
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return user.ErrUserNotFound
			}
			return err
		}

		holders, err := tx.Documents(r.users().Where("employeeId", "==", employeeID)).GetAll()
		if err != nil {
			return err
		}
		for _, holder := range holders {
			if holder.Ref.ID != uid {
				return user.ErrEmployeeIDTaken
			}
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "approved", Value: true},
			{Path: "employeeId", Value: employeeID},
			{Path: "assignedLocationId", Value: locationID},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrEmployeeIDTaken) {
			return err
		}
		return mapError(fmt.Errorf("failed to approve user: %w", err))
	}
	return nil
}

// AssignLocation implements user.UserRepository.
func (r *userRepository) AssignLocation(ctx context.Context, uid string, locationID string) error {
	return r.update(ctx, uid, []firestore.Update{
		{Path: "assignedLocationId", Value: locationID},
	})
}

// Delete implements user.UserRepository.
func (r *userRepository) Delete(ctx context.Context, uid string) error {
	ref := r.users().Doc(uid)
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return user.ErrUserNotFound
		}
		return mapError(fmt.Errorf("failed to delete user: %w", err))
	}
	return nil
}

func (r *userRepository) update(ctx context.Context, uid string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
	if _, err := r.users().Doc(uid).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return user.ErrUserNotFound
		}
		return mapError(fmt.Errorf("failed to update user: %w", err))
	}
	return nil
}
