package firestore

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection      = "users"
	locationsCollection  = "locations"
	attendanceCollection = "attendance"
)

// mapError tags transient gRPC failures with database.ErrStoreUnavailable.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		if !errors.Is(err, database.ErrStoreUnavailable) {
			return fmt.Errorf("%w: %w", database.ErrStoreUnavailable, err)
		}
	}
	return err
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// sortUsersNewestFirst orders in memory so List needs no composite index per filter combination.
func sortUsersNewestFirst(users []user.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}
