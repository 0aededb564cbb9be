package location

import "context"

type LocationRepository interface {
	// Create inserts a location with a caller-supplied id.
	Create(ctx context.Context, location Location) (Location, error)

	// GetByID returns ErrLocationNotFound when missing.
	GetByID(ctx context.Context, id string) (Location, error)

	// List returns every location ordered by name.
	List(ctx context.Context) ([]Location, error)

	// Update overwrites name, coordinates and radius.
	Update(ctx context.Context, location Location) (Location, error)

	// DeleteAndUnassign deletes the location and clears it from every user
	// assigned to it in one atomic step. Returns the affected user ids.
	DeleteAndUnassign(ctx context.Context, id string) ([]string, error)
}
