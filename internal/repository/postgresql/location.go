package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const locationColumns = `id, name, latitude, longitude, radius, created_at, updated_at`

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepository{db: db}
}

func scanLocation(row pgx.Row) (location.Location, error) {
	var l location.Location
	err := row.Scan(&l.ID, &l.Name, &l.Latitude, &l.Longitude, &l.Radius, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create implements location.LocationRepository.
func (r *locationRepository) Create(ctx context.Context, newLocation location.Location) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO locations (id, name, latitude, longitude, radius)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + locationColumns

	created, err := scanLocation(q.QueryRow(ctx, query,
		newLocation.ID,
		newLocation.Name,
		newLocation.Latitude,
		newLocation.Longitude,
		newLocation.Radius,
	))
	if err != nil {
		return location.Location{}, mapError(fmt.Errorf("failed to create location: %w", err))
	}
	return created, nil
}

// GetByID implements location.LocationRepository.
func (r *locationRepository) GetByID(ctx context.Context, id string) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLocation(q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, mapError(fmt.Errorf("failed to get location: %w", err))
	}
	return l, nil
}

// List implements location.LocationRepository.
func (r *locationRepository) List(ctx context.Context) ([]location.Location, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list locations: %w", err))
	}
	defer rows.Close()

	locations := make([]location.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate locations: %w", err))
	}
	return locations, nil
}

// Update implements location.LocationRepository.
func (r *locationRepository) Update(ctx context.Context, l location.Location) (location.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE locations
		SET name = $1, latitude = $2, longitude = $3, radius = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + locationColumns

	updated, err := scanLocation(q.QueryRow(ctx, query, l.Name, l.Latitude, l.Longitude, l.Radius, l.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, mapError(fmt.Errorf("failed to update location: %w", err))
	}
	return updated, nil
}

// DeleteAndUnassign implements location.LocationRepository.
func (r *locationRepository) DeleteAndUnassign(ctx context.Context, id string) ([]string, error) {
	var unassigned []string

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE users
			SET assigned_location_id = NULL, updated_at = NOW()
			WHERE assigned_location_id = $1
			RETURNING uid
		`, id)
		if err != nil {
			return mapError(fmt.Errorf("failed to unassign users: %w", err))
		}
		uids, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return mapError(fmt.Errorf("failed to collect unassigned users: %w", err))
		}

		tag, err := tx.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
		if err != nil {
			return mapError(fmt.Errorf("failed to delete location: %w", err))
		}
		if tag.RowsAffected() == 0 {
			return location.ErrLocationNotFound
		}

		unassigned = uids
		return nil
	})
	if err != nil {
		return nil, err
	}

	if unassigned == nil {
		unassigned = []string{}
	}
	return unassigned, nil
}
