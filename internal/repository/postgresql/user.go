package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `uid, email, role, approved, employee_id, assigned_location_id,
		name, phone, photo_url, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.UID,
		&u.Email,
		&u.Role,
		&u.Approved,
		&u.EmployeeID,
		&u.AssignedLocationID,
		&u.Name,
		&u.Phone,
		&u.PhotoURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (uid, email, role, approved, employee_id, assigned_location_id, name, phone, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (uid) DO NOTHING
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.UID,
		newUser.Email,
		newUser.Role,
		newUser.Approved,
		newUser.EmployeeID,
		newUser.AssignedLocationID,
		newUser.Name,
		newUser.Phone,
		newUser.PhotoURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserAlreadyExists
		}
		return user.User{}, mapError(fmt.Errorf("failed to create user: %w", err))
	}

	return created, nil
}

// GetByUID implements user.UserRepository.
func (r *userRepositoryImpl) GetByUID(ctx context.Context, uid string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`

	u, err := scanUser(q.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, mapError(fmt.Errorf("failed to get user: %w", err))
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	where := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != nil {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.Approved != nil {
		where += fmt.Sprintf(" AND approved = $%d", argIdx)
		args = append(args, *filter.Approved)
		argIdx++
	}
	if filter.LocationID != nil {
		where += fmt.Sprintf(" AND assigned_location_id = $%d", argIdx)
		args = append(args, *filter.LocationID)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate users: %w", err))
	}

	return users, nil
}

// UpdateProfile implements user.UserRepository.
func (r *userRepositoryImpl) UpdateProfile(ctx context.Context, uid string, name, phone, photoURL string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $1, phone = $2, photo_url = $3, updated_at = NOW()
		WHERE uid = $4
	`

	tag, err := q.Exec(ctx, query, name, phone, photoURL, uid)
	if err != nil {
		return mapError(fmt.Errorf("failed to update profile: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Approve implements user.UserRepository.
func (r *userRepositoryImpl) Approve(ctx context.Context, uid string, employeeID string, locationID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET approved = TRUE, employee_id = $1, assigned_location_id = $2, updated_at = NOW()
		WHERE uid = $3
	`

	tag, err := q.Exec(ctx, query, employeeID, locationID, uid)
	if err != nil {
		if isUniqueViolation(err, "users_employee_id_key") {
			return user.ErrEmployeeIDTaken
		}
		return mapError(fmt.Errorf("failed to approve user: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// AssignLocation implements user.UserRepository.
func (r *userRepositoryImpl) AssignLocation(ctx context.Context, uid string, locationID string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE users SET assigned_location_id = $1, updated_at = NOW() WHERE uid = $2`

	tag, err := q.Exec(ctx, query, locationID, uid)
	if err != nil {
		return mapError(fmt.Errorf("failed to assign location: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, uid string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return mapError(fmt.Errorf("failed to delete user: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
