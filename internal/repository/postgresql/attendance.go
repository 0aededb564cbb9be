package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, name, date, timestamp,
		check_in_time, check_in_lat, check_in_lng,
		check_out_time, check_out_lat, check_out_lng, total_hours,
		fingerprint_verified, location_verified,
		location_id, location_name, distance_meters`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Name, &rec.Date, &rec.Timestamp,
		&rec.CheckInTime, &rec.CheckInLat, &rec.CheckInLng,
		&rec.CheckOutTime, &rec.CheckOutLat, &rec.CheckOutLng, &rec.TotalHours,
		&rec.FingerprintVerified, &rec.LocationVerified,
		&rec.LocationID, &rec.LocationName, &rec.DistanceMeters,
	)
	return rec, err
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(fmt.Errorf("failed to iterate attendance: %w", err))
	}
	return records, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(fmt.Errorf("failed to get attendance: %w", err))
	}
	return &rec, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (
			id, employee_id, name, date, timestamp,
			check_in_time, check_in_lat, check_in_lng,
			fingerprint_verified, location_verified,
			location_id, location_name, distance_meters
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		rec.ID, rec.EmployeeID, rec.Name, rec.Date, rec.Timestamp,
		rec.CheckInTime, rec.CheckInLat, rec.CheckInLng,
		rec.FingerprintVerified, rec.LocationVerified,
		rec.LocationID, rec.LocationName, rec.DistanceMeters,
	)
	if err != nil {
		return mapError(fmt.Errorf("failed to create attendance: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedIn
	}
	return nil
}

// UpdateCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET check_out_time = $1, check_out_lat = $2, check_out_lng = $3, total_hours = $4
		WHERE id = $5 AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query, update.CheckOutTime, update.CheckOutLat, update.CheckOutLng, update.TotalHours, id)
	if err != nil {
		return mapError(fmt.Errorf("failed to update check-out: %w", err))
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM attendance WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(fmt.Errorf("failed to check attendance: %w", err))
	}
	if !exists {
		return attendance.ErrRecordNotFound
	}
	return attendance.ErrAlreadyCheckedOut
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	where := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != "" {
		where += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, filter.StartDate)
		argIdx++
	}
	if filter.EndDate != "" {
		where += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, filter.EndDate)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = attendance.DefaultHistoryLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT %s FROM attendance WHERE %s ORDER BY timestamp DESC LIMIT $%d`,
		attendanceColumns, where, argIdx)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list attendance: %w", err))
	}
	return collectRecords(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE date = $1 ORDER BY timestamp ASC`, date)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list attendance by date: %w", err))
	}
	return collectRecords(rows)
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE date = $1 AND check_out_time IS NULL ORDER BY timestamp ASC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, mapError(fmt.Errorf("failed to list open attendance: %w", err))
	}
	return collectRecords(rows)
}
