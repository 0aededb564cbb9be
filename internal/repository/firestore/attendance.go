package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"google.golang.org/api/iterator"
)

type attendanceDocument struct {
	EmployeeID          string    `firestore:"employeeId"`
	Name                string    `firestore:"name"`
	Date                string    `firestore:"date"`
	Timestamp           time.Time `firestore:"timestamp"`
	CheckInTime         string    `firestore:"checkInTime"`
	CheckInLat          float64   `firestore:"checkInLat"`
	CheckInLng          float64   `firestore:"checkInLng"`
	CheckOutTime        *string   `firestore:"checkOutTime"`
	CheckOutLat         *float64  `firestore:"checkOutLat"`
	CheckOutLng         *float64  `firestore:"checkOutLng"`
	TotalHours          *string   `firestore:"totalHours"`
	FingerprintVerified bool      `firestore:"fingerprintVerified"`
	LocationVerified    bool      `firestore:"locationVerified"`
	LocationID          string    `firestore:"locationId"`
	LocationName        string    `firestore:"locationName"`
	DistanceMeters      float64   `firestore:"distanceMeters"`
}

func toAttendanceDocument(r attendance.Record) attendanceDocument {
	return attendanceDocument{
		EmployeeID:          r.EmployeeID,
		Name:                r.Name,
		Date:                r.Date,
		Timestamp:           r.Timestamp,
		CheckInTime:         r.CheckInTime,
		CheckInLat:          r.CheckInLat,
		CheckInLng:          r.CheckInLng,
		CheckOutTime:        r.CheckOutTime,
		CheckOutLat:         r.CheckOutLat,
		CheckOutLng:         r.CheckOutLng,
		TotalHours:          r.TotalHours,
		FingerprintVerified: r.FingerprintVerified,
		LocationVerified:    r.LocationVerified,
		LocationID:          r.LocationID,
		LocationName:        r.LocationName,
		DistanceMeters:      r.DistanceMeters,
	}
}

func (d attendanceDocument) toRecord(id string) attendance.Record {
	return attendance.Record{
		ID:                  id,
		EmployeeID:          d.EmployeeID,
		Name:                d.Name,
		Date:                d.Date,
		Timestamp:           d.Timestamp,
		CheckInTime:         d.CheckInTime,
		CheckInLat:          d.CheckInLat,
		CheckInLng:          d.CheckInLng,
		CheckOutTime:        d.CheckOutTime,
		CheckOutLat:         d.CheckOutLat,
		CheckOutLng:         d.CheckOutLng,
		TotalHours:          d.TotalHours,
		FingerprintVerified: d.FingerprintVerified,
		LocationVerified:    d.LocationVerified,
		LocationID:          d.LocationID,
		LocationName:        d.LocationName,
		DistanceMeters:      d.DistanceMeters,
	}
}

type attendanceRepository struct {
	client *firestore.Client
}

func NewAttendanceRepository(client *firestore.Client) attendance.AttendanceRepository {
	return &attendanceRepository{client: client}
}

func (a *attendanceRepository) records() *firestore.CollectionRef {
	return a.client.Collection(attendanceCollection)
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Record, error) {
	snap, err := a.records().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapError(fmt.Errorf("failed to get attendance: %w", err))
	}

	var doc attendanceDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}
	rec := doc.toRecord(snap.Ref.ID)
	return &rec, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, rec attendance.Record) error {
	if _, err := a.records().Doc(rec.ID).Create(ctx, toAttendanceDocument(rec)); err != nil {
		if isAlreadyExists(err) {
			return attendance.ErrAlreadyCheckedIn
		}
		return mapError(fmt.Errorf("failed to create attendance: %w", err))
	}
	return nil
}

// UpdateCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) error {
	ref := a.records().Doc(id)

	err := a.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return attendance.ErrRecordNotFound
			}
			return err
		}

		var doc attendanceDocument
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("failed to decode attendance: %w", err)
		}
		if doc.CheckOutTime != nil && *doc.CheckOutTime != "" {
			return attendance.ErrAlreadyCheckedOut
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "checkOutTime", Value: update.CheckOutTime},
			{Path: "checkOutLat", Value: update.CheckOutLat},
			{Path: "checkOutLng", Value: update.CheckOutLng},
			{Path: "totalHours", Value: update.TotalHours},
		})
	})
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) || errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return err
		}
		return mapError(fmt.Errorf("failed to update check-out: %w", err))
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	query := a.records().Where("employeeId", "==", employeeID)

	// A range on date requires date to be the first sort key.
	if filter.StartDate != "" || filter.EndDate != "" {
		if filter.StartDate != "" {
			query = query.Where("date", ">=", filter.StartDate)
		}
		if filter.EndDate != "" {
			query = query.Where("date", "<=", filter.EndDate)
		}
		query = query.OrderBy("date", firestore.Desc).OrderBy("timestamp", firestore.Desc)
	} else {
		query = query.OrderBy("timestamp", firestore.Desc)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = attendance.DefaultHistoryLimit
	}

	return a.collect(query.Limit(limit).Documents(ctx))
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	return a.collect(a.records().Where("date", "==", date).OrderBy("timestamp", firestore.Asc).Documents(ctx))
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	records, err := a.collect(a.records().Where("date", "==", date).Documents(ctx))
	if err != nil {
		return nil, err
	}

	open := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		if !rec.HasCheckedOut() {
			open = append(open, rec)
		}
	}
	return open, nil
}

func (a *attendanceRepository) collect(iter *firestore.DocumentIterator) ([]attendance.Record, error) {
	defer iter.Stop()

	records := make([]attendance.Record, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError(fmt.Errorf("failed to list attendance: %w", err))
		}

		var doc attendanceDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode attendance %s: %w", snap.Ref.ID, err)
		}
		records = append(records, doc.toRecord(snap.Ref.ID))
	}
	return records, nil
}
