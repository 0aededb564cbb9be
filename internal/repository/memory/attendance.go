package memory

import (
	"context"
	"sort"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (*attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rec, ok := r.store.attendance[id]
	if !ok {
		return nil, nil
	}
	rec = cloneRecord(rec)
	return &rec, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateIfAbsent(ctx context.Context, record attendance.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.attendance[record.ID]; ok {
		return attendance.ErrAlreadyCheckedIn
	}
	r.store.attendance[record.ID] = cloneRecord(record)
	return nil
}

// UpdateCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateCheckOut(ctx context.Context, id string, update attendance.CheckOutUpdate) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rec, ok := r.store.attendance[id]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	if rec.HasCheckedOut() {
		return attendance.ErrAlreadyCheckedOut
	}
	rec.CheckOutTime = &update.CheckOutTime
	rec.CheckOutLat = &update.CheckOutLat
	rec.CheckOutLng = &update.CheckOutLng
	rec.TotalHours = &update.TotalHours
	r.store.attendance[id] = cloneRecord(rec)
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range r.store.attendance {
		if rec.EmployeeID != employeeID {
			continue
		}
		if filter.StartDate != "" && rec.Date < filter.StartDate {
			continue
		}
		if filter.EndDate != "" && rec.Date > filter.EndDate {
			continue
		}
		records = append(records, cloneRecord(rec))
	}
	sortRecordsNewestFirst(records)
	limit := filter.Limit
	if limit <= 0 {
		limit = attendance.DefaultHistoryLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	return r.listDate(date, false)
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenByDate(ctx context.Context, date string) ([]attendance.Record, error) {
	return r.listDate(date, true)
}

func (r *attendanceRepositoryImpl) listDate(date string, openOnly bool) ([]attendance.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range r.store.attendance {
		if rec.Date != date || (openOnly && rec.HasCheckedOut()) {
			continue
		}
		records = append(records, cloneRecord(rec))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}
