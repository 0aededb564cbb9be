// Package memory keeps users, locations and attendance records in process
// memory. It backs STORE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/domain/location"
	"github.com/inout-app/inout-backend-go/internal/domain/user"
)

// Store is shared by the three repositories so that location deletes can
// unassign users atomically.
type Store struct {
	mu         sync.RWMutex
	users      map[string]user.User
	locations  map[string]location.Location
	attendance map[string]attendance.Record
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]user.User),
		locations:  make(map[string]location.Location),
		attendance: make(map[string]attendance.Record),
		now:        time.Now,
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneUser(u user.User) user.User {
	u.EmployeeID = cloneString(u.EmployeeID)
	u.AssignedLocationID = cloneString(u.AssignedLocationID)
	return u
}

func cloneRecord(r attendance.Record) attendance.Record {
	r.CheckOutTime = cloneString(r.CheckOutTime)
	r.CheckOutLat = cloneFloat(r.CheckOutLat)
	r.CheckOutLng = cloneFloat(r.CheckOutLng)
	r.TotalHours = cloneString(r.TotalHours)
	return r
}

func sortRecordsNewestFirst(records []attendance.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
