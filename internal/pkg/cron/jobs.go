package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
)

const (
	JobOpenShiftReport = "open_shift_report"
	JobPurgeTokens     = "purge_revoked_tokens"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	now               func() time.Time
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, jwtService jwt.Service) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		now:               time.Now,
	}
}

// Register adds the attendance jobs to s.
func (j *AttendanceJobs) Register(s *Scheduler, reportInterval, purgeInterval time.Duration) error {
	if err := s.AddJob(Job{Name: JobOpenShiftReport, Interval: reportInterval, RunOnStart: true, Fn: j.ReportOpenShifts}); err != nil {
		return err
	}
	return s.AddJob(Job{Name: JobPurgeTokens, Interval: purgeInterval, Fn: j.PurgeRevokedTokens})
}

// ReportOpenShifts flags employees who never checked out yesterday.
func (j *AttendanceJobs) ReportOpenShifts(ctx context.Context) error {
	shifts, err := j.attendanceService.ReportOpenShifts(ctx)
	if err != nil {
		return err
	}
	for _, shift := range shifts {
		slog.Info("Open shift", "employee_id", shift.EmployeeID, "date", shift.Date, "check_in_time", shift.CheckInTime)
	}
	return nil
}

func (j *AttendanceJobs) PurgeRevokedTokens(ctx context.Context) error {
	if n := j.jwtService.PurgeRevoked(j.now()); n > 0 {
		slog.Info("Purged revoked tokens", "count", n)
	}
	return nil
}
