package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
)

const (
	noteNoCheckIn     = "Marked absent automatically: no check-in"
	noteApprovedLeave = "On approved leave (%s)"
)

// AbsenceSweep records ABSENT for employees who never checked in on the
// previous office day.
type AbsenceSweep struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	leaveRepo      leave.LeaveRequestRepository
	loc            *time.Location
	now            func() time.Time
	skipWeekends   bool
}

func NewAbsenceSweep(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	loc *time.Location,
	skipWeekends bool,
) *AbsenceSweep {
	if loc == nil {
		loc = time.UTC
	}
	return &AbsenceSweep{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		leaveRepo:      leaveRepo,
		loc:            loc,
		now:            time.Now,
		skipWeekends:   skipWeekends,
	}
}

func (j *AbsenceSweep) Register(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees is idempotent: employees with any record for the day are left alone.
func (j *AbsenceSweep) MarkAbsentEmployees(ctx context.Context) error {
	day := attendance.DayOf(j.now(), j.loc).AddDate(0, 0, -1)
	if j.skipWeekends && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
		return nil
	}

	employees, err := j.employeeRepo.ListByRole(ctx, employee.RoleEmployee)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	var (
		marked int
		errs   []error
	)
	for _, emp := range employees {
		ok, err := j.markIfMissing(ctx, emp.ID, day)
		if err != nil {
			errs = append(errs, fmt.Errorf("employee %s: %w", emp.ID, err))
			continue
		}
		if ok {
			marked++
		}
	}

	if marked > 0 {
		slog.Info("Cron: marked employees absent", "date", day.Format("2006-01-02"), "count", marked)
	}
	return errors.Join(errs...)
}

func (j *AbsenceSweep) markIfMissing(ctx context.Context, employeeID string, day time.Time) (bool, error) {
	rec, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return false, err
	}
	if rec != nil {
		return false, nil
	}

	notes := noteNoCheckIn
	date := day.Format("2006-01-02")
	approved := string(leave.StatusApproved)
	leaves, _, err := j.leaveRepo.List(ctx, leave.ListFilter{
		EmployeeID: &employeeID,
		Status:     &approved,
		StartDate:  &date,
		EndDate:    &date,
		Page:       1,
		Limit:      1,
	})
	if err != nil {
		return false, err
	}
	if len(leaves) > 0 {
		notes = fmt.Sprintf(noteApprovedLeave, leaves[0].LeaveType)
	}

	if _, err := j.attendanceRepo.UpsertAbsent(ctx, employeeID, day, &notes); err != nil {
		return false, err
	}
	return true, nil
}
