package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	existing map[string]bool
	absent   map[string]string
	getErr   error
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.existing[employeeID] {
		return &attendance.Record{EmployeeID: employeeID, Date: date}, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) UpsertAbsent(ctx context.Context, employeeID string, date time.Time, notes *string) (attendance.Record, error) {
	f.absent[employeeID+"|"+date.Format("2006-01-02")] = *notes
	return attendance.Record{EmployeeID: employeeID, Date: date, Status: attendance.StatusAbsent, Notes: notes}, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	onLeave map[string]leave.Type
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	if t, ok := f.onLeave[*filter.EmployeeID]; ok && *filter.Status == string(leave.StatusApproved) {
		return []leave.LeaveRequest{{EmployeeID: *filter.EmployeeID, LeaveType: t}}, 1, nil
	}
	return nil, 0, nil
}

func newSweep(now time.Time, att *fakeAttendanceRepo) *AbsenceSweep {
	emps := &fakeEmployeeRepo{employees: []employee.Employee{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}}}
	leaves := &fakeLeaveRepo{onLeave: map[string]leave.Type{"e3": leave.TypeSick}}
	j := NewAbsenceSweep(att, emps, leaves, wib, true)
	j.now = func() time.Time { return now }
	return j
}

func TestMarkAbsentEmployees(t *testing.T) {
	att := &fakeAttendanceRepo{existing: map[string]bool{"e1": true}, absent: map[string]string{}}
	// Tuesday 01:00 WIB sweeps Monday
	j := newSweep(time.Date(2024, 6, 11, 1, 0, 0, 0, wib), att)

	require.NoError(t, j.MarkAbsentEmployees(context.Background()))

	assert.Len(t, att.absent, 2)
	assert.Equal(t, noteNoCheckIn, att.absent["e2|2024-06-10"])
	assert.Equal(t, "On approved leave (SICK)", att.absent["e3|2024-06-10"])
}

func TestMarkAbsentEmployees_SkipsWeekends(t *testing.T) {
	att := &fakeAttendanceRepo{absent: map[string]string{}}
	// Sunday sweeps Saturday
	j := newSweep(time.Date(2024, 6, 9, 8, 0, 0, 0, wib), att)

	require.NoError(t, j.MarkAbsentEmployees(context.Background()))
	assert.Empty(t, att.absent)
}

func TestMarkAbsentEmployees_ReportsFailures(t *testing.T) {
	att := &fakeAttendanceRepo{absent: map[string]string{}, getErr: errors.New("connection reset")}
	j := newSweep(time.Date(2024, 6, 11, 1, 0, 0, 0, wib), att)

	err := j.MarkAbsentEmployees(context.Background())
	assert.ErrorContains(t, err, "connection reset")
	assert.ErrorContains(t, err, "employee e2")
}

func TestScheduler_RunStopsWithContext(t *testing.T) {
	s := NewScheduler()
	var calls atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
