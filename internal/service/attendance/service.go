package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// Publisher receives presence changes for live dashboards.
type Publisher interface {
	Publish(topic string, event sse.Event)
}

type Options struct {
	// Location is the office timezone that defines "today" and schedule times.
	Location *time.Location
	Window   attendance.Window
	// ClientTimeSkew bounds how far a device clock may drift from server time
	// and still be used for the window check.
	ClientTimeSkew time.Duration
	Now            func() time.Time
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	scheduleService schedule.ScheduleService
	networkChecker  network.Checker
	publisher       Publisher

	loc    *time.Location
	window attendance.Window
	skew   time.Duration
	now    func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	scheduleService schedule.ScheduleService,
	networkChecker network.Checker,
	publisher Publisher,
	opts Options,
) attendance.AttendanceService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		scheduleService:      scheduleService,
		networkChecker:       networkChecker,
		publisher:            publisher,
		loc:                  opts.Location,
		window:               opts.Window,
		skew:                 opts.ClientTimeSkew,
		now:                  opts.Now,
	}
}

// Lateness compares a check-in instant with the schedule's expected check-in on
// the same office-local day. Minutes are floored.
func Lateness(at time.Time, eff schedule.Effective, loc *time.Location) (expected time.Time, lateMinutes, earlyMinutes int, status attendance.Status, err error) {
	hour, minute, ok := validator.ParseClock(eff.CheckInTime)
	if !ok {
		return time.Time{}, 0, 0, "", fmt.Errorf("%w: check_in_time %q", schedule.ErrInvalidClock, eff.CheckInTime)
	}

	local := at.In(loc)
	expected = time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)

	diff := at.Sub(expected)
	if diff > 0 {
		lateMinutes = int(math.Floor(diff.Minutes()))
	} else if diff < 0 {
		earlyMinutes = int(math.Floor(-diff.Minutes()))
	}

	status = attendance.StatusPresent
	if lateMinutes > eff.GracePeriodMinutes {
		status = attendance.StatusLate
	}
	return expected, lateMinutes, earlyMinutes, status, nil
}

// WorkingMinutes rounds the elapsed time between check-in and check-out to whole minutes.
func WorkingMinutes(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID, sourceIP string, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}
	now := s.now()

	rec, err := s.todayRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if rec.State() != attendance.StateNoRecord {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if err := s.admit(ctx, sourceIP, now, req.ClientTime); err != nil {
		return attendance.CheckInResponse{}, err
	}

	eff, err := s.scheduleService.ResolveForCheckIn(ctx, employeeID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	var notes *string
	if rec != nil {
		notes = rec.Notes
	}
	return s.checkIn(ctx, employeeID, sourceIP, now, eff, notes, false)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID, sourceIP string, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}
	now := s.now()

	rec, err := s.todayRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if err := checkOutAllowed(rec); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if err := s.admit(ctx, sourceIP, now, req.ClientTime); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return s.checkOut(ctx, *rec, sourceIP, now, rec.Notes, false)
}

// AdminCheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AdminCheckIn(ctx context.Context, adminID, employeeID string) (attendance.CheckInResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.CheckInResponse{}, err
	}
	now := s.now()

	rec, err := s.todayRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if rec.State() != attendance.StateNoRecord {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	eff, err := s.scheduleService.ResolveForCheckIn(ctx, employeeID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	var existing *string
	if rec != nil {
		existing = rec.Notes
	}
	notes := appendNote(existing, fmt.Sprintf("Manual check-in by admin %s", adminID))

	slog.InfoContext(ctx, "Manual check-in", "admin_id", adminID, "employee_id", employeeID)
	return s.checkIn(ctx, employeeID, network.ManualByAdmin, now, eff, &notes, true)
}

// AdminCheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) AdminCheckOut(ctx context.Context, adminID, employeeID string) (attendance.CheckOutResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.CheckOutResponse{}, err
	}
	now := s.now()

	rec, err := s.todayRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if err := checkOutAllowed(rec); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	notes := appendNote(rec.Notes, fmt.Sprintf("Manual check-out by admin %s", adminID))

	slog.InfoContext(ctx, "Manual check-out", "admin_id", adminID, "employee_id", employeeID)
	return s.checkOut(ctx, *rec, network.ManualByAdmin, now, &notes, true)
}

// MarkAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsent(ctx context.Context, employeeID string, req attendance.MarkAbsentRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	date := attendance.DayOf(s.now(), s.loc)
	if req.Date != "" {
		date, _ = validator.IsValidDate(req.Date)
	}

	rec, err := s.AttendanceRepository.UpsertAbsent(ctx, employeeID, date, req.Notes)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to mark absent: %w", err)
	}

	s.publish(dashboard.EventAbsent, rec, true)
	return attendance.NewRecordResponse(rec, s.loc), nil
}

// UpdateStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateStatus(ctx context.Context, recordID string, req attendance.UpdateStatusRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.AttendanceRepository.UpdateStatus(ctx, recordID, attendance.Status(req.Status), req.Notes)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.RecordResponse{}, err
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance status: %w", err)
	}

	s.publish(dashboard.EventStatusUpdated, rec, true)
	return attendance.NewRecordResponse(rec, s.loc), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (attendance.TodayResponse, error) {
	now := s.now()

	rec, err := s.todayRecord(ctx, employeeID, now)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	eff, err := s.scheduleService.Resolve(ctx, employeeID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	state := rec.State()
	open := s.window.Contains(now, s.loc)
	resp := attendance.TodayResponse{
		Date:        attendance.DayOf(now, s.loc).Format("2006-01-02"),
		State:       state.String(),
		CanCheckIn:  open && state == attendance.StateNoRecord,
		CanCheckOut: open && state == attendance.StateCheckedIn,
		Window:      s.window.String(),
		Schedule:    eff,
	}
	if rec != nil {
		r := attendance.NewRecordResponse(*rec, s.loc)
		resp.Record = &r
	}
	return resp, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordResponse{}, err
	}

	records, total, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListRecordResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewRecordResponse(rec, s.loc))
	}

	return attendance.ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

func (s *AttendanceServiceImpl) todayRecord(ctx context.Context, employeeID string, now time.Time) (*attendance.Record, error) {
	rec, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, attendance.DayOf(now, s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	return rec, nil
}

// admit applies the window and network checks, in that order.
func (s *AttendanceServiceImpl) admit(ctx context.Context, sourceIP string, now time.Time, clientTime *string) error {
	if !s.window.Contains(s.evaluationInstant(now, clientTime), s.loc) {
		return attendance.ErrOutsideWindow
	}
	return s.networkChecker.Check(ctx, sourceIP)
}

// evaluationInstant prefers the device clock when it is within the allowed skew.
func (s *AttendanceServiceImpl) evaluationInstant(now time.Time, clientTime *string) time.Time {
	if clientTime == nil || *clientTime == "" || s.skew <= 0 {
		return now
	}
	ct, ok := validator.IsValidDateTime(*clientTime)
	if !ok {
		return now
	}
	if d := ct.Sub(now); d > s.skew || d < -s.skew {
		return now
	}
	return ct
}

func (s *AttendanceServiceImpl) checkIn(ctx context.Context, employeeID, sourceIP string, now time.Time, eff schedule.Effective, notes *string, manual bool) (attendance.CheckInResponse, error) {
	expected, lateMinutes, earlyMinutes, status, err := Lateness(now, eff, s.loc)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	saved, err := s.AttendanceRepository.InsertCheckIn(ctx, attendance.Record{
		ID:          id.String(),
		EmployeeID:  employeeID,
		Date:        attendance.DayOf(now, s.loc),
		CheckInTime: &now,
		CheckInIP:   &sourceIP,
		Status:      status,
		Notes:       notes,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.CheckInResponse{}, err
		}
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.InfoContext(ctx, "Checked in", "employee_id", employeeID, "status", saved.Status, "late_minutes", lateMinutes)
	s.publish(dashboard.EventCheckIn, saved, manual)

	return attendance.CheckInResponse{
		Record:          attendance.NewRecordResponse(saved, s.loc),
		LateMinutes:     lateMinutes,
		EarlyMinutes:    earlyMinutes,
		ExpectedCheckIn: expected.Format(time.RFC3339),
		Schedule:        eff,
	}, nil
}

func (s *AttendanceServiceImpl) checkOut(ctx context.Context, rec attendance.Record, sourceIP string, now time.Time, notes *string, manual bool) (attendance.CheckOutResponse, error) {
	minutes := WorkingMinutes(*rec.CheckInTime, now)

	status := rec.Status
	if status == attendance.StatusPresent && minutes < attendance.HalfDayThresholdMinutes {
		status = attendance.StatusHalfDay
	}

	rec.CheckOutTime = &now
	rec.CheckOutIP = &sourceIP
	rec.WorkingMinutes = &minutes
	rec.Status = status
	rec.Notes = notes

	saved, err := s.AttendanceRepository.CompleteCheckOut(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.CheckOutResponse{}, err
		}
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	slog.InfoContext(ctx, "Checked out", "employee_id", rec.EmployeeID, "status", saved.Status, "working_minutes", minutes)
	s.publish(dashboard.EventCheckOut, saved, manual)

	return attendance.CheckOutResponse{
		Record:         attendance.NewRecordResponse(saved, s.loc),
		WorkingMinutes: minutes,
	}, nil
}

func (s *AttendanceServiceImpl) publish(event string, rec attendance.Record, manual bool) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(dashboard.PresenceTopic, sse.Event{
		Event: event,
		Data: dashboard.PresenceEvent{
			EmployeeID: rec.EmployeeID,
			RecordID:   rec.ID,
			Status:     string(rec.Status),
			Manual:     manual,
			At:         s.now().In(s.loc).Format(time.RFC3339),
		},
	})
}

func checkOutAllowed(rec *attendance.Record) error {
	switch rec.State() {
	case attendance.StateNoRecord:
		return attendance.ErrNotCheckedIn
	case attendance.StateCheckedOut:
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

func appendNote(existing *string, note string) string {
	if existing == nil || *existing == "" {
		return note
	}
	return *existing + "; " + note
}
