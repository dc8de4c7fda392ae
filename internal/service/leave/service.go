package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/google/uuid"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	loc *time.Location
	now func() time.Time
}

// NewLeaveService returns the leave lifecycle. "Today" is read in loc.
func NewLeaveService(leaveRequestRepository leave.LeaveRequestRepository, loc *time.Location, now func() time.Time) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		loc:                    loc,
		now:                    now,
	}
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, employeeID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	start, end, err := req.Validate()
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if start.Before(attendance.DayOf(s.now(), s.loc)) {
		return leave.LeaveResponse{}, leave.ErrStartInPast
	}
	if end.Before(start) {
		return leave.LeaveResponse{}, leave.ErrEndBeforeStart
	}

	overlap, err := s.LeaveRequestRepository.HasOverlap(ctx, employeeID, start, end)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check overlapping leave requests: %w", err)
	}
	if overlap {
		return leave.LeaveResponse{}, leave.ErrOverlap
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to generate leave id: %w", err)
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		ID:         id.String(),
		EmployeeID: employeeID,
		LeaveType:  leave.Type(req.LeaveType),
		StartDate:  start,
		EndDate:    end,
		TotalDays:  leave.InclusiveDays(start, end),
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		if errors.Is(err, leave.ErrOverlap) {
			return leave.LeaveResponse{}, err
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.InfoContext(ctx, "Leave requested", "leave_id", created.ID, "employee_id", employeeID, "total_days", created.TotalDays)
	return leave.NewLeaveResponse(created), nil
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, leaveID, adminID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	current, err := s.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if current.Status != leave.StatusPending {
		return leave.LeaveResponse{}, leave.NotPendingError{Current: current.Status}
	}

	reviewed, err := s.LeaveRequestRepository.Review(ctx, leaveID, leave.Status(req.Status), adminID, s.now(), req.AdminNotes)
	if err != nil {
		if errors.Is(err, leave.ErrNotPending) {
			// lost a race with another reviewer; report what they decided
			if latest, getErr := s.LeaveRequestRepository.GetByID(ctx, leaveID); getErr == nil {
				return leave.LeaveResponse{}, leave.NotPendingError{Current: latest.Status}
			}
			return leave.LeaveResponse{}, err
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to review leave request: %w", err)
	}

	slog.InfoContext(ctx, "Leave reviewed", "leave_id", leaveID, "admin_id", adminID, "status", reviewed.Status)
	return leave.NewLeaveResponse(reviewed), nil
}

// Delete implements leave.LeaveService.
func (s *LeaveServiceImpl) Delete(ctx context.Context, leaveID, employeeID string) error {
	current, err := s.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return err
	}
	if current.EmployeeID != employeeID {
		return leave.ErrNotOwner
	}
	if current.Status != leave.StatusPending {
		return leave.NotPendingError{Current: current.Status}
	}

	if err := s.LeaveRequestRepository.DeletePending(ctx, leaveID); err != nil {
		if errors.Is(err, leave.ErrNotPending) {
			return err
		}
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// GetOwn implements leave.LeaveService.
func (s *LeaveServiceImpl) GetOwn(ctx context.Context, leaveID, employeeID string) (leave.LeaveResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.LeaveResponse{}, leave.ErrNotOwner
	}
	return leave.NewLeaveResponse(request), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, leaveID string) (leave.LeaveResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveResponse(r))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Requests:   responses,
	}, nil
}

// EmployeeStats implements leave.LeaveService.
func (s *LeaveServiceImpl) EmployeeStats(ctx context.Context, employeeID string) (leave.EmployeeStatsResponse, error) {
	groups, err := s.LeaveRequestRepository.CountByStatusAndType(ctx, &employeeID)
	if err != nil {
		return leave.EmployeeStatsResponse{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	resp := leave.EmployeeStatsResponse{EmployeeID: employeeID}
	for _, g := range groups {
		resp.Counts.Add(g.Status, g.Count)
		if g.Status == leave.StatusApproved {
			resp.ApprovedTotalDays += g.TotalDays
		}
	}
	return resp, nil
}

// GlobalStats implements leave.LeaveService.
func (s *LeaveServiceImpl) GlobalStats(ctx context.Context) (leave.GlobalStatsResponse, error) {
	groups, err := s.LeaveRequestRepository.CountByStatusAndType(ctx, nil)
	if err != nil {
		return leave.GlobalStatsResponse{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	resp := leave.GlobalStatsResponse{ByType: make(map[string]int, len(leave.Types))}
	for _, t := range leave.Types {
		resp.ByType[string(t)] = 0
	}
	for _, g := range groups {
		resp.Counts.Add(g.Status, g.Count)
		resp.ByType[string(g.LeaveType)] += g.Count
		if g.Status == leave.StatusApproved {
			resp.ApprovedTotalDays += g.TotalDays
		}
	}
	return resp, nil
}
