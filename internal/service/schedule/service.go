package schedule

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
)

type ScheduleServiceImpl struct {
	schedule.WorkScheduleRepository
	employee.EmployeeRepository
	fallback schedule.Default
}

// NewScheduleService returns the resolver. fallback fills in for employees
// without an active schedule.
func NewScheduleService(
	workScheduleRepository schedule.WorkScheduleRepository,
	employeeRepository employee.EmployeeRepository,
	fallback schedule.Default,
) schedule.ScheduleService {
	fallback.GracePeriodMinutes = schedule.ClampGrace(fallback.GracePeriodMinutes)
	return &ScheduleServiceImpl{
		WorkScheduleRepository: workScheduleRepository,
		EmployeeRepository:     employeeRepository,
		fallback:               fallback,
	}
}

// Resolve implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) Resolve(ctx context.Context, employeeID string) (schedule.Effective, error) {
	ws, err := s.WorkScheduleRepository.GetActive(ctx, employeeID)
	if err != nil {
		return schedule.Effective{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	if ws == nil {
		return s.fallback.For(employeeID).Effective(true), nil
	}
	return ws.Effective(false), nil
}

// ResolveForCheckIn implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ResolveForCheckIn(ctx context.Context, employeeID string) (schedule.Effective, error) {
	ws, err := s.WorkScheduleRepository.GetActive(ctx, employeeID)
	if err != nil {
		return schedule.Effective{}, fmt.Errorf("failed to get work schedule: %w", err)
	}
	if ws != nil {
		return ws.Effective(false), nil
	}

	def := s.fallback.For(employeeID)
	if err := s.WorkScheduleRepository.CreateIfAbsent(ctx, def); err != nil {
		return schedule.Effective{}, fmt.Errorf("failed to persist default work schedule: %w", err)
	}
	return def.Effective(true), nil
}

// Upsert implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) Upsert(ctx context.Context, req schedule.UpsertWorkScheduleRequest) (schedule.WorkScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return schedule.WorkScheduleResponse{}, err
	}

	saved, err := s.WorkScheduleRepository.Upsert(ctx, schedule.WorkSchedule{
		EmployeeID:         req.EmployeeID,
		CheckInTime:        req.CheckInTime,
		CheckOutTime:       req.CheckOutTime,
		GracePeriodMinutes: req.Grace(),
		IsActive:           true,
	})
	if err != nil {
		return schedule.WorkScheduleResponse{}, fmt.Errorf("failed to save work schedule: %w", err)
	}
	return schedule.NewWorkScheduleResponse(saved), nil
}

// ListActive implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListActive(ctx context.Context) ([]schedule.WorkScheduleResponse, error) {
	schedules, err := s.WorkScheduleRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}

	responses := make([]schedule.WorkScheduleResponse, 0, len(schedules))
	for _, ws := range schedules {
		responses = append(responses, schedule.NewWorkScheduleResponse(ws))
	}
	return responses, nil
}

// Deactivate implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) Deactivate(ctx context.Context, employeeID string) error {
	if err := s.WorkScheduleRepository.Deactivate(ctx, employeeID); err != nil {
		return fmt.Errorf("failed to deactivate work schedule: %w", err)
	}
	return nil
}
