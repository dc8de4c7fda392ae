package schedule

import "context"

type WorkScheduleRepository interface {
	// GetActive returns nil when the employee has no active schedule.
	GetActive(ctx context.Context, employeeID string) (*WorkSchedule, error)
	Upsert(ctx context.Context, ws WorkSchedule) (WorkSchedule, error)
	// CreateIfAbsent keeps an existing row, active or not, untouched.
	CreateIfAbsent(ctx context.Context, ws WorkSchedule) error
	ListActive(ctx context.Context) ([]WorkSchedule, error)
	Deactivate(ctx context.Context, employeeID string) error
}
