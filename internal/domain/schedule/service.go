package schedule

import "context"

type ScheduleService interface {
	// Resolve is a read path; a missing schedule yields a non-persisted default.
	Resolve(ctx context.Context, employeeID string) (Effective, error)
	// ResolveForCheckIn persists the default when the employee has none.
	ResolveForCheckIn(ctx context.Context, employeeID string) (Effective, error)
	Upsert(ctx context.Context, req UpsertWorkScheduleRequest) (WorkScheduleResponse, error)
	ListActive(ctx context.Context) ([]WorkScheduleResponse, error)
	Deactivate(ctx context.Context, employeeID string) error
}
