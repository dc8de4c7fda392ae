package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveResponse, error)
	Review(ctx context.Context, leaveID, adminID string, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, leaveID, employeeID string) error

	// GetOwn returns ErrNotOwner when the request belongs to someone else.
	GetOwn(ctx context.Context, leaveID, employeeID string) (LeaveResponse, error)
	Get(ctx context.Context, leaveID string) (LeaveResponse, error)
	List(ctx context.Context, filter ListFilter) (ListLeaveResponse, error)

	EmployeeStats(ctx context.Context, employeeID string) (EmployeeStatsResponse, error)
	GlobalStats(ctx context.Context) (GlobalStatsResponse, error)
}
