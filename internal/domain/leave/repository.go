package leave

import (
	"context"
	"time"
)

// StatusTypeCount is one group of a status/type aggregate.
type StatusTypeCount struct {
	Status    Status
	LeaveType Type
	Count     int
	TotalDays int
}

type LeaveRequestRepository interface {
	// Create returns ErrOverlap when the storage-level exclusion rule rejects the row.
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)
	// Review moves a PENDING request to status. It returns ErrNotPending when
	// the request is no longer pending.
	Review(ctx context.Context, id string, status Status, reviewedBy string, reviewedAt time.Time, adminNotes *string) (LeaveRequest, error)
	// DeletePending removes a PENDING request. It returns ErrNotPending otherwise.
	DeletePending(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	// CountByStatusAndType groups requests, optionally for one employee.
	CountByStatusAndType(ctx context.Context, employeeID *string) ([]StatusTypeCount, error)
}
