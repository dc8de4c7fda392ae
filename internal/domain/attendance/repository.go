package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil when the employee has no record that day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// InsertCheckIn creates the day's record, or fills one that has no check-in.
	// It returns ErrAlreadyCheckedIn when a check-in already exists.
	InsertCheckIn(ctx context.Context, rec Record) (Record, error)
	// CompleteCheckOut sets the check-out of an open record. It returns
	// ErrAlreadyCheckedOut when the record is no longer open.
	CompleteCheckOut(ctx context.Context, rec Record) (Record, error)
	UpsertAbsent(ctx context.Context, employeeID string, date time.Time, notes *string) (Record, error)
	UpdateStatus(ctx context.Context, id string, status Status, notes *string) (Record, error)
	ListByEmployee(ctx context.Context, employeeID string, filter HistoryFilter) ([]Record, int64, error)
}
