package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
)

// PresenceRow is a record joined with its still-existing employee.
type PresenceRow struct {
	Record   attendance.Record
	Employee employee.Employee
}

type DashboardRepository interface {
	// ListPresenceByDate skips records whose employee was deleted.
	ListPresenceByDate(ctx context.Context, date time.Time) ([]PresenceRow, error)
	// ListRecords returns records newest first; nil bounds are open.
	ListRecords(ctx context.Context, employeeID *string, start, end *time.Time) ([]attendance.Record, error)
}
