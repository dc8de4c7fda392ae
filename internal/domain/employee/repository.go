package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound for unknown or deleted employees.
	GetByID(ctx context.Context, id string) (Employee, error)
	ListByRole(ctx context.Context, role Role) ([]Employee, error)
}
