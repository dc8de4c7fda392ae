package employee

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Employee is owned by the identity service; the presence core only reads it.
type Employee struct {
	ID        string
	FullName  string
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
