package leave

import "time"

type Type string

const (
	TypeSick      Type = "SICK"
	TypeVacation  Type = "VACATION"
	TypePersonal  Type = "PERSONAL"
	TypeEmergency Type = "EMERGENCY"
	TypeOther     Type = "OTHER"
)

var Types = []Type{TypeSick, TypeVacation, TypePersonal, TypeEmergency, TypeOther}

func (t Type) IsValid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest covers the inclusive calendar range [StartDate, EndDate].
// Both dates are midnight UTC of the office-local day.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	LeaveType  Type
	StartDate  time.Time
	EndDate    time.Time
	TotalDays  int
	Reason     string
	Status     Status
	AdminNotes *string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relationships (for responses)
	EmployeeName *string
}

// Overlaps reports whether the request shares at least one day with [start, end].
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// Blocking reports whether the request takes part in the no-overlap rule.
func (r LeaveRequest) Blocking() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// InclusiveDays counts calendar days in [start, end].
func InclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
