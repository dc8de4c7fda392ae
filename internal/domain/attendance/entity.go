package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
)

// HalfDayThresholdMinutes is the working time below which a PRESENT day becomes HALF_DAY.
const HalfDayThresholdMinutes = 240

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}

// State is the position of an (employee, day) pair in the check-in lifecycle.
type State int

const (
	StateNoRecord State = iota
	StateCheckedIn
	StateCheckedOut
)

func (s State) String() string {
	switch s {
	case StateCheckedIn:
		return "CHECKED_IN"
	case StateCheckedOut:
		return "CHECKED_OUT"
	}
	return "NO_RECORD"
}

// Record is the single attendance row of an employee for one office-local day.
type Record struct {
	ID             string
	EmployeeID     string
	Date           time.Time // midnight UTC of the office-local calendar day
	CheckInTime    *time.Time
	CheckInIP      *string
	CheckOutTime   *time.Time
	CheckOutIP     *string
	Status         Status
	WorkingMinutes *int
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// State derives the lifecycle state. A record without a check-in, such as one
// marked ABSENT, has not entered the lifecycle yet.
func (r *Record) State() State {
	switch {
	case r == nil || r.CheckInTime == nil:
		return StateNoRecord
	case r.CheckOutTime == nil:
		return StateCheckedIn
	}
	return StateCheckedOut
}

// DayOf returns the office-local calendar day of t as midnight UTC, the form
// stored in DATE columns.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
