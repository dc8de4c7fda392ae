package schedule

import "time"

const (
	MinGracePeriodMinutes = 0
	MaxGracePeriodMinutes = 120
)

type WorkSchedule struct {
	EmployeeID         string
	CheckInTime        string // HH:MM, office timezone
	CheckOutTime       string // HH:MM, office timezone
	GracePeriodMinutes int
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Default is the schedule applied to employees without one of their own.
type Default struct {
	CheckInTime        string
	CheckOutTime       string
	GracePeriodMinutes int
}

// DefaultSchedule is used when no fallback is configured.
var DefaultSchedule = Default{
	CheckInTime:        "09:00",
	CheckOutTime:       "18:00",
	GracePeriodMinutes: 30,
}

// Effective is the schedule the attendance engine computes against.
type Effective struct {
	EmployeeID         string `json:"employee_id"`
	CheckInTime        string `json:"check_in_time"`
	CheckOutTime       string `json:"check_out_time"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	IsDefault          bool   `json:"is_default"`
}

// ClampGrace bounds a grace period to the allowed range.
func ClampGrace(minutes int) int {
	if minutes < MinGracePeriodMinutes {
		return MinGracePeriodMinutes
	}
	if minutes > MaxGracePeriodMinutes {
		return MaxGracePeriodMinutes
	}
	return minutes
}

func (d Default) For(employeeID string) WorkSchedule {
	return WorkSchedule{
		EmployeeID:         employeeID,
		CheckInTime:        d.CheckInTime,
		CheckOutTime:       d.CheckOutTime,
		GracePeriodMinutes: ClampGrace(d.GracePeriodMinutes),
		IsActive:           true,
	}
}

func (w WorkSchedule) Effective(isDefault bool) Effective {
	return Effective{
		EmployeeID:         w.EmployeeID,
		CheckInTime:        w.CheckInTime,
		CheckOutTime:       w.CheckOutTime,
		GracePeriodMinutes: w.GracePeriodMinutes,
		IsDefault:          isDefault,
	}
}
