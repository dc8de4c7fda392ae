package dashboard

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// PresenceTopic carries live attendance changes to dashboard subscribers.
const PresenceTopic = "presence"

const (
	EventCheckIn       = "check_in"
	EventCheckOut      = "check_out"
	EventAbsent        = "absent"
	EventStatusUpdated = "status_updated"
)

type PresenceEvent struct {
	EmployeeID string `json:"employee_id"`
	RecordID   string `json:"record_id"`
	Status     string `json:"status"`
	Manual     bool   `json:"manual"`
	At         string `json:"at"`
}

// PresenceEntry is one employee line of the live board. RecordID is empty for
// employees who have no record today.
type PresenceEntry struct {
	RecordID       string  `json:"record_id,omitempty"`
	EmployeeID     string  `json:"employee_id"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckInIP      *string `json:"check_in_ip,omitempty"`
	Status         string  `json:"status"`
	WorkingMinutes int     `json:"working_minutes"`
}

type WhoIsInOfficeResponse struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Entries []PresenceEntry `json:"entries"`
}

type TodaySummary struct {
	TotalEmployees int `json:"total_employees"`
	CheckedIn      int `json:"checked_in"`
	CheckedOut     int `json:"checked_out"`
	InOffice       int `json:"in_office"`
	Present        int `json:"present"`
	Late           int `json:"late"`
	Absent         int `json:"absent"`
	HalfDay        int `json:"half_day"`
}

type StatusListing struct {
	Present []PresenceEntry `json:"present"`
	Late    []PresenceEntry `json:"late"`
	HalfDay []PresenceEntry `json:"half_day"`
	Absent  []PresenceEntry `json:"absent"`
}

type TodaySummaryResponse struct {
	Date     string        `json:"date"`
	Summary  TodaySummary  `json:"summary"`
	ByStatus StatusListing `json:"by_status"`
}

type RangeFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// Validate checks the filter and returns the parsed bounds; nil means unbounded.
func (f *RangeFilter) Validate() (start, end *time.Time, err error) {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if t, valid := validator.IsValidDate(*f.StartDate); valid {
			start = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if t, valid := validator.IsValidDate(*f.EndDate); valid {
			end = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if start != nil && end != nil && end.Before(*start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return start, end, nil
}

type DayBreakdown struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
	HalfDay int    `json:"half_day"`
	Total   int    `json:"total"`
}

type StatusCounts struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
	HalfDay int `json:"half_day"`
}

func (c *StatusCounts) Add(status attendance.Status) {
	switch status {
	case attendance.StatusPresent:
		c.Present++
	case attendance.StatusLate:
		c.Late++
	case attendance.StatusAbsent:
		c.Absent++
	case attendance.StatusHalfDay:
		c.HalfDay++
	}
}

type RangeStatisticsResponse struct {
	StartDate             *string        `json:"start_date,omitempty"`
	EndDate               *string        `json:"end_date,omitempty"`
	TotalRecords          int            `json:"total_records"`
	Counts                StatusCounts   `json:"counts"`
	AverageWorkingMinutes float64        `json:"average_working_minutes"`
	ByDate                []DayBreakdown `json:"by_date"`
}

type EmployeeStatsResponse struct {
	EmployeeID            string                      `json:"employee_id"`
	TotalDays             int                         `json:"total_days"`
	Counts                StatusCounts                `json:"counts"`
	AttendancePercentage  float64                     `json:"attendance_percentage"`
	TotalWorkingMinutes   int                         `json:"total_working_minutes"`
	AverageWorkingMinutes float64                     `json:"average_working_minutes"`
	Records               []attendance.RecordResponse `json:"records"`
}
