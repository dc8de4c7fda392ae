package attendance

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest may carry the device clock. It only moves the admission-window
// evaluation, and only when it is close to server time.
type CheckInRequest struct {
	ClientTime *string `json:"client_time,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validateClientTime(r.ClientTime)
}

type CheckOutRequest struct {
	ClientTime *string `json:"client_time,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validateClientTime(r.ClientTime)
}

func validateClientTime(clientTime *string) error {
	if clientTime == nil || *clientTime == "" {
		return nil
	}
	if _, ok := validator.IsValidDateTime(*clientTime); !ok {
		return validator.ValidationErrors{{
			Field:   "client_time",
			Message: "client_time must be an RFC3339 timestamp",
		}}
	}
	return nil
}

type MarkAbsentRequest struct {
	Date  string  `json:"date"` // YYYY-MM-DD, defaults to today
	Notes *string `json:"notes,omitempty"`
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Notes != nil && !validator.MaxLength(*r.Notes, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	if r.Notes != nil && !validator.MaxLength(*r.Notes, 500) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 30
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		var valid bool
		if start, valid = validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		var valid bool
		if end, valid = validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckInIP      *string `json:"check_in_ip,omitempty"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	CheckOutIP     *string `json:"check_out_ip,omitempty"`
	Status         string  `json:"status"`
	WorkingMinutes *int    `json:"working_minutes,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// timePtrToString formats t in loc, or returns nil.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format(time.RFC3339)
	return &format
}

// NewRecordResponse renders rec with timestamps in the office timezone.
func NewRecordResponse(rec Record, loc *time.Location) RecordResponse {
	return RecordResponse{
		ID:             rec.ID,
		EmployeeID:     rec.EmployeeID,
		Date:           rec.Date.Format("2006-01-02"),
		CheckInTime:    timePtrToString(rec.CheckInTime, loc),
		CheckInIP:      rec.CheckInIP,
		CheckOutTime:   timePtrToString(rec.CheckOutTime, loc),
		CheckOutIP:     rec.CheckOutIP,
		Status:         string(rec.Status),
		WorkingMinutes: rec.WorkingMinutes,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:      rec.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}

type CheckInResponse struct {
	Record          RecordResponse     `json:"record"`
	LateMinutes     int                `json:"late_minutes"`
	EarlyMinutes    int                `json:"early_minutes"`
	ExpectedCheckIn string             `json:"expected_check_in"`
	Schedule        schedule.Effective `json:"schedule"`
}

type CheckOutResponse struct {
	Record         RecordResponse `json:"record"`
	WorkingMinutes int            `json:"working_minutes"`
}

type TodayResponse struct {
	Date        string             `json:"date"`
	State       string             `json:"state"`
	Record      *RecordResponse    `json:"record,omitempty"`
	CanCheckIn  bool               `json:"can_check_in"`
	CanCheckOut bool               `json:"can_check_out"`
	Window      string             `json:"window"`
	Schedule    schedule.Effective `json:"schedule"`
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
