package schedule

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

type UpsertWorkScheduleRequest struct {
	EmployeeID   string `json:"-"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
	// GracePeriodMinutes defaults to 30 when omitted; explicit values are clamped to 0-120.
	GracePeriodMinutes *int `json:"grace_period_minutes"`
}

func (r *UpsertWorkScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if !validator.IsValidClock(r.CheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time must use 24h HH:MM format",
		})
	}

	if !validator.IsValidClock(r.CheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time must use 24h HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Grace returns the clamped grace period to persist.
func (r *UpsertWorkScheduleRequest) Grace() int {
	if r.GracePeriodMinutes == nil {
		return DefaultSchedule.GracePeriodMinutes
	}
	return ClampGrace(*r.GracePeriodMinutes)
}

type WorkScheduleResponse struct {
	EmployeeID         string `json:"employee_id"`
	CheckInTime        string `json:"check_in_time"`
	CheckOutTime       string `json:"check_out_time"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func NewWorkScheduleResponse(ws WorkSchedule) WorkScheduleResponse {
	return WorkScheduleResponse{
		EmployeeID:         ws.EmployeeID,
		CheckInTime:        ws.CheckInTime,
		CheckOutTime:       ws.CheckOutTime,
		GracePeriodMinutes: ws.GracePeriodMinutes,
		IsActive:           ws.IsActive,
		CreatedAt:          ws.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          ws.UpdatedAt.Format(time.RFC3339),
	}
}
