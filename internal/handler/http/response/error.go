package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Principal
	case errors.Is(err, jwt.ErrMissingPrincipal), errors.Is(err, jwt.ErrInvalidPrincipal):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, employee.ErrAdminPrivilegeRequired):
		Forbidden(w, "ADMIN_REQUIRED", "Admin privilege required")

	// Attendance state machine
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BusinessRule(w, "ALREADY_CHECKED_IN", "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BusinessRule(w, "ALREADY_CHECKED_OUT", "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BusinessRule(w, "NOT_CHECKED_IN", "You have not checked in today")
	case errors.Is(err, attendance.ErrOutsideWindow):
		Forbidden(w, "OUTSIDE_WINDOW", "Attendance is not accepted at this time")
	case errors.Is(err, network.ErrNetworkDenied):
		Forbidden(w, "NETWORK_DENIED", "You must be connected to the office network")

	// Leave lifecycle
	case errors.Is(err, leave.ErrOverlap):
		BusinessRule(w, "OVERLAP", "Leave request overlaps an existing pending or approved request")
	case errors.Is(err, leave.ErrNotPending):
		BusinessRule(w, "NOT_PENDING", capitalize(err.Error()))
	case errors.Is(err, leave.ErrInvalidDates):
		Fail(w, http.StatusBadRequest, "INVALID_DATES", capitalize(err.Error()), nil)
	case errors.Is(err, leave.ErrNotOwner):
		Forbidden(w, "", "You can only access your own leave requests")

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, schedule.ErrWorkScheduleNotFound):
		NotFound(w, "Work schedule not found")
	case errors.Is(err, network.ErrNetworkConfigNotFound):
		NotFound(w, "Network config not found")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
