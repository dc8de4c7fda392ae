package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrNotCheckedIn       = errors.New("not checked in today")
	ErrOutsideWindow      = errors.New("outside the attendance admission window")
	ErrInvalidStatus      = errors.New("status must be one of PRESENT, LATE, ABSENT, HALF_DAY")
)
