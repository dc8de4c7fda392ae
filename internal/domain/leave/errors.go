package leave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrOverlap              = errors.New("leave request overlaps an existing pending or approved request")
	ErrInvalidDates         = errors.New("invalid leave dates")
	ErrStartInPast          = fmt.Errorf("%w: start_date must not be in the past", ErrInvalidDates)
	ErrEndBeforeStart       = fmt.Errorf("%w: end_date must not be before start_date", ErrInvalidDates)
	ErrNotPending           = errors.New("leave request is not pending")
	ErrNotOwner             = errors.New("leave request belongs to another employee")
)

// NotPendingError reports the status a leave request was already in.
type NotPendingError struct {
	Current Status
}

func (e NotPendingError) Error() string {
	return "leave request has already been " + strings.ToLower(string(e.Current))
}

func (e NotPendingError) Is(target error) bool {
	return target == ErrNotPending
}
