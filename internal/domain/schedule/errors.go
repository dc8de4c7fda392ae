package schedule

import "errors"

var (
	ErrWorkScheduleNotFound = errors.New("work schedule not found")
	ErrInvalidClock         = errors.New("time must use 24h HH:MM format")
)
