package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

const minutesPerDay = 24 * 60

// Window is the time-of-day interval in which check-in and check-out are
// admitted. Start is inclusive, End exclusive; Start > End spans midnight.
// The zero value is open all day.
type Window struct {
	start, end int
	bounded    bool
}

// NewWindow parses "HH:MM" bounds. Two empty bounds yield an open window.
func NewWindow(start, end string) (Window, error) {
	if start == "" && end == "" {
		return Window{}, nil
	}
	sh, sm, ok := validator.ParseClock(start)
	if !ok {
		return Window{}, fmt.Errorf("invalid window start %q", start)
	}
	eh, em, ok := validator.ParseClock(end)
	if !ok {
		return Window{}, fmt.Errorf("invalid window end %q", end)
	}
	w := Window{start: sh*60 + sm, end: eh*60 + em, bounded: true}
	if w.start == w.end {
		return Window{}, fmt.Errorf("window start and end must differ")
	}
	return w, nil
}

// Contains reports whether t, read in loc, falls inside the window.
func (w Window) Contains(t time.Time, loc *time.Location) bool {
	if !w.bounded {
		return true
	}
	local := t.In(loc)
	m := local.Hour()*60 + local.Minute()
	if w.start < w.end {
		return m >= w.start && m < w.end
	}
	return m >= w.start || m < w.end
}

func (w Window) String() string {
	if !w.bounded {
		return "00:00-24:00"
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.start/60, w.start%60, w.end/60, w.end%60)
}
