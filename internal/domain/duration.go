package domain

import (
	"fmt"
	"time"
)

// Interval is a start/end pair whose end is strictly after its start.
// The zero value is not a valid interval; build one with NewInterval.
type Interval struct {
	start time.Time
	end   time.Time
}

// NewInterval checks the ordering of start and end.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, fmt.Errorf("end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Interval{start: start, end: end}, nil
}

// Start returns the beginning of the interval
func (iv Interval) Start() time.Time {
	return iv.start
}

// End returns the end of the interval
func (iv Interval) End() time.Time {
	return iv.end
}

// ComputeDurationMinutes returns the whole minutes covered by the interval,
// built from its day, hour and minute components. Seconds are truncated.
func ComputeDurationMinutes(iv Interval) int64 {
	elapsed := iv.end.Sub(iv.start)

	days := int64(elapsed / (24 * time.Hour))
	elapsed -= time.Duration(days) * 24 * time.Hour
	hours := int64(elapsed / time.Hour)
	elapsed -= time.Duration(hours) * time.Hour
	minutes := int64(elapsed / time.Minute)

	return ((days*24)+hours)*60 + minutes
}

// FormatMinutes renders a minute count as "1d 3h 45m", dropping empty leading units.
func FormatMinutes(total int64) string {
	days := total / (24 * 60)
	hours := (total / 60) % 24
	minutes := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
