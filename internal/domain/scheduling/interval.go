package scheduling

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// MaxSessionMinutes caps a single session at one day.
	MaxSessionMinutes = 24 * 60
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func ValidateDuration(minutes int) error {
	if minutes <= 0 || minutes > MaxSessionMinutes {
		return httperr.ErrValidation("invalid_duration")
	}
	return nil
}

func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}

// Overlaps treats touching intervals as free: 10:00-11:00 and 11:00-12:00 do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Days lists every calendar day (in Start's location) the interval touches.
func (i Interval) Days() []time.Time {
	loc := i.Start.Location()
	first := time.Date(i.Start.Year(), i.Start.Month(), i.Start.Day(), 0, 0, 0, 0, loc)

	last := i.End.Add(-time.Nanosecond).In(loc)
	if !i.End.After(i.Start) {
		last = i.Start
	}
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)

	var days []time.Time
	for d := first; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DayNumber is the calendar date of t counted in days since 1970-01-01.
func DayNumber(t time.Time) int32 {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int32(d.Unix() / 86400)
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date")
	}
	return d, nil
}

// ParseSlot combines a "2006-01-02" date and a "15:04" time in loc.
func ParseSlot(date, hm string, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+hm, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date_or_time")
	}
	return start, nil
}

// ClockOn places a "15:04" wall time on the calendar day of day.
func ClockOn(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, hm)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_time")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
