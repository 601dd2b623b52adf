package timezone

import (
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var (
	mu       sync.RWMutex
	clinicTZ = DefaultTimezone
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// SetDefault changes the clinic timezone used by Location("") and Now.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	clinicTZ = tz
	mu.Unlock()
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	mu.RLock()
	def := clinicTZ
	mu.RUnlock()

	loc, err := time.LoadLocation(def)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(""))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock reads wall time in the clinic timezone.
type Clock struct{}

func (Clock) Now() time.Time {
	return Now()
}

// Fixed is a clock frozen at a single instant.
type Fixed struct {
	At time.Time
}

func (f *Fixed) Now() time.Time {
	return f.At
}

func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
