package session

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ListFreeSlots struct {
	repo        domain.Repository
	clock       domain.Clock
	clinicOpen  string
	clinicClose string
}

// NewListFreeSlots falls back to clinicOpen/clinicClose for practitioners
// with no roster row for the weekday.
func NewListFreeSlots(
	repo domain.Repository,
	clock domain.Clock,
	clinicOpen string,
	clinicClose string,
) *ListFreeSlots {
	return &ListFreeSlots{
		repo:        repo,
		clock:       clock,
		clinicOpen:  clinicOpen,
		clinicClose: clinicClose,
	}
}

func (uc *ListFreeSlots) Execute(
	ctx context.Context,
	practitionerID uint,
	date string,
	durationMinutes int,
) ([]Slot, error) {

	if err := domain.ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}

	day, err := domain.ParseDate(date, timezone.Location(""))
	if err != nil {
		return nil, err
	}

	practitioner, err := uc.repo.GetPractitioner(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if !practitioner.IsAvailable {
		return []Slot{}, nil
	}

	openAt, closeAt := uc.clinicOpen, uc.clinicClose
	var breakStart, breakEnd string

	wh, err := uc.repo.GetPractitionerHours(ctx, practitionerID, int(day.Weekday()))
	switch {
	case err == nil:
		if !wh.Active {
			return []Slot{}, nil
		}
		openAt, closeAt = wh.StartTime, wh.EndTime
		breakStart, breakEnd = wh.BreakStart, wh.BreakEnd
	case httperr.IsKind(err, httperr.KindNotFound):
	default:
		return nil, err
	}

	dayStart, err := domain.ClockOn(day, openAt)
	if err != nil {
		return nil, err
	}
	dayEnd, err := domain.ClockOn(day, closeAt)
	if err != nil {
		return nil, err
	}

	var lunch *domain.Interval
	if breakStart != "" && breakEnd != "" {
		bs, err1 := domain.ClockOn(day, breakStart)
		be, err2 := domain.ClockOn(day, breakEnd)
		if err1 == nil && err2 == nil {
			lunch = &domain.Interval{Start: bs, End: be}
		}
	}

	sessions, err := uc.repo.ListActiveSessionsOverlapping(ctx, practitionerID, dayStart, dayEnd, 0)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	step := time.Duration(durationMinutes) * time.Minute
	slots := []Slot{}

	for cur := dayStart; !cur.Add(step).After(dayEnd); cur = cur.Add(step) {
		slot := domain.Interval{Start: cur, End: cur.Add(step)}

		if cur.Before(now) {
			continue
		}
		if lunch != nil && slot.Overlaps(*lunch) {
			continue
		}

		taken := false
		for i := range sessions {
			if slot.Overlaps(domain.IntervalOf(&sessions[i])) {
				taken = true
				break
			}
		}
		if taken {
			continue
		}

		slots = append(slots, Slot{
			Start: slot.Start.Format(domain.TimeLayout),
			End:   slot.End.Format(domain.TimeLayout),
		})
	}

	return slots, nil
}
