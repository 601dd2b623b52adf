package session

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// IsSlotFree reports whether the practitioner has no active session
// overlapping iv. excludeID skips the session being moved.
func IsSlotFree(
	ctx context.Context,
	repo domain.SessionStore,
	practitionerID uint,
	iv domain.Interval,
	excludeID uint,
) (bool, error) {

	sessions, err := repo.ListActiveSessionsOverlapping(
		ctx,
		practitionerID,
		iv.Start,
		iv.End,
		excludeID,
	)
	if err != nil {
		return false, err
	}

	for i := range sessions {
		if iv.Overlaps(domain.IntervalOf(&sessions[i])) {
			return false, nil
		}
	}
	return true, nil
}

// Reserve serialises writers on the practitioner's days and fails with a
// conflict when iv is taken. Must run inside tx.
func Reserve(
	ctx context.Context,
	tx domain.Repository,
	practitionerID uint,
	iv domain.Interval,
	excludeID uint,
) error {

	if err := tx.LockPractitionerDays(ctx, practitionerID, iv.Days()); err != nil {
		return err
	}

	free, err := IsSlotFree(ctx, tx, practitionerID, iv, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return httperr.ErrConflict("time_conflict")
	}
	return nil
}
