package scheduling

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

type Completion struct {
	PostSessionNotes string
	Rating           *int
	// Feedback is the patient's own account of how the session went.
	Feedback string
}

func IntervalOf(s *models.Session) Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// Transition moves a session along one edge of the lifecycle and stamps the
// side fields that belong to the target status.
func Transition(s *models.Session, to Status, now time.Time, done Completion) error {
	if err := CanTransition(Status(s.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusNoShow:
		if now.Before(s.StartTime) {
			return httperr.ErrInvalidTransition("no_show_before_start")
		}
	case StatusCompleted:
		if done.Rating != nil && (*done.Rating < 1 || *done.Rating > 5) {
			return httperr.ErrValidation("invalid_rating")
		}
		if notes := strings.TrimSpace(done.PostSessionNotes); notes != "" {
			s.PostSessionNotes = notes
		}
		if fb := strings.TrimSpace(done.Feedback); fb != "" {
			s.Feedback = fb
		}
		if done.Rating != nil {
			r := *done.Rating
			s.Rating = &r
		}
		s.CompletedAt = &now
	case StatusCancelled:
		s.CancelledAt = &now
	}

	s.Status = string(to)
	return nil
}

// MoveTo rewrites the slot fields of a session to a new interval.
func MoveTo(s *models.Session, start time.Time) {
	iv := NewInterval(start, s.DurationMinutes)
	s.ScheduledDate = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	s.ScheduledTime = start.Format(TimeLayout)
	s.StartTime = iv.Start
	s.EndTime = iv.End
}

// ApplyProgress recomputes the stored percentage and closes the program once
// every linked session is completed. Cancelled programs keep their status.
func ApplyProgress(pp *models.PatientProgram, completed, total int64, now time.Time) {
	pp.ProgressPercentage = Progress(completed, total)

	status := ProgramStatus(pp.Status)
	if total > 0 && completed == total && !status.IsTerminal() {
		pp.Status = string(ProgramCompleted)
		pp.CompletedAt = &now
	}
}
