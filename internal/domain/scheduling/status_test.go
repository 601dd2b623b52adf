package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

func TestCanTransition(t *testing.T) {
	all := []Status{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	allowed := map[Status]map[Status]bool{
		StatusScheduled:  {StatusConfirmed: true, StatusCancelled: true, StatusNoShow: true},
		StatusConfirmed:  {StatusInProgress: true, StatusCancelled: true, StatusNoShow: true},
		StatusInProgress: {StatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[from][to] {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition), "%s -> %s", from, to)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())

	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCancelled.IsActive())

	_, err := ParseStatus("done")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestCanTransitionProgram(t *testing.T) {
	assert.NoError(t, CanTransitionProgram(ProgramActive, ProgramPaused))
	assert.NoError(t, CanTransitionProgram(ProgramPaused, ProgramActive))
	assert.NoError(t, CanTransitionProgram(ProgramActive, ProgramCompleted))

	for _, to := range []ProgramStatus{ProgramActive, ProgramPaused, ProgramCancelled} {
		err := CanTransitionProgram(ProgramCompleted, to)
		assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
	}
	assert.Error(t, CanTransitionProgram(ProgramPaused, ProgramCompleted))
}
