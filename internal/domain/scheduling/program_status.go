package scheduling

import "github.com/BruksfildServices01/clinic-scheduler/internal/httperr"

type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "active"
	ProgramPaused    ProgramStatus = "paused"
	ProgramCompleted ProgramStatus = "completed"
	ProgramCancelled ProgramStatus = "cancelled"
)

var programTransitions = map[ProgramStatus][]ProgramStatus{
	ProgramActive: {ProgramPaused, ProgramCompleted, ProgramCancelled},
	ProgramPaused: {ProgramActive, ProgramCancelled},
}

func ParseProgramStatus(s string) (ProgramStatus, error) {
	switch st := ProgramStatus(s); st {
	case ProgramActive, ProgramPaused, ProgramCompleted, ProgramCancelled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_program_status")
}

func (s ProgramStatus) IsTerminal() bool {
	return s == ProgramCompleted || s == ProgramCancelled
}

func CanTransitionProgram(from, to ProgramStatus) error {
	for _, next := range programTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidTransition("invalid_program_transition")
}
