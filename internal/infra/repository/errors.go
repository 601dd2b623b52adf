package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// lookupErr turns a missing row into NotFound and anything else into an
// opaque internal error.
func lookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(entity + "_not_found")
	}
	return httperr.ErrInternal(entity+"_lookup_failed", err)
}

// writeErr maps constraint violations the schema enforces to conflicts.
func writeErr(err error, op string) error {
	switch {
	case httperr.IsExclusionConflict(err):
		return httperr.ErrConflict("time_conflict")
	case httperr.IsUniqueViolation(err):
		return httperr.ErrConflict(op + "_duplicate")
	}
	return httperr.ErrInternal(op+"_failed", err)
}
