package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidState      Kind = "invalid_state"
	KindAuthorization     Kind = "authorization"
	KindNotFound          Kind = "not_found"
	KindInternal          Kind = "internal"
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

func newErr(kind Kind, code string) error {
	return BusinessError{Kind: kind, Code: code}
}

func ErrValidation(code string) error        { return newErr(KindValidation, code) }
func ErrConflict(code string) error          { return newErr(KindConflict, code) }
func ErrInvalidTransition(code string) error { return newErr(KindInvalidTransition, code) }
func ErrInvalidState(code string) error      { return newErr(KindInvalidState, code) }
func ErrAuthorization(code string) error     { return newErr(KindAuthorization, code) }
func ErrNotFound(code string) error          { return newErr(KindNotFound, code) }

// ErrInternal hides a persistence failure behind an opaque code. Business
// errors pass through untouched so repositories can wrap blindly.
func ErrInternal(code string, err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return BusinessError{Kind: KindInternal, Code: code, Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf reports the kind of err; anything that is not a BusinessError is internal.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return "internal_error"
}
