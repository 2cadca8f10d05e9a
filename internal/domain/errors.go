package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrClassification = errors.New("classification error")
	ErrGeneration     = errors.New("generation error")
	ErrStore          = errors.New("store error")

	// ErrFatal marks a failure that must not be papered over with a fallback.
	ErrFatal = errors.New("unrecoverable failure")
)

var kinds = []error{ErrValidation, ErrNotFound, ErrClassification, ErrGeneration, ErrStore}

// Error attaches a kind and the failing operation to a cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

// E builds an *Error. err may be nil.
func E(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the first error kind found in err's chain, or nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindName is KindOf as a short label, "unknown" when err carries no kind.
func KindName(err error) string {
	switch KindOf(err) {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrClassification:
		return "classification"
	case ErrGeneration:
		return "generation"
	case ErrStore:
		return "store"
	}
	return "unknown"
}

// Wrap gives err the kind unless it already carries one.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return E(kind, op, err)
}
