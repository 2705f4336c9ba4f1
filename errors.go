package datatable

import (
	"errors"
	"fmt"
)

var (
	// ErrType is matched by errors.Is for selector errors caused by a value
	// of the wrong type.
	ErrType = errors.New("type error")

	// ErrValue is matched by errors.Is for selector errors caused by a value
	// of the right type but invalid for the frame it is applied to.
	ErrValue = errors.New("value error")

	// ErrUnsupportedSelector is matched by errors.Is when no selector kind
	// recognizes the value passed to ResolveSelector.
	ErrUnsupportedSelector = errors.New("unsupported selector")

	// ErrNotSupported is returned by column operations that the representation
	// of the column cannot perform.
	ErrNotSupported = errors.New("operation not supported")
)

// ErrorKind classifies selector errors.
type ErrorKind int

const (
	TypeError ErrorKind = iota
	ValueError
	UnsupportedSelector
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case ValueError:
		return "ValueError"
	case UnsupportedSelector:
		return "UnsupportedSelector"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// SelectorError is returned when a row selector cannot be constructed or
// resolved against a frame.
type SelectorError struct {
	Kind     ErrorKind
	Selector SelectorKind
	Value    any
	// NRows is the number of rows of the frame the selector was checked
	// against, or -1 when the error was raised before a frame was known.
	NRows  int
	Reason string
}

func (e *SelectorError) Error() string { return e.Kind.String() + ": " + e.Reason }

// Is allows SelectorError values to match ErrType, ErrValue and
// ErrUnsupportedSelector.
func (e *SelectorError) Is(target error) bool {
	switch target {
	case ErrType:
		return e.Kind == TypeError
	case ErrValue:
		return e.Kind == ValueError
	case ErrUnsupportedSelector:
		return e.Kind == UnsupportedSelector
	}
	return false
}

func errorType(sel SelectorKind, value any, format string, args ...any) error {
	return &SelectorError{Kind: TypeError, Selector: sel, Value: value, NRows: -1, Reason: fmt.Sprintf(format, args...)}
}

func errorValue(sel SelectorKind, value any, nrows int, format string, args ...any) error {
	return &SelectorError{Kind: ValueError, Selector: sel, Value: value, NRows: nrows, Reason: fmt.Sprintf(format, args...)}
}

// CastError is returned when the values of a column cannot be converted to
// the requested storage type.
type CastError struct {
	From SType
	To   SType
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast column of type %s to %s", e.From, e.To)
}

func (e *CastError) Is(target error) bool { return target == ErrNotSupported }
