package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFieldValue means a value is not in the field's code table.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrFieldOutOfRange means a code does not fit the field's bit width.
	ErrFieldOutOfRange = errors.New("field out of range")

	// ErrInvalidFrame means a byte sequence is not a well-formed frame.
	ErrInvalidFrame = errors.New("invalid frame")
)

// FieldError describes a field that could not be encoded or decoded.
// It unwraps to ErrInvalidFieldValue or ErrFieldOutOfRange.
type FieldError struct {
	// Kind is the Command field involved. Ignored when Table is set.
	Kind FieldKind
	// Table names the code table when the error did not come from a
	// specific Command field (text unmarshalling).
	Table string
	// Value is the rejected name. Only meaningful when Named is set.
	Value string
	// Named reports that a name, possibly empty, was rejected rather than
	// a numeric code.
	Named bool
	// Code is the rejected numeric code.
	Code int
	// Err is the sentinel error.
	Err error
}

func (e *FieldError) field() string {
	if e.Table != "" {
		return e.Table
	}
	return e.Kind.String()
}

func (e *FieldError) Error() string {
	switch {
	case errors.Is(e.Err, ErrFieldOutOfRange):
		return fmt.Sprintf("%v: %s code %d does not fit in %d bits",
			e.Err, e.field(), e.Code, e.Kind.Width())
	case e.Named:
		msg := fmt.Sprintf("%v: %q is not a valid %s", e.Err, e.Value, e.field())
		if names := e.validNames(); len(names) > 0 {
			msg += " (valid: " + strings.Join(names, ", ") + ")"
		}
		return msg
	default:
		return fmt.Sprintf("%v: %s code 0x%02x is not defined", e.Err, e.field(), e.Code)
	}
}

func (e *FieldError) validNames() []string {
	if e.Table == "" {
		return e.Kind.Names()
	}
	for _, t := range []*codeTable{&colorTable, &intensityTable, &animationTable, &speedTable,
		&patternTable, &rotationTable, &audibleTable} {
		if t.kind == e.Table {
			return t.Names()
		}
	}
	return nil
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FrameError reports where a frame failed validation. It unwraps to
// ErrInvalidFrame.
type FrameError struct {
	Offset int
	Reason string
}

func (e *FrameError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidFrame, e.Reason)
	}
	return fmt.Sprintf("%v: byte %d: %s", ErrInvalidFrame, e.Offset, e.Reason)
}

func (e *FrameError) Unwrap() error {
	return ErrInvalidFrame
}

// IsInvalidFieldValue reports whether err was caused by an undefined value.
func IsInvalidFieldValue(err error) bool {
	return errors.Is(err, ErrInvalidFieldValue)
}

// IsFieldOutOfRange reports whether err was caused by a code too wide for its field.
func IsFieldOutOfRange(err error) bool {
	return errors.Is(err, ErrFieldOutOfRange)
}
