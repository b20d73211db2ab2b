package serial

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("driver closed")

// PortError describes a failed operation on a serial port.
type PortError struct {
	Port string // device path, e.g. /dev/ttyUSB0
	Op   string // "open", "write", "flush" or "close"
	Err  error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("serial %s %s: %v", e.Op, e.Port, e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether sending again may succeed. The driver drops
// its handle after a failed write, so the next Send reopens the port.
func IsRetryable(err error) bool {
	var pe *PortError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Op == "write" || pe.Op == "flush"
}

// IsOpenError reports whether err came from opening the port.
func IsOpenError(err error) bool {
	var pe *PortError
	return errors.As(err, &pe) && pe.Op == "open"
}
