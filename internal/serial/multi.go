package serial

import (
	"context"
	"errors"

	"github.com/muurk/tl50ctl/internal/protocol"
)

// Multi sends each frame to several lights in turn. A failure on one light
// does not stop delivery to the others; all errors are returned joined.
type Multi []Sender

// Send implements Sender.
func (m Multi) Send(ctx context.Context, frame protocol.Frame) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sender.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenAll creates a driver per config. Ports are opened lazily.
func OpenAll(cfgs []Config, opts ...Option) Multi {
	m := make(Multi, 0, len(cfgs))
	for _, c := range cfgs {
		m = append(m, NewDriver(c, opts...))
	}
	return m
}
