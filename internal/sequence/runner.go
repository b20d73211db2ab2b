package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/serial"
)

// DefaultOffTimeout bounds the final off frame sent after an interrupted run.
const DefaultOffTimeout = 2 * time.Second

// Observer is notified as a run progresses. Calls happen on the goroutine
// running the sequence.
type Observer interface {
	// StepStarted is called before the step's frame is sent.
	StepStarted(pass, index int, step Step)
	// StepDone is called after the step's hold (or on failure, with err set).
	StepDone(pass, index int, step Step, err error)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart func(pass, index int, step Step)
	OnDone  func(pass, index int, step Step, err error)
}

func (o ObserverFuncs) StepStarted(pass, index int, step Step) {
	if o.OnStart != nil {
		o.OnStart(pass, index, step)
	}
}

func (o ObserverFuncs) StepDone(pass, index int, step Step, err error) {
	if o.OnDone != nil {
		o.OnDone(pass, index, step, err)
	}
}

type nopObserver struct{}

func (nopObserver) StepStarted(int, int, Step)    {}
func (nopObserver) StepDone(int, int, Step, error) {}

// Runner sends sequences to a light.
type Runner struct {
	sender     serial.Sender
	observer   Observer
	offTimeout time.Duration
	maxPasses  int
}

// Option configures a Runner.
type Option func(*Runner)

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithOffTimeout bounds the off frame sent after an interrupted run.
func WithOffTimeout(d time.Duration) Option {
	return func(r *Runner) { r.offTimeout = d }
}

// WithMaxPasses stops a looping sequence after n passes. Zero means no limit.
func WithMaxPasses(n int) Option {
	return func(r *Runner) { r.maxPasses = n }
}

// NewRunner returns a Runner that writes through sender.
func NewRunner(sender serial.Sender, opts ...Option) *Runner {
	r := &Runner{
		sender:     sender,
		observer:   nopObserver{},
		offTimeout: DefaultOffTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays seq. A looping sequence repeats until ctx is canceled or the
// pass limit is reached. If ctx ends mid-run the light is turned off and
// ctx.Err() is returned; a send failure is returned as is.
func (r *Runner) Run(ctx context.Context, seq *Sequence) error {
	if seq == nil || len(seq.Steps) == 0 {
		return ErrEmpty
	}

	logger := logging.GetLogger()
	logger.Info("Starting sequence",
		zap.String("sequence", seq.Name),
		zap.Int("steps", len(seq.Steps)),
		zap.Bool("loop", seq.Loop),
	)

	for pass := 1; ; pass++ {
		if err := r.runPass(ctx, seq, pass); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				r.turnOff(seq.Name)
				logger.Info("Sequence interrupted", zap.String("sequence", seq.Name), zap.Int("pass", pass))
				return ctx.Err()
			}
			logger.Error("Sequence failed", zap.String("sequence", seq.Name), zap.Error(err))
			return err
		}
		if !seq.Loop || (r.maxPasses > 0 && pass >= r.maxPasses) {
			break
		}
	}

	logger.Info("Sequence finished", zap.String("sequence", seq.Name))
	return nil
}

func (r *Runner) runPass(ctx context.Context, seq *Sequence, pass int) error {
	for i, step := range seq.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		r.observer.StepStarted(pass, i, step)
		logging.LogStep(seq.Name, i, step.Name, step.Hold)

		err := r.sender.Send(ctx, step.Frame)
		if err == nil {
			err = hold(ctx, step.Hold)
		} else if ctx.Err() == nil {
			err = fmt.Errorf("step %d (%s): %w", i+1, step.Name, err)
		}

		r.observer.StepDone(pass, i, step, err)
		if err != nil {
			return err
		}
	}
	return nil
}

// turnOff sends the off frame on a fresh context, since the run's context
// is already done.
func (r *Runner) turnOff(name string) {
	frame, err := protocol.Off()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.offTimeout)
	defer cancel()
	if err := r.sender.Send(ctx, frame); err != nil {
		logging.GetLogger().Warn("Failed to turn light off after interrupt",
			zap.String("sequence", name), zap.Error(err))
	}
}

func hold(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
