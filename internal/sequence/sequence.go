package sequence

import (
	"errors"
	"fmt"
	"time"

	"github.com/muurk/tl50ctl/internal/config"
	"github.com/muurk/tl50ctl/internal/protocol"
)

// ErrEmpty is returned when a sequence has no steps.
var ErrEmpty = errors.New("sequence has no steps")

// Step is one encoded light state and how long to show it.
type Step struct {
	Name    string
	Command protocol.Command
	Frame   protocol.Frame
	Hold    time.Duration
}

// Sequence is a named, encoded series of steps.
type Sequence struct {
	Name  string
	Steps []Step
	Loop  bool
}

// Duration returns the time one pass takes, excluding serial write time.
func (s *Sequence) Duration() time.Duration {
	var d time.Duration
	for _, step := range s.Steps {
		d += step.Hold
	}
	return d
}

// StepNames returns the display name of every step in order.
func (s *Sequence) StepNames() []string {
	names := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		names[i] = step.Name
	}
	return names
}

// NewStep encodes cmd into a step.
func NewStep(name string, cmd protocol.Command, hold time.Duration) (Step, error) {
	frame, err := cmd.Frame()
	if err != nil {
		return Step{}, fmt.Errorf("step %q: %w", name, err)
	}
	if hold < 0 {
		return Step{}, fmt.Errorf("step %q: hold must not be negative", name)
	}
	return Step{Name: name, Command: cmd, Frame: frame, Hold: hold}, nil
}

// FromConfig resolves the named sequence from cfg. Steps without a hold
// time get config.DefaultHold, except the final step of a one-shot
// sequence, which ends the run as soon as its frame is sent.
func FromConfig(cfg *config.Config, name string) (*Sequence, error) {
	src, err := cfg.Sequence(name)
	if err != nil {
		return nil, err
	}
	if len(src.Steps) == 0 {
		return nil, fmt.Errorf("sequence %q: %w", name, ErrEmpty)
	}

	seq := &Sequence{Name: name, Loop: src.Loop, Steps: make([]Step, 0, len(src.Steps))}
	for i, s := range src.Steps {
		cmd, err := cfg.StepCommand(s)
		if err != nil {
			return nil, fmt.Errorf("sequence %q step %d: %w", name, i+1, err)
		}

		hold := s.Hold
		last := i == len(src.Steps)-1
		if hold == 0 && (src.Loop || !last) {
			hold = config.DefaultHold
		}

		step, err := NewStep(s.StepName(), cmd, hold)
		if err != nil {
			return nil, fmt.Errorf("sequence %q step %d: %w", name, i+1, err)
		}
		seq.Steps = append(seq.Steps, step)
	}
	return seq, nil
}

// Single wraps one command as a one-step sequence with no hold.
func Single(name string, cmd protocol.Command) (*Sequence, error) {
	step, err := NewStep(name, cmd, 0)
	if err != nil {
		return nil, err
	}
	return &Sequence{Name: name, Steps: []Step{step}}, nil
}
