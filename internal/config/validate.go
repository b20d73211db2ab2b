package config

import (
	"errors"
	"fmt"
)

// Validate checks that every preset and sequence step encodes to a frame
// and that settings are in range. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion))
	}
	if c.Baud < 0 {
		errs = append(errs, fmt.Errorf("baud must not be negative: %d", c.Baud))
	}
	if d := c.SettleDelay(); d < 0 {
		errs = append(errs, fmt.Errorf("write_delay must not be negative: %s", d))
	}

	for _, name := range c.PresetNames() {
		if err := c.Presets[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
		}
	}

	for _, name := range c.SequenceNames() {
		seq := c.Sequences[name]
		if seq == nil || len(seq.Steps) == 0 {
			errs = append(errs, fmt.Errorf("sequence %q has no steps", name))
			continue
		}
		for i, step := range seq.Steps {
			if step.Hold < 0 {
				errs = append(errs, fmt.Errorf("sequence %q step %d: hold must not be negative", name, i+1))
			}
			cmd, err := c.StepCommand(step)
			if err != nil {
				errs = append(errs, fmt.Errorf("sequence %q step %d: %w", name, i+1, err))
				continue
			}
			if err := cmd.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("sequence %q step %d: %w", name, i+1, err))
			}
		}
	}

	return errors.Join(errs...)
}
