package config

import (
	"time"

	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/serial"
)

const (
	// DefaultListen is the bridge listen address.
	DefaultListen = ":8750"

	// DefaultHold is used for steps that do not set a hold time.
	DefaultHold = 2 * time.Second
)

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		Version:    CurrentVersion,
		Port:       serial.DefaultPort,
		Baud:       serial.DefaultBaud,
		Bridge: &Bridge{
			Listen: DefaultListen,
			Name:   "tl50ctl",
		},
	}
	c.applyDefaults()
	return c
}

// applyDefaults fills unset settings and adds the built-in presets and
// sequences the file does not redefine.
func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = serial.DefaultPort
	}
	if c.Baud == 0 {
		c.Baud = serial.DefaultBaud
	}
	if c.WriteDelay == nil {
		d := serial.DefaultWriteDelay
		c.WriteDelay = &d
	}
	if c.Bridge == nil {
		c.Bridge = &Bridge{Listen: DefaultListen, Name: "tl50ctl"}
	}
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = DefaultListen
	}

	if c.Presets == nil {
		c.Presets = make(map[string]protocol.Command)
	}
	for name, cmd := range builtinPresets() {
		if _, ok := c.Presets[name]; !ok {
			c.Presets[name] = cmd
		}
	}

	if c.Sequences == nil {
		c.Sequences = make(map[string]*Sequence)
	}
	for name, seq := range builtinSequences() {
		if _, ok := c.Sequences[name]; !ok {
			c.Sequences[name] = seq
		}
	}
}

// SettleDelay returns the configured write delay. An explicit zero is kept.
func (c *Config) SettleDelay() time.Duration {
	if c.WriteDelay == nil {
		return serial.DefaultWriteDelay
	}
	return *c.WriteDelay
}

func builtinPresets() map[string]protocol.Command {
	return map[string]protocol.Command{
		"off":     protocol.OffCommand(),
		"ok":      protocol.SteadyCommand(protocol.ColorGreen, protocol.IntensityHigh),
		"warning": protocol.FlashCommand(protocol.ColorAmber, protocol.IntensityHigh, protocol.SpeedStandard, protocol.PatternNormal),
		"alarm": protocol.FlashCommand(protocol.ColorRed, protocol.IntensityHigh, protocol.SpeedFast, protocol.PatternStrobe).
			WithAudible(protocol.AudiblePulsed),
	}
}

func builtinSequences() map[string]*Sequence {
	cmd := func(c protocol.Command) *protocol.Command { return &c }

	return map[string]*Sequence{
		// Every animation mode in turn, then off.
		"demo": {Steps: []Step{
			{Name: "steady", Command: cmd(protocol.SteadyCommand(protocol.ColorGreen, protocol.IntensityMedium)), Hold: 2 * time.Second},
			{Name: "flash", Command: cmd(protocol.FlashCommand(protocol.ColorAmber, protocol.IntensityHigh,
				protocol.SpeedStandard, protocol.PatternStrobe)), Hold: 2 * time.Second},
			{Name: "two color flash", Command: cmd(protocol.TwoColorFlashCommand(protocol.ColorYellow, protocol.IntensityHigh,
				protocol.ColorBlue, protocol.IntensityHigh, protocol.SpeedFast, protocol.PatternNormal)), Hold: 2 * time.Second},
			{Name: "half half", Command: cmd(protocol.HalfHalfCommand(protocol.ColorSpringGreen, protocol.IntensityHigh,
				protocol.ColorMagenta, protocol.IntensityHigh)), Hold: 2 * time.Second},
			{Name: "half half rotate", Command: cmd(protocol.HalfHalfRotateCommand(protocol.ColorSpringGreen, protocol.IntensityHigh,
				protocol.ColorMagenta, protocol.IntensityHigh, protocol.SpeedFast, protocol.RotationClockwise)), Hold: 2 * time.Second},
			{Name: "chase", Command: cmd(protocol.ChaseCommand(protocol.ColorSpringGreen, protocol.IntensityHigh,
				protocol.ColorMagenta, protocol.IntensityHigh, protocol.SpeedSlow, protocol.RotationCounterClockwise)), Hold: 2 * time.Second},
			{Name: "off", Preset: "off"},
		}},
		"blink": {Loop: true, Steps: []Step{
			{Preset: "ok", Hold: time.Second},
			{Preset: "off", Hold: time.Second},
		}},
	}
}
