package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/muurk/tl50ctl/internal/protocol"
)

// CurrentVersion is the only config file version this build understands.
const CurrentVersion = 1

// Config represents the entire configuration file.
type Config struct {
	Version    int                         `yaml:"version"`
	Port       string                      `yaml:"port,omitempty"`        // Serial device path
	Baud       int                         `yaml:"baud,omitempty"`        // Line speed (default 19200)
	WriteDelay *time.Duration              `yaml:"write_delay,omitempty"` // Settle time after each frame; 0 disables
	Presets    map[string]protocol.Command `yaml:"presets,omitempty"`     // Named light states
	Sequences  map[string]*Sequence        `yaml:"sequences,omitempty"`   // Named scripts
	Bridge     *Bridge                     `yaml:"bridge,omitempty"`      // WebSocket bridge settings
}

// Sequence is a scripted series of light states.
type Sequence struct {
	Loop  bool   `yaml:"loop,omitempty"` // Repeat until interrupted
	Steps []Step `yaml:"steps"`
}

// Step shows one light state for Hold. Exactly one of Preset and Command
// must be set.
type Step struct {
	Name    string            `yaml:"name,omitempty"`
	Preset  string            `yaml:"preset,omitempty"`
	Command *protocol.Command `yaml:"command,omitempty"`
	Hold    time.Duration     `yaml:"hold,omitempty"`
}

// Bridge holds WebSocket bridge settings.
type Bridge struct {
	Listen    string   `yaml:"listen"`            // host:port to listen on
	Advertise bool     `yaml:"advertise"`         // Announce the bridge over mDNS
	Name      string   `yaml:"name,omitempty"`    // mDNS instance name
	Origins   []string `yaml:"origins,omitempty"` // Allowed browser origins, empty allows all
}

// Preset returns a named preset.
func (c *Config) Preset(name string) (protocol.Command, error) {
	cmd, ok := c.Presets[name]
	if !ok {
		return protocol.Command{}, fmt.Errorf("unknown preset %q", name)
	}
	return cmd, nil
}

// Sequence returns a named sequence.
func (c *Config) Sequence(name string) (*Sequence, error) {
	seq, ok := c.Sequences[name]
	if !ok || seq == nil {
		return nil, fmt.Errorf("unknown sequence %q", name)
	}
	return seq, nil
}

// StepCommand resolves a step to the command it shows.
func (c *Config) StepCommand(s Step) (protocol.Command, error) {
	switch {
	case s.Preset != "" && s.Command != nil:
		return protocol.Command{}, fmt.Errorf("step sets both preset and command")
	case s.Preset != "":
		return c.Preset(s.Preset)
	case s.Command != nil:
		return *s.Command, nil
	default:
		return protocol.Command{}, fmt.Errorf("step sets neither preset nor command")
	}
}

// StepName returns the display name of a step.
func (s Step) StepName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Preset != "":
		return s.Preset
	case s.Command != nil:
		return s.Command.Animation.String()
	default:
		return "step"
	}
}

// PresetNames returns preset names sorted.
func (c *Config) PresetNames() []string {
	return sortedKeys(c.Presets)
}

// SequenceNames returns sequence names sorted.
func (c *Config) SequenceNames() []string {
	return sortedKeys(c.Sequences)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
