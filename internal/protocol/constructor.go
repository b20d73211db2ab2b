package protocol

import (
	"fmt"
	"sort"
)

// Named constructors for the protocol's animation modes. Each one is a
// fixed projection of the nine Command fields onto the fields that mode
// uses; every other field keeps its "none" code (0x00).

// OffCommand returns the command that turns the light and buzzer off.
func OffCommand() Command {
	return Command{}
}

// SteadyCommand returns a solid single-color command.
func SteadyCommand(color Color, intensity Intensity) Command {
	return Command{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationSteady,
	}
}

// FlashCommand returns a single-color flashing command.
func FlashCommand(color Color, intensity Intensity, speed Speed, pattern Pattern) Command {
	return Command{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationFlash,
		Speed:      speed,
		Pattern:    pattern,
	}
}

// TwoColorFlashCommand returns a command alternating between two colors.
func TwoColorFlashCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, pattern Pattern) Command {
	return Command{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationTwoColorFlash,
		Speed:      speed,
		Pattern:    pattern,
		Color2:     color2,
		Intensity2: intensity2,
	}
}

// HalfHalfCommand returns a command lighting each half in its own color.
func HalfHalfCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity) Command {
	return Command{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationHalfHalf,
		Color2:     color2,
		Intensity2: intensity2,
	}
}

// HalfHalfRotateCommand returns a rotating half-and-half command.
func HalfHalfRotateCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) Command {
	return Command{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationHalfHalfRotate,
		Speed:      speed,
		Color2:     color2,
		Intensity2: intensity2,
		Rotation:   rotation,
	}
}

// ChaseCommand returns a chase command. color2 is the background and
// color1 the moving segment.
func ChaseCommand(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) Command {
	return Command{
		Color1:     color1,
		Intensity1: intensity1,
		Animation:  AnimationChase,
		Speed:      speed,
		Color2:     color2,
		Intensity2: intensity2,
		Rotation:   rotation,
	}
}

// IntensitySweepCommand returns a command that sweeps one color's intensity.
func IntensitySweepCommand(color Color, intensity Intensity, speed Speed) Command {
	return Command{
		Color1:     color,
		Intensity1: intensity,
		Animation:  AnimationIntensitySweep,
		Speed:      speed,
	}
}

// Off builds the frame that turns the light and buzzer off.
func Off() (Frame, error) {
	return Build(OffCommand())
}

// Steady builds a solid single-color frame.
//
// Example:
//
//	frame, err := Steady(ColorBlue, IntensityHigh)
func Steady(color Color, intensity Intensity) (Frame, error) {
	return Build(SteadyCommand(color, intensity))
}

// Flash builds a single-color flashing frame.
func Flash(color Color, intensity Intensity, speed Speed, pattern Pattern) (Frame, error) {
	return Build(FlashCommand(color, intensity, speed, pattern))
}

// TwoColorFlash builds a frame alternating between two colors.
func TwoColorFlash(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, pattern Pattern) (Frame, error) {
	return Build(TwoColorFlashCommand(color1, intensity1, color2, intensity2, speed, pattern))
}

// HalfHalf builds a frame lighting each half in its own color.
func HalfHalf(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity) (Frame, error) {
	return Build(HalfHalfCommand(color1, intensity1, color2, intensity2))
}

// HalfHalfRotate builds a rotating half-and-half frame.
func HalfHalfRotate(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) (Frame, error) {
	return Build(HalfHalfRotateCommand(color1, intensity1, color2, intensity2, speed, rotation))
}

// Chase builds a chase frame. color2 is the background, color1 the moving
// segment.
func Chase(color1 Color, intensity1 Intensity, color2 Color, intensity2 Intensity, speed Speed, rotation Rotation) (Frame, error) {
	return Build(ChaseCommand(color1, intensity1, color2, intensity2, speed, rotation))
}

// IntensitySweep builds a frame sweeping one color's intensity.
func IntensitySweep(color Color, intensity Intensity, speed Speed) (Frame, error) {
	return Build(IntensitySweepCommand(color, intensity, speed))
}

// Mode describes one named constructor: its animation code and the
// ordered fields it takes. It lets text front ends (CLI arguments, bridge
// messages) build commands without a catch-all keyword entry point.
type Mode struct {
	Name      string
	Animation Animation
	Fields    []FieldKind
}

var modes = []Mode{
	{Name: "off", Animation: AnimationOff},
	{Name: "steady", Animation: AnimationSteady,
		Fields: []FieldKind{FieldColor1, FieldIntensity1}},
	{Name: "flash", Animation: AnimationFlash,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldSpeed, FieldPattern}},
	{Name: "two-color-flash", Animation: AnimationTwoColorFlash,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldColor2, FieldIntensity2, FieldSpeed, FieldPattern}},
	{Name: "half-half", Animation: AnimationHalfHalf,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldColor2, FieldIntensity2}},
	{Name: "half-half-rotate", Animation: AnimationHalfHalfRotate,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldColor2, FieldIntensity2, FieldSpeed, FieldRotation}},
	{Name: "chase", Animation: AnimationChase,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldColor2, FieldIntensity2, FieldSpeed, FieldRotation}},
	{Name: "intensity-sweep", Animation: AnimationIntensitySweep,
		Fields: []FieldKind{FieldColor1, FieldIntensity1, FieldSpeed}},
}

// Modes returns every named mode in animation code order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	sort.Slice(out, func(i, j int) bool { return out[i].Animation < out[j].Animation })
	return out
}

// LookupMode finds a mode by name. Underscores and dashes are equivalent.
func LookupMode(name string) (Mode, bool) {
	n := normalizeName(name)
	for _, m := range modes {
		if normalizeName(m.Name) == n {
			return m, true
		}
	}
	return Mode{}, false
}

// Usage returns the argument synopsis, e.g. "<color1> <intensity1>".
func (m Mode) Usage() string {
	s := ""
	for i, k := range m.Fields {
		if i > 0 {
			s += " "
		}
		s += "<" + k.String() + ">"
	}
	return s
}

// Command builds the mode's command from value names given in Fields
// order. Any name outside its field's table fails with
// ErrInvalidFieldValue.
func (m Mode) Command(values []string) (Command, error) {
	if len(values) != len(m.Fields) {
		return Command{}, fmt.Errorf("%s takes %d values (%s), got %d", m.Name, len(m.Fields), m.Usage(), len(values))
	}

	cmd := Command{Animation: m.Animation}
	for i, k := range m.Fields {
		code, err := Encode(k, values[i])
		if err != nil {
			return Command{}, err
		}
		cmd = cmd.With(k, code)
	}
	return cmd, nil
}

// CommandFromFields builds the mode's command from a field-name keyed map,
// as sent by bridge clients. Fields the mode does not use are rejected so a
// caller never believes a value was applied when it was not.
func (m Mode) CommandFromFields(values map[string]string) (Command, error) {
	ordered := make([]string, len(m.Fields))
	seen := 0
	for i, k := range m.Fields {
		v, ok := values[k.String()]
		if !ok {
			return Command{}, fmt.Errorf("%s requires field %q", m.Name, k.String())
		}
		ordered[i] = v
		seen++
	}
	if seen != len(values) {
		for name := range values {
			if !m.uses(name) {
				return Command{}, fmt.Errorf("%s does not use field %q", m.Name, name)
			}
		}
	}
	return m.Command(ordered)
}

func (m Mode) uses(name string) bool {
	for _, k := range m.Fields {
		if k.String() == name {
			return true
		}
	}
	return false
}
