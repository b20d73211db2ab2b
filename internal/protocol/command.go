package protocol

import (
	"fmt"
	"strings"
)

// Command is a desired light and buzzer state before encoding. It is a
// plain value: copying it never aliases another command's fields. Fields
// left at zero take the protocol's "none" code (0x00).
type Command struct {
	Color1     Color     `yaml:"color1,omitempty" json:"color1,omitempty"`
	Intensity1 Intensity `yaml:"intensity1,omitempty" json:"intensity1,omitempty"`
	Animation  Animation `yaml:"animation,omitempty" json:"animation,omitempty"`
	Speed      Speed     `yaml:"speed,omitempty" json:"speed,omitempty"`
	Pattern    Pattern   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Color2     Color     `yaml:"color2,omitempty" json:"color2,omitempty"`
	Intensity2 Intensity `yaml:"intensity2,omitempty" json:"intensity2,omitempty"`
	Rotation   Rotation  `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Audible    Audible   `yaml:"audible,omitempty" json:"audible,omitempty"`
}

// codes returns the validated code of every field, indexed by FieldKind.
func (c Command) codes() ([len(fieldSpecs)]uint8, error) {
	var out [len(fieldSpecs)]uint8
	for _, k := range AllFields {
		code, err := EncodeCode(k, int(c.Get(k)))
		if err != nil {
			return out, err
		}
		out[k] = code
	}
	return out, nil
}

// Get returns the raw code of a field.
func (c Command) Get(kind FieldKind) uint8 {
	switch kind {
	case FieldColor1:
		return uint8(c.Color1)
	case FieldIntensity1:
		return uint8(c.Intensity1)
	case FieldAnimation:
		return uint8(c.Animation)
	case FieldSpeed:
		return uint8(c.Speed)
	case FieldPattern:
		return uint8(c.Pattern)
	case FieldColor2:
		return uint8(c.Color2)
	case FieldIntensity2:
		return uint8(c.Intensity2)
	case FieldRotation:
		return uint8(c.Rotation)
	case FieldAudible:
		return uint8(c.Audible)
	default:
		return 0
	}
}

// With returns a copy of c with one field replaced by a raw code. The code
// is not validated here; Build and Validate do that.
func (c Command) With(kind FieldKind, code uint8) Command {
	switch kind {
	case FieldColor1:
		c.Color1 = Color(code)
	case FieldIntensity1:
		c.Intensity1 = Intensity(code)
	case FieldAnimation:
		c.Animation = Animation(code)
	case FieldSpeed:
		c.Speed = Speed(code)
	case FieldPattern:
		c.Pattern = Pattern(code)
	case FieldColor2:
		c.Color2 = Color(code)
	case FieldIntensity2:
		c.Intensity2 = Intensity(code)
	case FieldRotation:
		c.Rotation = Rotation(code)
	case FieldAudible:
		c.Audible = Audible(code)
	}
	return c
}

// WithAudible returns a copy of c with the buzzer code replaced.
func (c Command) WithAudible(a Audible) Command {
	c.Audible = a
	return c
}

// Validate reports the first field that cannot be encoded.
func (c Command) Validate() error {
	_, err := c.codes()
	return err
}

// Frame encodes the command. It is shorthand for Build(c).
func (c Command) Frame() (Frame, error) {
	return Build(c)
}

// String returns the command as field=value pairs in frame order.
func (c Command) String() string {
	parts := make([]string, 0, len(AllFields))
	for _, k := range AllFields {
		parts = append(parts, fmt.Sprintf("%s=%s", k, Describe(k, c.Get(k))))
	}
	return "Command{" + strings.Join(parts, ", ") + "}"
}
