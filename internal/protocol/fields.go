package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is the protocol color code (bits 0-3 of bytes 5 and 7).
type Color uint8

const (
	ColorGreen       Color = 0x00
	ColorRed         Color = 0x01
	ColorOrange      Color = 0x02
	ColorAmber       Color = 0x03
	ColorYellow      Color = 0x04
	ColorLimeGreen   Color = 0x05
	ColorSpringGreen Color = 0x06
	ColorCyan        Color = 0x07
	ColorSkyBlue     Color = 0x08
	ColorBlue        Color = 0x09
	ColorViolet      Color = 0x0a
	ColorMagenta     Color = 0x0b
	ColorRose        Color = 0x0c
	ColorWhite       Color = 0x0d
)

// Intensity is the protocol intensity code (bits 4-6 of bytes 5 and 7).
type Intensity uint8

const (
	IntensityHigh   Intensity = 0x00
	IntensityLow    Intensity = 0x01
	IntensityMedium Intensity = 0x02
	IntensityOff    Intensity = 0x03
)

// Animation is the protocol animation code (bits 0-2 of byte 6).
type Animation uint8

const (
	AnimationOff            Animation = 0x00
	AnimationSteady         Animation = 0x01
	AnimationFlash          Animation = 0x02
	AnimationTwoColorFlash  Animation = 0x03
	AnimationHalfHalf       Animation = 0x04
	AnimationHalfHalfRotate Animation = 0x05
	AnimationChase          Animation = 0x06
	AnimationIntensitySweep Animation = 0x07
)

// Speed is the protocol animation speed code (bits 3-4 of byte 6).
type Speed uint8

const (
	SpeedStandard Speed = 0x00
	SpeedFast     Speed = 0x01
	SpeedSlow     Speed = 0x02
)

// Pattern is the protocol flash pattern code (bits 5-7 of byte 6).
type Pattern uint8

const (
	PatternNormal     Pattern = 0x00
	PatternStrobe     Pattern = 0x01
	PatternThreePulse Pattern = 0x02
	PatternSOS        Pattern = 0x03
	PatternRandom     Pattern = 0x04
)

// Rotation is the protocol rotation direction code (bit 7 of byte 7).
type Rotation uint8

const (
	RotationCounterClockwise Rotation = 0x00
	RotationClockwise        Rotation = 0x01
)

// Audible is the protocol buzzer code (byte 35, unpacked).
type Audible uint8

const (
	AudibleOff    Audible = 0x00
	AudibleSteady Audible = 0x01
	AudiblePulsed Audible = 0x02
	AudibleSOS    Audible = 0x03
)

// codeTable maps protocol codes to their canonical names. The index of a
// name is its code.
type codeTable struct {
	kind  string
	names []string
}

var (
	colorTable = codeTable{kind: "color", names: []string{
		"green", "red", "orange", "amber", "yellow", "lime_green", "spring_green",
		"cyan", "sky_blue", "blue", "violet", "magenta", "rose", "white",
	}}
	intensityTable = codeTable{kind: "intensity", names: []string{"high", "low", "medium", "off"}}
	animationTable = codeTable{kind: "animation", names: []string{
		"off", "steady", "flash", "two_color_flash", "half_half", "half_half_rotate",
		"chase", "intensity_sweep",
	}}
	speedTable    = codeTable{kind: "speed", names: []string{"standard", "fast", "slow"}}
	patternTable  = codeTable{kind: "pattern", names: []string{"normal", "strobe", "three_pulse", "sos", "random"}}
	rotationTable = codeTable{kind: "rotation", names: []string{"counter_clockwise", "clockwise"}}
	audibleTable  = codeTable{kind: "audible", names: []string{"off", "steady", "pulsed", "sos"}}
)

// normalizeName folds case and treats '-', ' ' and '_' alike so that
// "Sky Blue", "sky-blue" and "sky_blue" all resolve to the same code.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func (t codeTable) lookup(name string) (uint8, bool) {
	n := normalizeName(name)
	for code, candidate := range t.names {
		if candidate == n {
			return uint8(code), true
		}
	}
	return 0, false
}

func (t codeTable) valid(code uint8) bool {
	return int(code) < len(t.names)
}

func (t codeTable) name(code uint8) string {
	if t.valid(code) {
		return t.names[code]
	}
	return fmt.Sprintf("%s(0x%02x)", t.kind, code)
}

// Names returns the canonical names of the table in code order.
func (t codeTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// unmarshalCode accepts a canonical name or a decimal code.
func (t codeTable) unmarshalCode(text []byte) (uint8, error) {
	if code, ok := t.lookup(string(text)); ok {
		return code, nil
	}
	if n, err := strconv.ParseUint(string(text), 10, 8); err == nil && t.valid(uint8(n)) {
		return uint8(n), nil
	}
	return 0, &FieldError{Table: t.kind, Value: string(text), Named: true, Err: ErrInvalidFieldValue}
}

func (c Color) String() string     { return colorTable.name(uint8(c)) }
func (i Intensity) String() string { return intensityTable.name(uint8(i)) }
func (a Animation) String() string { return animationTable.name(uint8(a)) }
func (s Speed) String() string     { return speedTable.name(uint8(s)) }
func (p Pattern) String() string   { return patternTable.name(uint8(p)) }
func (r Rotation) String() string  { return rotationTable.name(uint8(r)) }
func (a Audible) String() string   { return audibleTable.name(uint8(a)) }

// IsValid reports whether the value is defined by the protocol.
func (c Color) IsValid() bool     { return colorTable.valid(uint8(c)) }
func (i Intensity) IsValid() bool { return intensityTable.valid(uint8(i)) }
func (a Animation) IsValid() bool { return animationTable.valid(uint8(a)) }
func (s Speed) IsValid() bool     { return speedTable.valid(uint8(s)) }
func (p Pattern) IsValid() bool   { return patternTable.valid(uint8(p)) }
func (r Rotation) IsValid() bool  { return rotationTable.valid(uint8(r)) }
func (a Audible) IsValid() bool   { return audibleTable.valid(uint8(a)) }

// ParseColor resolves a color name such as "sky_blue" or "Sky Blue".
func ParseColor(name string) (Color, error) {
	code, err := Encode(FieldColor1, name)
	return Color(code), err
}

// ParseIntensity resolves an intensity name.
func ParseIntensity(name string) (Intensity, error) {
	code, err := Encode(FieldIntensity1, name)
	return Intensity(code), err
}

// ParseAnimation resolves an animation name.
func ParseAnimation(name string) (Animation, error) {
	code, err := Encode(FieldAnimation, name)
	return Animation(code), err
}

// ParseSpeed resolves a speed name.
func ParseSpeed(name string) (Speed, error) {
	code, err := Encode(FieldSpeed, name)
	return Speed(code), err
}

// ParsePattern resolves a pattern name.
func ParsePattern(name string) (Pattern, error) {
	code, err := Encode(FieldPattern, name)
	return Pattern(code), err
}

// ParseRotation resolves a rotation name.
func ParseRotation(name string) (Rotation, error) {
	code, err := Encode(FieldRotation, name)
	return Rotation(code), err
}

// ParseAudible resolves an audible name.
func ParseAudible(name string) (Audible, error) {
	code, err := Encode(FieldAudible, name)
	return Audible(code), err
}

// Text (un)marshalling lets presets and bridge messages spell values by name.

func (c Color) MarshalText() ([]byte, error)     { return marshalCode(colorTable, uint8(c)) }
func (i Intensity) MarshalText() ([]byte, error) { return marshalCode(intensityTable, uint8(i)) }
func (a Animation) MarshalText() ([]byte, error) { return marshalCode(animationTable, uint8(a)) }
func (s Speed) MarshalText() ([]byte, error)     { return marshalCode(speedTable, uint8(s)) }
func (p Pattern) MarshalText() ([]byte, error)   { return marshalCode(patternTable, uint8(p)) }
func (r Rotation) MarshalText() ([]byte, error)  { return marshalCode(rotationTable, uint8(r)) }
func (a Audible) MarshalText() ([]byte, error)   { return marshalCode(audibleTable, uint8(a)) }

func (c *Color) UnmarshalText(text []byte) error {
	code, err := colorTable.unmarshalCode(text)
	*c = Color(code)
	return err
}

func (i *Intensity) UnmarshalText(text []byte) error {
	code, err := intensityTable.unmarshalCode(text)
	*i = Intensity(code)
	return err
}

func (a *Animation) UnmarshalText(text []byte) error {
	code, err := animationTable.unmarshalCode(text)
	*a = Animation(code)
	return err
}

func (s *Speed) UnmarshalText(text []byte) error {
	code, err := speedTable.unmarshalCode(text)
	*s = Speed(code)
	return err
}

func (p *Pattern) UnmarshalText(text []byte) error {
	code, err := patternTable.unmarshalCode(text)
	*p = Pattern(code)
	return err
}

func (r *Rotation) UnmarshalText(text []byte) error {
	code, err := rotationTable.unmarshalCode(text)
	*r = Rotation(code)
	return err
}

func (a *Audible) UnmarshalText(text []byte) error {
	code, err := audibleTable.unmarshalCode(text)
	*a = Audible(code)
	return err
}

func marshalCode(t codeTable, code uint8) ([]byte, error) {
	if !t.valid(code) {
		return nil, &FieldError{Table: t.kind, Code: int(code), Err: ErrInvalidFieldValue}
	}
	return []byte(t.names[code]), nil
}

// FieldKind identifies one of the nine fields of a Command.
type FieldKind int

const (
	FieldColor1 FieldKind = iota
	FieldIntensity1
	FieldAnimation
	FieldSpeed
	FieldPattern
	FieldColor2
	FieldIntensity2
	FieldRotation
	FieldAudible
)

// fieldSpec describes where a field lives in the frame.
type fieldSpec struct {
	name   string
	table  *codeTable
	offset int  // frame byte
	shift  uint // bit position within the byte
	width  uint // bits
}

var fieldSpecs = [...]fieldSpec{
	FieldColor1:     {name: "color1", table: &colorTable, offset: OffsetColor1, shift: 0, width: 4},
	FieldIntensity1: {name: "intensity1", table: &intensityTable, offset: OffsetColor1, shift: 4, width: 3},
	FieldAnimation:  {name: "animation", table: &animationTable, offset: OffsetAnimation, shift: 0, width: 3},
	FieldSpeed:      {name: "speed", table: &speedTable, offset: OffsetAnimation, shift: 3, width: 2},
	FieldPattern:    {name: "pattern", table: &patternTable, offset: OffsetAnimation, shift: 5, width: 3},
	FieldColor2:     {name: "color2", table: &colorTable, offset: OffsetColor2, shift: 0, width: 4},
	FieldIntensity2: {name: "intensity2", table: &intensityTable, offset: OffsetColor2, shift: 4, width: 3},
	FieldRotation:   {name: "rotation", table: &rotationTable, offset: OffsetColor2, shift: 7, width: 1},
	FieldAudible:    {name: "audible", table: &audibleTable, offset: OffsetAudible, shift: 0, width: 8},
}

// AllFields lists every field kind in frame order.
var AllFields = []FieldKind{
	FieldColor1, FieldIntensity1, FieldAnimation, FieldSpeed, FieldPattern,
	FieldColor2, FieldIntensity2, FieldRotation, FieldAudible,
}

func (k FieldKind) valid() bool {
	return k >= 0 && int(k) < len(fieldSpecs)
}

func (k FieldKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
	return fieldSpecs[k].name
}

// Width returns the number of bits the field occupies in the frame.
func (k FieldKind) Width() uint {
	if !k.valid() {
		return 0
	}
	return fieldSpecs[k].width
}

// Mask returns the largest code that fits the field's bit width.
func (k FieldKind) Mask() uint8 {
	return uint8(uint16(1)<<k.Width() - 1)
}

// Names returns the accepted value names for the field in code order.
func (k FieldKind) Names() []string {
	if !k.valid() {
		return nil
	}
	return fieldSpecs[k].table.Names()
}

// ParseFieldKind resolves a field name such as "color1" or "intensity2".
func ParseFieldKind(name string) (FieldKind, error) {
	n := normalizeName(name)
	for _, k := range AllFields {
		if fieldSpecs[k].name == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

// Encode maps a value name to its protocol code for the given field.
// Names outside the field's table fail with ErrInvalidFieldValue; no
// default code is ever substituted.
func Encode(kind FieldKind, value string) (uint8, error) {
	if !kind.valid() {
		return 0, &FieldError{Kind: kind, Value: value, Named: true, Err: ErrInvalidFieldValue}
	}
	code, ok := fieldSpecs[kind].table.lookup(value)
	if !ok {
		return 0, &FieldError{Kind: kind, Value: value, Named: true, Err: ErrInvalidFieldValue}
	}
	return code, nil
}

// EncodeCode checks an integer code against the field's bit width and
// value table.
func EncodeCode(kind FieldKind, code int) (uint8, error) {
	if !kind.valid() {
		return 0, &FieldError{Kind: kind, Code: code, Err: ErrInvalidFieldValue}
	}
	if code < 0 || code > int(kind.Mask()) {
		return 0, &FieldError{Kind: kind, Code: code, Err: ErrFieldOutOfRange}
	}
	if !fieldSpecs[kind].table.valid(uint8(code)) {
		return 0, &FieldError{Kind: kind, Code: code, Err: ErrInvalidFieldValue}
	}
	return uint8(code), nil
}

// Describe returns the canonical name for a code of the given field.
func Describe(kind FieldKind, code uint8) string {
	if !kind.valid() {
		return fmt.Sprintf("0x%02x", code)
	}
	return fieldSpecs[kind].table.name(code)
}
