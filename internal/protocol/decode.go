package protocol

import (
	"fmt"
)

// DecodeFrame validates data and unpacks it back into a Command.
//
// Decoded codes that fit their bit width but are not defined by the
// protocol (a color of 0x0e, a speed of 3) fail with ErrInvalidFieldValue
// rather than being mapped to a nearby value.
func DecodeFrame(data []byte) (Command, error) {
	if err := ValidateFrame(data); err != nil {
		return Command{}, err
	}

	var cmd Command
	for _, k := range AllFields {
		spec := fieldSpecs[k]
		code := (data[spec.offset] >> spec.shift) & k.Mask()
		if !spec.table.valid(code) {
			return Command{}, &FieldError{Kind: k, Code: int(code), Err: ErrInvalidFieldValue}
		}
		cmd = cmd.With(k, code)
	}
	return cmd, nil
}

// Decode unpacks the frame into a Command. See DecodeFrame.
func (f Frame) Decode() (Command, error) {
	return DecodeFrame(f[:])
}

// Validate checks the frame. See ValidateFrame.
func (f Frame) Validate() error {
	return ValidateFrame(f[:])
}

// ByteAnnotation describes one byte (or run of identical-purpose bytes)
// of a frame for display.
type ByteAnnotation struct {
	Offset int    // first byte
	Length int    // number of bytes covered
	Hex    string // bytes as space separated hex
	Label  string // e.g. "header", "color1/intensity1"
	Value  string // decoded meaning
}

// Annotate breaks a frame into labelled byte ranges. Undefined codes are
// shown with their raw value; Annotate never fails, so it can be used to
// inspect corrupt frames.
func Annotate(f Frame) []ByteAnnotation {
	hexOf := func(b []byte) string {
		s := ""
		for i, v := range b {
			if i > 0 {
				s += " "
			}
			s += fmt.Sprintf("%02X", v)
		}
		return s
	}
	field := func(k FieldKind) string {
		spec := fieldSpecs[k]
		return fmt.Sprintf("%s=%s", k, Describe(k, (f[spec.offset]>>spec.shift)&k.Mask()))
	}

	reserved, reservedHex := "zero", "00 ... 00"
	for _, b := range f[OffsetReserved:OffsetAudible] {
		if b != 0 {
			reserved, reservedHex = "NOT ZERO", hexOf(f[OffsetReserved:OffsetAudible])
			break
		}
	}

	checksum := fmt.Sprintf("0x%04X ok", f.Checksum())
	if want := ChecksumValue(f[:OffsetChecksum]); want != f.Checksum() {
		checksum = fmt.Sprintf("0x%04X mismatch, want 0x%04X", f.Checksum(), want)
	}

	return []ByteAnnotation{
		{Offset: 0, Length: 5, Hex: hexOf(f[0:5]), Label: "header", Value: "constant"},
		{Offset: OffsetColor1, Length: 1, Hex: hexOf(f[OffsetColor1 : OffsetColor1+1]),
			Label: "color1/intensity1", Value: field(FieldColor1) + " " + field(FieldIntensity1)},
		{Offset: OffsetAnimation, Length: 1, Hex: hexOf(f[OffsetAnimation : OffsetAnimation+1]),
			Label: "animation/speed/pattern",
			Value: field(FieldAnimation) + " " + field(FieldSpeed) + " " + field(FieldPattern)},
		{Offset: OffsetColor2, Length: 1, Hex: hexOf(f[OffsetColor2 : OffsetColor2+1]),
			Label: "color2/intensity2/rotation",
			Value: field(FieldColor2) + " " + field(FieldIntensity2) + " " + field(FieldRotation)},
		{Offset: OffsetReserved, Length: OffsetAudible - OffsetReserved, Hex: reservedHex,
			Label: "reserved", Value: reserved},
		{Offset: OffsetAudible, Length: 1, Hex: hexOf(f[OffsetAudible : OffsetAudible+1]),
			Label: "audible", Value: field(FieldAudible)},
		{Offset: OffsetChecksum, Length: 2, Hex: hexOf(f[OffsetChecksum:]),
			Label: "checksum", Value: checksum},
	}
}
