package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Frame layout constants
const (
	FrameSize = 38 // Total frame length including checksum

	OffsetColor1    = 5  // color1 | intensity1<<4
	OffsetAnimation = 6  // animation | speed<<3 | pattern<<5
	OffsetColor2    = 7  // color2 | intensity2<<4 | rotation<<7
	OffsetReserved  = 8  // first zero-filled byte
	OffsetAudible   = 35 // audible code, full byte
	OffsetChecksum  = 36 // 2-byte checksum, little-endian
)

// Header is the constant frame prefix (bytes 0-4).
var Header = [5]byte{0xF4, 0x41, 0xC1, 0x1F, 0x00}

// Frame is a complete 38-byte TL50 command ready to be written to the
// serial port in a single call.
type Frame [FrameSize]byte

// Build encodes a Command into a Frame.
//
// Frame Structure:
//
//	[0-3]   F4 41 C1 1F    Constant header
//	[4]     00             Constant
//	[5]     color1 | intensity1<<4          (bit 7 reserved)
//	[6]     animation | speed<<3 | pattern<<5
//	[7]     color2 | intensity2<<4 | rotation<<7
//	[8-34]  00             Reserved
//	[35]    audible        Audible code
//	[36-37] checksum       (sum of bytes 0-35) ^ 0xFFFF, little-endian
//
// Every field is validated before any byte is written. A field code that
// is wider than its slot fails with ErrFieldOutOfRange, a code that fits
// but is not defined fails with ErrInvalidFieldValue. On error the zero
// Frame is returned and must not be sent.
func Build(cmd Command) (Frame, error) {
	codes, err := cmd.codes()
	if err != nil {
		return Frame{}, err
	}

	var f Frame
	copy(f[:], Header[:])

	f[OffsetColor1] = (codes[FieldColor1] & 0xf) |
		((codes[FieldIntensity1] & 0x7) << 4)

	f[OffsetAnimation] = (codes[FieldAnimation] & 0x7) |
		((codes[FieldSpeed] & 0x3) << 3) |
		((codes[FieldPattern] & 0x7) << 5)

	f[OffsetColor2] = (codes[FieldColor2] & 0xf) |
		((codes[FieldIntensity2] & 0x7) << 4) |
		((codes[FieldRotation] & 0x1) << 7)

	// Bytes 8-34 stay zero

	f[OffsetAudible] = codes[FieldAudible]

	sum := Checksum(f[:OffsetChecksum])
	f[OffsetChecksum] = sum[0]
	f[OffsetChecksum+1] = sum[1]

	return f, nil
}

// ChecksumValue returns the 16-bit checksum of data: the byte sum taken in
// a wide accumulator, XORed with 0xFFFF. Only the low 16 bits are kept.
func ChecksumValue(data []byte) uint16 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return uint16((sum ^ 0xFFFF) & 0xFFFF)
}

// Checksum returns the checksum of data as transmitted: low byte first.
func Checksum(data []byte) [2]byte {
	var out [2]byte
	binary.LittleEndian.PutUint16(out[:], ChecksumValue(data))
	return out
}

// Checksum returns the checksum value stored in the frame.
func (f Frame) Checksum() uint16 {
	return binary.LittleEndian.Uint16(f[OffsetChecksum:])
}

// Bytes returns a copy of the frame as a slice.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}

// Hex returns the frame as a lowercase hex string without separators.
func (f Frame) Hex() string {
	return hex.EncodeToString(f[:])
}

// String returns the frame as space-separated uppercase hex bytes.
func (f Frame) String() string {
	parts := make([]string, FrameSize)
	for i, b := range f {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// ParseHex parses a hex dump such as the output of Hex or String. Spaces,
// colons and a leading 0x are ignored. The result is not validated; use
// ValidateFrame or DecodeFrame for that.
func ParseHex(s string) (Frame, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)

	raw, err := hex.DecodeString(s)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decode hex: %w", err)
	}
	if len(raw) != FrameSize {
		return Frame{}, &FrameError{Offset: -1, Reason: fmt.Sprintf("length %d, want %d", len(raw), FrameSize)}
	}

	var f Frame
	copy(f[:], raw)
	return f, nil
}

// ValidateFrame checks that data is a well-formed frame.
//
// Validation checks:
//   - Length is exactly 38 bytes
//   - Header bytes 0-4 match
//   - Reserved bit 7 of byte 5 is clear
//   - Bytes 8-34 are zero
//   - Checksum matches bytes 0-35
func ValidateFrame(data []byte) error {
	if len(data) != FrameSize {
		return &FrameError{Offset: -1, Reason: fmt.Sprintf("length %d, want %d", len(data), FrameSize)}
	}

	for i, want := range Header {
		if data[i] != want {
			return &FrameError{Offset: i, Reason: fmt.Sprintf("header 0x%02x, want 0x%02x", data[i], want)}
		}
	}

	if data[OffsetColor1]&0x80 != 0 {
		return &FrameError{Offset: OffsetColor1, Reason: "reserved bit 7 is set"}
	}

	for i := OffsetReserved; i < OffsetAudible; i++ {
		if data[i] != 0 {
			return &FrameError{Offset: i, Reason: fmt.Sprintf("reserved byte is 0x%02x", data[i])}
		}
	}

	got := binary.LittleEndian.Uint16(data[OffsetChecksum:])
	want := ChecksumValue(data[:OffsetChecksum])
	if got != want {
		return &FrameError{Offset: OffsetChecksum, Reason: fmt.Sprintf("checksum 0x%04x, want 0x%04x", got, want)}
	}

	return nil
}
