// Package protocol implements the TL50 tower light serial command frame.
//
// This package turns a description of a desired light and buzzer state into
// the fixed 38-byte frame the light expects on its serial line, and back.
// It performs no I/O; frames are handed to a transport (see internal/serial).
//
// # Frame Layout
//
//	[0-3]   F4 41 C1 1F    Constant header
//	[4]     00             Constant
//	[5]     color1 (bits 0-3) | intensity1 (bits 4-6), bit 7 reserved
//	[6]     animation (bits 0-2) | speed (bits 3-4) | pattern (bits 5-7)
//	[7]     color2 (bits 0-3) | intensity2 (bits 4-6) | rotation (bit 7)
//	[8-34]  00             Reserved
//	[35]    audible        Buzzer code, full byte
//	[36-37] checksum       (sum of bytes 0-35) XOR 0xFFFF, low byte first
//
// # Code Tables
//
// Every field takes a value from a closed table (Color, Intensity,
// Animation, Speed, Pattern, Rotation, Audible). Values can be given as
// typed constants or by name ("sky_blue", "Sky Blue" and "sky-blue" are
// the same). A name or code outside the table is an error wrapping
// ErrInvalidFieldValue; a code wider than its bit slot is an error
// wrapping ErrFieldOutOfRange. No default is ever substituted, so a typo
// never reaches the light as a different, valid-looking command.
//
// # Usage Example
//
//	frame, err := protocol.TwoColorFlash(
//	    protocol.ColorYellow, protocol.IntensityHigh,
//	    protocol.ColorBlue, protocol.IntensityHigh,
//	    protocol.SpeedFast, protocol.PatternNormal,
//	)
//	if err != nil {
//	    return err
//	}
//	_, err = port.Write(frame.Bytes())
//
// Text front ends use Mode:
//
//	mode, _ := protocol.LookupMode("steady")
//	cmd, err := mode.Command([]string{"blue", "high"})
//
// # Thread Safety
//
// Command and Frame are values and every function in this package is
// pure, so all of it is safe for concurrent use.
package protocol
