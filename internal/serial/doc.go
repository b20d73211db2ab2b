// Package serial delivers TL50 frames to lights over a serial line.
//
// A Driver owns one port. It opens the port on first use, writes each
// 38-byte frame in a single call, flushes, and then waits the configured
// settle delay (90ms by default) so the light has time to process the
// frame before the next one arrives. When a write fails the handle is
// dropped and the next Send reopens the port, so a light that was
// unplugged and plugged back in recovers without restarting the program.
//
// Display durations between commands are not handled here; see
// internal/sequence.
//
//	d := serial.NewDriver(serial.DefaultConfig("/dev/ttyUSB0"))
//	defer d.Close()
//
//	frame, err := protocol.Steady(protocol.ColorGreen, protocol.IntensityHigh)
//	if err != nil {
//	    return err
//	}
//	if err := d.Send(ctx, frame); err != nil {
//	    return err
//	}
//
// Ports are never enumerated; the caller names them.
package serial
