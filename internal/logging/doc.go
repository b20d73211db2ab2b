// Package logging provides structured logging for tl50ctl.
//
// This package wraps a global zap logger with convenience functions for the
// events the tool cares about: serial port lifecycle, frames written to the
// light, sequence steps and bridge connections.
//
// # Log Levels
//
//   - Debug: Frame hex dumps, WebSocket message bodies
//   - Info: Port opened/closed, sequence steps, bridge connections
//   - Warn: Write failures that will be retried on the next send
//   - Error: Failures surfaced to the user
//
// # Configuration
//
// Logging is silent unless a level is given, either with the --log-level
// flag or the TL50_LOG_LEVEL environment variable, so normal CLI output is
// not interleaved with log lines. Logs go to stderr.
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogPortEvent("/dev/ttyUSB0", "opened", zap.Int("baud", 19200))
//	logging.LogFrame("sent", "/dev/ttyUSB0", frame.Bytes())
//	logging.LogStep("demo", 0, "steady green", 2*time.Second)
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once the logger has
// been initialized.
package logging
