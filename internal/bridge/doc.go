// Package bridge exposes a tower light over a WebSocket connection.
//
// The bridge lets programs that cannot open a serial port themselves (CI
// runners, browser dashboards, scripts on other machines) drive a light
// attached to the host running `tl50ctl serve`.
//
// # Endpoints
//
//   - /ws: WebSocket endpoint. Each text message is one JSON request.
//   - /healthz: JSON status including the build version and the number of
//     connected clients.
//   - /presets: JSON list of the preset names the bridge knows.
//
// # Requests
//
// A request names a preset, carries a full command, or names a mode with
// its field values:
//
//	{"preset": "alarm"}
//	{"command": {"animation": "chase", "color1": "white", "color2": "blue", "speed": "slow"}}
//	{"mode": "steady", "color1": "green", "intensity1": "high"}
//	{"mode": "flash", "fields": {"color1": "red", "intensity1": "high", "speed": "fast", "pattern": "strobe"}}
//
// Any request may add "audible" to override the buzzer and an "id" that is
// echoed in the reply. Replies look like:
//
//	{"id": "42", "ok": true, "frame": "f441c11f00..."}
//	{"id": "43", "ok": false, "error": "invalid field value: \"teal\" is not a valid color ..."}
//
// # Connection Handling
//
// Clients are pinged every pingPeriod and dropped when no pong arrives
// within pongWait. Messages larger than maxMessageSize close the
// connection. Frames from every client go through the same Sender, which
// serializes writes to the port.
//
// # Graceful Shutdown
//
// When the context passed to Start ends the bridge:
//  1. Withdraws its mDNS advertisement
//  2. Stops accepting new connections
//  3. Sends a close frame to every client
//  4. Waits for in-flight requests to finish
package bridge
