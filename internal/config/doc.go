// Package config loads and saves the tl50ctl configuration file.
//
// The file is YAML and holds the serial port settings, named presets
// (light states), named sequences (scripts of presets or inline commands
// with hold times) and the WebSocket bridge settings. Values are spelled
// by name and validated when the file is loaded, so an unknown color or a
// sequence step that points at a missing preset is reported before
// anything is sent to a light.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/tl50ctl/config.yaml or $HOME/.config/tl50ctl/config.yaml
//   - macOS: $HOME/.config/tl50ctl/config.yaml
//   - Windows: %LOCALAPPDATA%\tl50ctl\config.yaml
//
// # Example
//
//	version: 1
//	port: /dev/ttyUSB0
//	baud: 19200
//	write_delay: 90ms
//	presets:
//	  build-failed:
//	    animation: flash
//	    color1: red
//	    pattern: strobe
//	    audible: pulsed
//	sequences:
//	  standup:
//	    loop: true
//	    steps:
//	      - preset: ok
//	        hold: 5s
//	      - command: {animation: chase, color1: white, color2: blue, speed: slow}
//	        hold: 5s
//
// Built-in presets (off, ok, warning, alarm) and sequences (demo, blink)
// are always available unless the file redefines them.
//
// # Thread Safety
//
// Save is serialized by a package mutex. A loaded *Config is not modified
// by this package and may be shared for reading.
package config
