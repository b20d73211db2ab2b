// Package tui implements the interactive light console behind 'tl50ctl console'.
//
// The console is a full-screen Bubble Tea program. It lists the configured
// presets, sends the highlighted one when Enter is pressed and shows the
// result of the last send. A light state can also be typed in the same
// form the CLI accepts (e.g. "chase red high blue high fast clockwise").
//
// # Framework Components
//
//   - bubbles/list: preset list with filtering
//   - bubbles/textinput: typed light states
//   - bubbles/spinner: shown while a frame is being written
//   - bubbles/help and bubbles/key: context-aware key help
//   - lipgloss: layout, reusing the internal/ui palette
//
// # Usage Example
//
//	m := tui.NewConsoleModel(cfg, sender, "/dev/ttyUSB0")
//	final, err := tui.Run(m)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(final.Summary())
//
// Sends run as tea.Cmd functions so the interface stays responsive while the
// serial driver waits out its settle delay. Only one send is in flight at a
// time; keys that would send are ignored until it completes.
package tui
