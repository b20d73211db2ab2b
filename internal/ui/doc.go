// Package ui provides terminal UI components for the tl50ctl CLI.
//
// This package uses Bubble Tea and Lipgloss to render polished terminal
// output. The components follow a "run once and exit" pattern: they render
// output compellingly but don't require user interaction.
//
// # Architecture
//
// The UI package provides these component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Progress: Progress bar with step list showing real-time status
//   - Result: Success/failure/warning boxes with styled information
//   - FrameTable: A frame broken into its byte fields
//
// A SequenceRunner ties them together for `tl50ctl run`: it is the
// sequence.Observer that turns step callbacks into progress lines and
// finishes with a result box.
//
// Example:
//
//	view := ui.NewSequenceRunner(ui.SequenceRunnerConfig{
//	    Title:   "Run Sequence",
//	    Command: "tl50ctl run demo",
//	    Params:  map[string]string{"Port": "/dev/ttyUSB0"},
//	}, seq)
//	runner := sequence.NewRunner(driver, sequence.WithObserver(view))
//	err := view.Run(ctx, runner)
//
// # Logging Integration
//
// This package expects logging to be controlled via the TL50_LOG_LEVEL
// environment variable or the --log-level flag. When unset, zap logging is
// silent, so the curated UI output is displayed cleanly.
package ui
