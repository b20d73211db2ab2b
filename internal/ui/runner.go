package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/muurk/tl50ctl/internal/sequence"
)

// SequenceRunnerConfig holds configuration for a sequence run display
type SequenceRunnerConfig struct {
	Title   string            // Header title (e.g., "Run Sequence")
	Command string            // Full command (e.g., "tl50ctl run demo")
	Params  map[string]string // Extra parameters to display in header
	Output  io.Writer         // Output writer (default: os.Stdout)
	Width   int               // Terminal width (default: detected)
}

// SequenceRunner orchestrates the header, progress and result output for a
// sequence run. It implements sequence.Observer.
type SequenceRunner struct {
	config    SequenceRunnerConfig
	seq       *sequence.Sequence
	header    *Header
	progress  *Progress
	output    io.Writer
	startTime time.Time
	width     int
}

// NewSequenceRunner creates a display for seq
func NewSequenceRunner(config SequenceRunnerConfig, seq *sequence.Sequence) *SequenceRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	params := map[string]string{
		"Sequence": seq.Name,
		"Steps":    strconv.Itoa(len(seq.Steps)),
		"Duration": seq.Duration().String(),
	}
	if seq.Loop {
		params["Loop"] = "until interrupted"
	}
	for k, v := range config.Params {
		params[k] = v
	}

	header := NewHeader(config.Title, config.Command, params)
	header.SetWidth(width)

	progress := NewProgress(seq)
	progress.SetWidth(width)

	return &SequenceRunner{
		config:   config,
		seq:      seq,
		header:   header,
		progress: progress,
		output:   config.Output,
		width:    width,
	}
}

// Progress returns the underlying progress model
func (r *SequenceRunner) Progress() *Progress {
	return r.progress
}

// Run prints the header, plays the sequence through runner and prints the
// result. An interrupted run is reported as a warning, not a failure.
func (r *SequenceRunner) Run(ctx context.Context, runner *sequence.Runner) error {
	r.startTime = time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	err := runner.Run(ctx, r.seq)
	duration := time.Since(r.startTime)

	switch {
	case err == nil:
		r.printSuccess(duration)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.printInterrupted(duration)
	default:
		r.printFailure(err, duration)
	}
	return err
}

// StepStarted implements sequence.Observer
func (r *SequenceRunner) StepStarted(pass, index int, step sequence.Step) {
	if r.seq.Loop && index == 0 {
		r.progress.NewPass(pass)
		if pass > 1 {
			_, _ = fmt.Fprintln(r.output)
		}
		_, _ = fmt.Fprintln(r.output, ProgressLabelStyle.Render(fmt.Sprintf("  pass %d", pass)))
	}

	r.progress.Showing(index)
	_, _ = fmt.Fprint(r.output, r.progress.RenderRow(index)+"\r")
}

// StepDone implements sequence.Observer
func (r *SequenceRunner) StepDone(pass, index int, step sequence.Step, err error) {
	r.progress.Done(index, err)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderRow(index))
}

func (r *SequenceRunner) printSuccess(duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)
	result := NewSuccessResult(r.seq.Name+" complete", map[string]string{
		"Duration": duration.Round(time.Millisecond).String(),
		"Steps":    strconv.Itoa(len(r.seq.Steps)),
	})
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

func (r *SequenceRunner) printInterrupted(duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)
	result := NewWarningResult(r.seq.Name+" interrupted", map[string]string{
		"Duration": duration.Round(time.Millisecond).String(),
		"Light":    "off frame sent",
	})
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

func (r *SequenceRunner) printFailure(err error, duration time.Duration) {
	_, _ = fmt.Fprintln(r.output)
	_, _ = fmt.Fprintln(r.output, r.progress.RenderBar())
	_, _ = fmt.Fprintln(r.output)
	title := fmt.Sprintf("%s failed after %s", r.seq.Name, duration.Round(time.Millisecond))
	result := NewFailureResult(title, err, SerialTroubleshooting)
	result.SetWidth(r.width)
	_, _ = fmt.Fprintln(r.output, result.Render())
}

// SerialTroubleshooting lists checks for serial write failures.
var SerialTroubleshooting = []string{
	"Check the USB cable and that the light has power",
	"Confirm the port name with --port (e.g. /dev/ttyUSB0, COM3)",
	"Make sure no other program has the port open",
	"On Linux, add your user to the dialout group",
	"Run with --log-level debug to see every frame written",
}
