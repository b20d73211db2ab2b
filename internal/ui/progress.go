package ui

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/sequence"
)

// StepStatus is where a step is in the current pass.
type StepStatus int

const (
	StepPending     StepStatus = iota
	StepShowing                // frame sent, holding
	StepShown                  // hold elapsed
	StepFailed                 // send failed
	StepInterrupted            // run cancelled during this step
)

// Row is one sequence step as the run display shows it.
type Row struct {
	Name   string
	Hold   time.Duration
	State  string // state bytes and audible byte of the frame, in hex
	Status StepStatus
	Note   string // send error, if any
}

// Progress tracks a sequence run. The bar advances by hold time, so a 10s
// step moves it further than a 1s one.
type Progress struct {
	rows    []Row
	pass    int
	current int
	total   time.Duration
	width   int
	bar     progress.Model
}

// NewProgress builds one row per step of seq.
func NewProgress(seq *sequence.Sequence) *Progress {
	p := &Progress{rows: make([]Row, len(seq.Steps))}
	for i, step := range seq.Steps {
		p.rows[i] = Row{Name: step.Name, Hold: step.Hold, State: stateHex(step.Frame)}
		p.total += step.Hold
	}
	p.SetWidth(GetTerminalWidth())
	return p
}

// stateHex renders the bytes that differ between light states: the three
// packed field bytes and the audible byte.
func stateHex(f protocol.Frame) string {
	return hex.EncodeToString(f[protocol.OffsetColor1:protocol.OffsetReserved]) + ":" +
		hex.EncodeToString(f[protocol.OffsetAudible:protocol.OffsetAudible+1])
}

// SetWidth sizes the bar for a terminal of the given width.
func (p *Progress) SetWidth(width int) *Progress {
	p.width = width
	barWidth := min(max(width-30, 20), 50)
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// Row returns the row for step index.
func (p *Progress) Row(index int) Row {
	return p.rows[index]
}

// Pass returns the pass number of a looping run, or 0 before the first.
func (p *Progress) Pass() int {
	return p.pass
}

// NewPass clears every row for another pass of a looping sequence.
func (p *Progress) NewPass(pass int) {
	for i := range p.rows {
		p.rows[i].Status = StepPending
		p.rows[i].Note = ""
	}
	p.pass = pass
	p.current = 0
}

// Showing marks step index as sent and holding.
func (p *Progress) Showing(index int) {
	if index < 0 || index >= len(p.rows) {
		return
	}
	p.rows[index].Status = StepShowing
	p.current = index + 1
}

// Done records how step index ended.
func (p *Progress) Done(index int, err error) {
	if index < 0 || index >= len(p.rows) {
		return
	}
	row := &p.rows[index]
	switch {
	case err == nil:
		row.Status = StepShown
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		row.Status = StepInterrupted
	default:
		row.Status = StepFailed
		row.Note = err.Error()
	}
}

// Percent returns the share of this pass's hold time already shown. A
// sequence whose holds are all zero counts steps instead.
func (p *Progress) Percent() float64 {
	if len(p.rows) == 0 {
		return 0
	}
	var held time.Duration
	shown := 0
	for _, row := range p.rows {
		if row.Status == StepShown {
			held += row.Hold
			shown++
		}
	}
	if p.total == 0 {
		return float64(shown) / float64(len(p.rows))
	}
	return float64(held) / float64(p.total)
}

// Render returns the bar followed by every row.
func (p *Progress) Render() string {
	lines := []string{p.RenderBar(), ""}
	for i := range p.rows {
		lines = append(lines, p.RenderRow(i))
	}
	return strings.Join(lines, "\n")
}

// RenderBar renders the bar with step count and pass.
func (p *Progress) RenderBar() string {
	counter := fmt.Sprintf("[%d/%d]", p.current, len(p.rows))
	if p.pass > 0 {
		counter += fmt.Sprintf(" pass %d", p.pass)
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(
		fmt.Sprintf("%s  %3.0f%%  %s", p.bar.ViewAs(p.Percent()), p.Percent()*100, counter))
}

// RenderRow renders step index as
//
//	[2/7] flash              2s  090123:00  ✓
func (p *Progress) RenderRow(index int) string {
	row := p.rows[index]

	marker, style := StepMarkerPending, StepPendingStyle
	switch row.Status {
	case StepShowing:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepShown:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepInterrupted:
		marker = StepMarkerSkipped
	}

	hold := "-"
	if row.Hold > 0 {
		hold = row.Hold.String()
	}

	nameWidth := min(max(p.width-40, 12), 32)
	name := row.Name
	if r := []rune(name); len(r) > nameWidth {
		name = string(r[:nameWidth-1]) + "…"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", index+1, len(p.rows))
	b.WriteString(style.Render(name))
	b.WriteString(strings.Repeat(" ", max(nameWidth-lipgloss.Width(name), 0)+1))
	b.WriteString(StepNoteStyle.Render(fmt.Sprintf("%6s  %s", hold, row.State)))
	b.WriteString("  ")
	b.WriteString(style.Render(marker))
	if row.Note != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + row.Note + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}
