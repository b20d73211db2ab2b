package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/sequence"
)

func TestFrameTable_Rows(t *testing.T) {
	f, err := protocol.Steady(protocol.ColorBlue, protocol.IntensityHigh)
	if err != nil {
		t.Fatal(err)
	}

	rows := NewFrameTable(f).Rows()
	if len(rows) != 7 {
		t.Fatalf("Rows() returned %d rows, want 7", len(rows))
	}

	tests := []struct {
		row    int
		offset string
		hex    string
	}{
		{0, "0-4", "F4 41 C1 1F 00"},
		{1, "5", "09"},
		{2, "6", "01"},
		{3, "7", "00"},
		{5, "35", "00"},
		{6, "36-37", "E0 FD"},
	}
	for _, tt := range tests {
		if rows[tt.row][0] != tt.offset {
			t.Errorf("row %d offset = %q, want %q", tt.row, rows[tt.row][0], tt.offset)
		}
		if !strings.EqualFold(rows[tt.row][1], tt.hex) {
			t.Errorf("row %d hex = %q, want %q", tt.row, rows[tt.row][1], tt.hex)
		}
	}
	if rows[4][0] != "8-34" {
		t.Errorf("reserved row offset = %q, want 8-34", rows[4][0])
	}
}

func TestFrameTable_Render(t *testing.T) {
	f, _ := protocol.Off()
	out := NewFrameTable(f).SetWidth(80).Render()
	for _, want := range []string{"Frame", "header", "audible", "checksum"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestProgress(t *testing.T) {
	long, err := sequence.NewStep("alarm", protocol.FlashCommand(protocol.ColorRed, protocol.IntensityHigh,
		protocol.SpeedFast, protocol.PatternStrobe), 3*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	short, err := sequence.NewStep("off", protocol.OffCommand(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProgress(&sequence.Sequence{Name: "s", Steps: []sequence.Step{long, short}})
	p.SetWidth(80)

	if got := p.Row(1).State; got != "000000:00" {
		t.Errorf("off State = %q, want 000000:00", got)
	}

	p.Showing(0)
	if p.Row(0).Status != StepShowing {
		t.Errorf("Status = %v, want StepShowing", p.Row(0).Status)
	}
	p.Done(0, nil)
	if p.Percent() != 0.75 {
		t.Errorf("Percent() = %v, want 0.75 after the 3s of 4s step", p.Percent())
	}

	p.Done(-1, nil)
	p.Done(2, nil)
	if p.Percent() != 0.75 {
		t.Error("out of range steps must be ignored")
	}

	p.Done(1, errors.New("port unplugged"))
	if row := p.Row(1); row.Status != StepFailed || row.Note != "port unplugged" {
		t.Errorf("failed row = %+v", row)
	}
	for _, want := range []string{"[1/2] alarm", "3s", "1s", p.Row(0).State, "(port unplugged)"} {
		if !strings.Contains(p.Render(), want) {
			t.Errorf("Render() missing %q:\n%s", want, p.Render())
		}
	}

	p.NewPass(2)
	if p.Pass() != 2 || p.Percent() != 0 || p.Row(0).Status != StepPending || p.Row(1).Note != "" {
		t.Errorf("NewPass() left %+v", p.Row(1))
	}
	if !strings.Contains(p.RenderBar(), "pass 2") {
		t.Error("RenderBar() should show the pass of a looping sequence")
	}

	p.Done(0, context.Canceled)
	if p.Row(0).Status != StepInterrupted {
		t.Errorf("Status = %v, want StepInterrupted", p.Row(0).Status)
	}
}

func TestProgress_ZeroHolds(t *testing.T) {
	a, _ := sequence.NewStep("a", protocol.OffCommand(), 0)
	b, _ := sequence.NewStep("b", protocol.OffCommand(), 0)
	p := NewProgress(&sequence.Sequence{Steps: []sequence.Step{a, b}})

	p.Done(0, nil)
	if p.Percent() != 0.5 {
		t.Errorf("Percent() = %v, want 0.5 by step count", p.Percent())
	}
	if !strings.Contains(p.RenderRow(1), " - ") {
		t.Errorf("RenderRow() should show - for no hold: %q", p.RenderRow(1))
	}
}

func TestResult_DetailsSorted(t *testing.T) {
	out := NewSuccessResult("done", map[string]string{"Zeta": "1", "Alpha": "2"}).SetWidth(80).Render()
	if strings.Index(out, "Alpha") > strings.Index(out, "Zeta") {
		t.Error("details should render in key order")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmOverwrite(strings.NewReader(tt.input), &out, "/tmp/config.yaml")
			if got != tt.want {
				t.Errorf("ConfirmOverwrite(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "/tmp/config.yaml") {
				t.Error("prompt should name the file")
			}
		})
	}
}

type nullSender struct{ err error }

func (s nullSender) Send(ctx context.Context, f protocol.Frame) error {
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}

func (nullSender) Close() error { return nil }

func testSeq(t *testing.T) *sequence.Sequence {
	t.Helper()
	a, err := sequence.NewStep("green", protocol.SteadyCommand(protocol.ColorGreen, protocol.IntensityHigh), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	b, err := sequence.NewStep("off", protocol.OffCommand(), 0)
	if err != nil {
		t.Fatal(err)
	}
	return &sequence.Sequence{Name: "mini", Steps: []sequence.Step{a, b}}
}

func TestSequenceRunner(t *testing.T) {
	tests := []struct {
		name     string
		sender   nullSender
		wantErr  bool
		wantText []string
	}{
		{
			name:     "success",
			wantText: []string{"RUN SEQUENCE", "green", "1ms", "000000:00", "100%", "SUCCESS", "mini complete"},
		},
		{
			name:     "failure",
			sender:   nullSender{err: errors.New("port unplugged")},
			wantErr:  true,
			wantText: []string{"FAILED", "port unplugged", "Troubleshooting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			seq := testSeq(t)
			view := NewSequenceRunner(SequenceRunnerConfig{
				Title:   "Run Sequence",
				Command: "tl50ctl run mini",
				Output:  &out,
				Width:   80,
			}, seq)
			runner := sequence.NewRunner(tt.sender, sequence.WithObserver(view))

			err := view.Run(context.Background(), runner)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantText {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestSequenceRunner_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	seq := testSeq(t)
	view := NewSequenceRunner(SequenceRunnerConfig{Title: "Run", Output: &out, Width: 80}, seq)
	err := view.Run(ctx, sequence.NewRunner(nullSender{}, sequence.WithObserver(view)))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if !strings.Contains(out.String(), "WARNING") || !strings.Contains(out.String(), "interrupted") {
		t.Errorf("interrupted run should end with a warning:\n%s", out.String())
	}
}

func TestColorSwatch(t *testing.T) {
	if got := ColorSwatch(protocol.ColorSkyBlue); !strings.Contains(got, "sky_blue") {
		t.Errorf("ColorSwatch() = %q", got)
	}
	if got := ColorSwatch(protocol.Color(0x0f)); !strings.Contains(got, "0x0f") {
		t.Errorf("ColorSwatch(undefined) = %q", got)
	}
}
