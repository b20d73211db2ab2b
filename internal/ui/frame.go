package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tl50ctl/internal/protocol"
)

// FrameTable renders a frame byte by byte with the field each byte carries.
type FrameTable struct {
	Title string
	Frame protocol.Frame
	Width int
}

// NewFrameTable creates a table for f
func NewFrameTable(f protocol.Frame) *FrameTable {
	return &FrameTable{
		Title: "Frame",
		Frame: f,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *FrameTable) SetWidth(width int) *FrameTable {
	t.Width = width
	return t
}

// Rows returns the unstyled table rows: offset, hex, label, value.
func (t *FrameTable) Rows() [][4]string {
	annotations := protocol.Annotate(t.Frame)
	rows := make([][4]string, 0, len(annotations))
	for _, a := range annotations {
		offset := fmt.Sprintf("%d", a.Offset)
		if a.Length > 1 {
			offset = fmt.Sprintf("%d-%d", a.Offset, a.Offset+a.Length-1)
		}
		rows = append(rows, [4]string{offset, a.Hex, a.Label, a.Value})
	}
	return rows
}

// Render returns the styled table in a rounded box
func (t *FrameTable) Render() string {
	width := t.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	rows := t.Rows()
	hexWidth, labelWidth := 0, 0
	for _, r := range rows {
		hexWidth = max(hexWidth, lipgloss.Width(r[1]))
		labelWidth = max(labelWidth, lipgloss.Width(r[2]))
	}

	lines := []string{
		TroubleshootingTitleStyle.Render(t.Title),
		"",
	}
	for _, r := range rows {
		lines = append(lines, FrameOffsetStyle.Render(r[0])+
			FrameHexStyle.Render(pad(r[1], hexWidth))+"  "+
			FrameLabelStyle.Render(pad(r[2], labelWidth))+"  "+
			FrameValueStyle.Render(r[3]))
	}

	return FrameBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (t *FrameTable) String() string {
	return t.Render()
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
