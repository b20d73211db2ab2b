package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/tl50ctl/internal/ui"
	"github.com/muurk/tl50ctl/internal/version"
)

// AppName is shown in the console header.
const AppName = "TL50CTL CONSOLE"

// Palette, shared with the non-interactive output
var (
	PrimaryColor   = ui.PrimaryColor
	HighlightColor = ui.SuccessColor
	SubtleColor    = ui.MutedColor
	BorderColor    = ui.PrimaryColor
)

var (
	// Title style - bold, primary color
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Selected list entry
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	// Unselected list entry
	ItemStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Status line styles
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ui.SuccessColor).
			Bold(true)
	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ui.ErrorColor).
				Bold(true)
)

// RenderApplicationContainer wraps a screen in the console frame: a header
// with the app name and port, the content, and a footer with key help.
// Zero sizes (before the first tea.WindowSizeMsg) fall back to a minimum
// width and no height constraint.
func RenderApplicationContainer(content, footerText, port string, width, height int) string {
	if width < ui.MinTerminalWidth {
		width = ui.MinTerminalWidth
	}

	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)
	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(port)
	header := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(width-4).
		Padding(0, 1)
	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(footerText),
	)

	border := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(width - 2).
		AlignVertical(lipgloss.Top)
	if height > 2 {
		border = border.Height(height - 2)
	}
	return border.Render(inner)
}
