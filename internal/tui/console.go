package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/tl50ctl/internal/logging"
	"github.com/muurk/tl50ctl/internal/protocol"
	"github.com/muurk/tl50ctl/internal/serial"
	"github.com/muurk/tl50ctl/internal/ui"
)

// DefaultSendTimeout bounds each frame written from the console.
const DefaultSendTimeout = 5 * time.Second

// Presets is the source of the console's preset list.
type Presets interface {
	Preset(name string) (protocol.Command, error)
	PresetNames() []string
}

// sendResultMsg reports a finished send.
type sendResultMsg struct {
	label string
	frame protocol.Frame
	err   error
}

// consoleKeyMap defines key bindings for the preset list
type consoleKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Send   key.Binding
	Off    key.Binding
	Custom key.Binding
	Filter key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k consoleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Send, k.Off, k.Custom, k.Filter, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k consoleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Send},
		{k.Off, k.Custom, k.Filter, k.Quit},
	}
}

// inputKeyMap defines key bindings while typing a light state
type inputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// presetItem wraps a preset for use with bubbles/list
type presetItem struct {
	name string
	cmd  protocol.Command
}

// FilterValue implements list.Item
func (p presetItem) FilterValue() string {
	return p.name + " " + p.cmd.Animation.String() + " " + p.cmd.Color1.String()
}

// Description summarizes the light state in one line.
func (p presetItem) Description() string {
	c := p.cmd
	if c.Animation == protocol.AnimationOff {
		return "off"
	}
	parts := []string{c.Animation.String(), ui.ColorSwatch(c.Color1)}
	switch c.Animation {
	case protocol.AnimationTwoColorFlash, protocol.AnimationHalfHalf,
		protocol.AnimationHalfHalfRotate, protocol.AnimationChase:
		parts = append(parts, ui.ColorSwatch(c.Color2))
	}
	if c.Audible != protocol.AudibleOff {
		parts = append(parts, "buzzer "+c.Audible.String())
	}
	return strings.Join(parts, "  ")
}

// presetDelegate renders each preset as a name line and a summary line
type presetDelegate struct{}

func (presetDelegate) Height() int                               { return 2 }
func (presetDelegate) Spacing() int                              { return 1 }
func (presetDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (presetDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(presetItem)
	if !ok {
		return
	}
	name := ItemStyle.Render("  " + p.name)
	if index == m.Index() {
		name = SelectedItemStyle.Render("→ " + p.name)
	}
	_, _ = fmt.Fprintf(w, "%s\n    %s", name, SubtitleStyle.Render(p.Description()))
}

// ConsoleModel is the console screen state
type ConsoleModel struct {
	sender  serial.Sender
	port    string
	timeout time.Duration

	PresetList list.Model
	Input      textinput.Model
	Spinner    spinner.Model
	Help       help.Model
	Keys       consoleKeyMap
	InputKeys  inputKeyMap

	Width    int
	Height   int
	Entering bool // typing a light state
	Sending  bool // a send is in flight
	Sent     int  // successful sends
	Status   string
	LastErr  error
	Frame    protocol.Frame // last frame written
}

// NewConsoleModel creates a console that writes through sender. port is
// only displayed.
func NewConsoleModel(presets Presets, sender serial.Sender, port string) ConsoleModel {
	var items []list.Item
	for _, name := range presets.PresetNames() {
		cmd, err := presets.Preset(name)
		if err != nil {
			continue
		}
		items = append(items, presetItem{name: name, cmd: cmd})
	}

	l := list.New(items, presetDelegate{}, ui.MinTerminalWidth, 20)
	l.Title = "Presets"
	l.Styles.Title = TitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	in := textinput.New()
	in.Placeholder = "steady sky_blue high"
	in.CharLimit = 120
	in.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ConsoleModel{
		sender:     sender,
		port:       port,
		timeout:    DefaultSendTimeout,
		PresetList: l,
		Input:      in,
		Spinner:    s,
		Help:       help.New(),
		Keys: consoleKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Send: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "send"),
			),
			Off: key.NewBinding(
				key.WithKeys("o"),
				key.WithHelp("o", "light off"),
			),
			Custom: key.NewBinding(
				key.WithKeys("c"),
				key.WithHelp("c", "type a state"),
			),
			Filter: key.NewBinding(
				key.WithKeys("/"),
				key.WithHelp("/", "filter"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		InputKeys: inputKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "send"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// WithSendTimeout changes the per-send timeout.
func (m ConsoleModel) WithSendTimeout(d time.Duration) ConsoleModel {
	m.timeout = d
	return m
}

// Init implements tea.Model
func (m ConsoleModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Entering {
			return m.updateInput(msg)
		}
		if m.PresetList.SettingFilter() {
			m.PresetList, cmd = m.PresetList.Update(msg)
			return m, cmd
		}
		return m.updateList(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.PresetList.SetWidth(msg.Width - 6)
		m.PresetList.SetHeight(max(msg.Height-12, 6))
		return m, nil

	case sendResultMsg:
		m.Sending = false
		m.LastErr = msg.err
		if msg.err != nil {
			m.Status = fmt.Sprintf("%s failed", msg.label)
			logging.Warn("Console send failed", zap.String("state", msg.label), zap.Error(msg.err))
		} else {
			m.Sent++
			m.Frame = msg.frame
			m.Status = fmt.Sprintf("sent %s", msg.label)
		}
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once the send has completed
		if !m.Sending {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	m.PresetList, cmd = m.PresetList.Update(msg)
	return m, cmd
}

// updateList handles keyboard input on the preset list
func (m ConsoleModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Send):
		if item, ok := m.PresetList.SelectedItem().(presetItem); ok {
			return m.send("preset "+item.name, item.cmd)
		}
		return m, nil

	case key.Matches(msg, m.Keys.Off):
		return m.send("off", protocol.OffCommand())

	case key.Matches(msg, m.Keys.Custom):
		m.Entering = true
		m.Input.SetValue("")
		return m, m.Input.Focus()
	}

	// Let the list handle navigation and filtering
	var cmd tea.Cmd
	m.PresetList, cmd = m.PresetList.Update(msg)
	return m, cmd
}

// updateInput handles keyboard input while typing a light state
func (m ConsoleModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.InputKeys.Cancel), msg.Type == tea.KeyCtrlC:
		m.Entering = false
		m.Input.Blur()
		return m, nil

	case key.Matches(msg, m.InputKeys.Confirm):
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		c, err := ParseState(text)
		if err != nil {
			// Stay in input mode so the text can be corrected
			m.LastErr = err
			m.Status = "invalid state"
			return m, nil
		}
		m.Entering = false
		m.Input.Blur()
		return m.send(text, c)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// send encodes c and starts writing it. Encoding errors are reported
// without touching the port.
func (m ConsoleModel) send(label string, c protocol.Command) (tea.Model, tea.Cmd) {
	if m.Sending {
		return m, nil
	}
	f, err := c.Frame()
	if err != nil {
		m.LastErr = err
		m.Status = fmt.Sprintf("%s not sent", label)
		return m, nil
	}

	m.Sending = true
	m.LastErr = nil
	m.Status = fmt.Sprintf("sending %s", label)
	return m, tea.Batch(m.Spinner.Tick, sendFrame(m.sender, m.timeout, label, f))
}

// sendFrame writes f off the UI goroutine.
func sendFrame(sender serial.Sender, timeout time.Duration, label string, f protocol.Frame) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sendResultMsg{label: label, frame: f, err: sender.Send(ctx, f)}
	}
}

// ParseState parses a typed light state: a mode name followed by its
// values, as accepted by 'tl50ctl send'.
func ParseState(text string) (protocol.Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return protocol.Command{}, fmt.Errorf("empty light state")
	}
	mode, ok := protocol.LookupMode(fields[0])
	if !ok {
		return protocol.Command{}, fmt.Errorf("unknown mode %q", fields[0])
	}
	return mode.Command(fields[1:])
}

// View renders the console
func (m ConsoleModel) View() string {
	var b strings.Builder

	if m.Entering {
		b.WriteString(TitleStyle.Render("Type a light state"))
		b.WriteString("\n\n  ")
		b.WriteString(m.Input.View())
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("  e.g. flash red high fast strobe, chase red high blue high slow clockwise"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.PresetList.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	keys := help.KeyMap(m.Keys)
	if m.Entering {
		keys = m.InputKeys
	}
	return RenderApplicationContainer(b.String(), m.Help.View(keys), m.port, m.Width, m.Height)
}

func (m ConsoleModel) renderStatus() string {
	switch {
	case m.Sending:
		return "  " + m.Spinner.View() + " " + m.Status
	case m.LastErr != nil:
		return StatusErrorStyle.Render("  "+ui.FailureMarker+" "+m.Status) + "\n  " + m.LastErr.Error()
	case m.Status != "":
		return StatusOKStyle.Render("  "+ui.SuccessMarker+" "+m.Status) + "\n  " + SubtitleStyle.Render(m.Frame.Hex())
	default:
		return SubtitleStyle.Render("  nothing sent yet")
	}
}

// Summary describes the session for printing after the console exits.
func (m ConsoleModel) Summary() string {
	if m.Sent == 0 {
		return "No frames sent."
	}
	return fmt.Sprintf("%d frame(s) sent, last: %s", m.Sent, m.Frame.Hex())
}

// Run starts the console full-screen and returns the final model.
func Run(m ConsoleModel) (ConsoleModel, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	if cm, ok := final.(ConsoleModel); ok {
		return cm, nil
	}
	return m, nil
}
