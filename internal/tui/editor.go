// Package tui is the interactive terminal editor for a single gradient.
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yacobolo/gradgen/internal/clipboard"
	"github.com/yacobolo/gradgen/internal/color"
	"github.com/yacobolo/gradgen/internal/gradient"
	"github.com/yacobolo/gradgen/internal/preview"
)

const (
	statusTimeout = 3 * time.Second
	sidebarWidth  = 34
	swatchRows    = 6

	positionStep  = 1
	positionJump  = 10
	angleStep     = 5
	smoothStep    = 5
	hueStep       = 10
	copySucceeded = "CSS code copied to clipboard"
)

// Copier is what the editor needs from the clipboard package.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

type resultMsg struct{ result gradient.Result }

type copiedMsg struct {
	method clipboard.Method
	err    error
}

type clearStatusMsg struct{ id int }

// Model is the bubbletea model wrapping a gradient.Editor.
type Model struct {
	editor *gradient.Editor
	copier Copier

	updates     chan gradient.Result
	unsubscribe func()

	result   gradient.Result
	selected int

	input   textinput.Model
	editing bool
	sidebar bool

	status    string
	statusErr bool
	statusID  int

	width    int
	height   int
	quitting bool
}

// New builds a model over editor. It subscribes to the editor's broadcaster;
// call Close when done to unsubscribe.
func New(editor *gradient.Editor, copier Copier) Model {
	ti := textinput.New()
	ti.Placeholder = "any CSS color, e.g. #ff5f6d or hsl(200 80% 50%)"
	ti.CharLimit = 64
	ti.Width = 28

	updates := make(chan gradient.Result, 1)
	unsubscribe := editor.Subscribe(func(r gradient.Result) { offerLatest(updates, r) })

	return Model{
		editor:      editor,
		copier:      copier,
		updates:     updates,
		unsubscribe: unsubscribe,
		result:      editor.Result(),
		input:       ti,
		sidebar:     true,
	}
}

// Close removes the model's broadcaster subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run starts the editor full screen and blocks until the user quits.
func Run(editor *gradient.Editor, copier Copier) error {
	m := New(editor, copier)
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

// offerLatest replaces any unread result in ch with r
func offerLatest(ch chan gradient.Result, r gradient.Result) {
	for {
		select {
		case ch <- r:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func waitForResult(ch <-chan gradient.Result) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: <-ch}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForResult(m.updates),
		func() tea.Msg {
			m.editor.Refresh()
			return nil
		},
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		m.result = msg.result
		return m, waitForResult(m.updates)

	case copiedMsg:
		if msg.err != nil {
			return m.notify(msg.err.Error(), true)
		}
		return m.notify(fmt.Sprintf("%s (%s)", copySucceeded, msg.method), false)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	stops := m.editor.Stops()
	m.selected = max(0, min(m.selected, len(stops)-1))

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(stops)-1 {
			m.selected++
		}
		return m, nil

	case "K":
		return m.move(stops, -1)

	case "J":
		return m.move(stops, 1)

	case "left", "h":
		return m.nudgePosition(stops, -positionStep)

	case "right", "l":
		return m.nudgePosition(stops, positionStep)

	case "shift+left", "H":
		return m.nudgePosition(stops, -positionJump)

	case "shift+right", "L":
		return m.nudgePosition(stops, positionJump)

	case "a":
		added, err := m.editor.AddStop()
		if err != nil {
			return m.notify(fmt.Sprintf("Cannot add stop: %v", err), true)
		}
		m.selected = len(stops)
		return m.notify("Added stop "+added.Color, false)

	case "x", "delete", "backspace":
		if err := m.editor.RemoveStop(stops[m.selected].ID); err != nil {
			return m.notify(fmt.Sprintf("Cannot remove stop: %v", err), true)
		}
		m.selected = max(0, min(m.selected, len(stops)-2))
		return m, nil

	case "enter", "e":
		m.editing = true
		m.input.SetValue(stops[m.selected].Color)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case "<", ",":
		return m.rotateHue(stops, -hueStep)

	case ">", ".":
		return m.rotateHue(stops, hueStep)

	case "t":
		return m.applied(m.editor.SetType(m.editor.Params().Type.Next()))

	case "[":
		return m.applied(m.editor.SetAngle(m.editor.Params().Angle - angleStep))

	case "]":
		return m.applied(m.editor.SetAngle(m.editor.Params().Angle + angleStep))

	case "-":
		return m.applied(m.editor.SetSmoothness(m.editor.Params().Smoothness - smoothStep))

	case "+", "=":
		return m.applied(m.editor.SetSmoothness(m.editor.Params().Smoothness + smoothStep))

	case "s":
		m.sidebar = !m.sidebar
		return m, nil

	case "c", "y":
		return m, m.copy()
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil

	case "enter":
		stops := m.editor.Stops()
		value := strings.TrimSpace(m.input.Value())
		if err := m.editor.SetColor(stops[m.selected].ID, value); err != nil {
			return m.notify(fmt.Sprintf("Invalid color %q", value), true)
		}
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// move swaps the selected stop with its neighbour in direction dir and
// re-spreads positions.
func (m Model) move(stops []gradient.ColorStop, dir int) (tea.Model, tea.Cmd) {
	target := m.selected + dir
	if target < 0 || target >= len(stops) {
		return m, nil
	}
	if err := m.editor.Reorder(stops[m.selected].ID, stops[target].ID); err != nil {
		return m.notify(err.Error(), true)
	}
	m.selected = target
	return m, nil
}

func (m Model) nudgePosition(stops []gradient.ColorStop, delta float64) (tea.Model, tea.Cmd) {
	s := stops[m.selected]
	return m.applied(m.editor.SetPosition(s.ID, math.Round(s.Position+delta)))
}

func (m Model) rotateHue(stops []gradient.ColorStop, delta float64) (tea.Model, tea.Cmd) {
	s := stops[m.selected]
	hsv := color.HexToHSV(s.Color)
	hsv.H = math.Mod(hsv.H+delta+360, 360)
	return m.applied(m.editor.SetColor(s.ID, color.HSVToHex(hsv)))
}

// applied turns a failed mutation into an error notification.
func (m Model) applied(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m.notify(err.Error(), true)
	}
	return m, nil
}

// notify shows message in the status bar and schedules its removal.
func (m *Model) notify(message string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusID++
	m.status = message
	m.statusErr = isErr
	id := m.statusID
	return *m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func (m Model) copy() tea.Cmd {
	text := m.editor.Result().Declaration
	copier := m.copier
	return func() tea.Msg {
		if copier == nil {
			return copiedMsg{err: clipboard.ErrCopyFailed}
		}
		method, err := copier.Copy(text)
		if err != nil && !errors.Is(err, clipboard.ErrCopyFailed) {
			err = fmt.Errorf("%w: %v", clipboard.ErrCopyFailed, err)
		}
		return copiedMsg{method: method, err: err}
	}
}

func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}

	params := m.editor.Params()
	header := titleStyle.Render("gradgen") + "  " + subtitleStyle.Render(string(params.Type))

	main := m.viewMain(params)
	body := main
	if m.sidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(params), " ", main)
	}

	sections := []string{header, body}
	if m.editing {
		sections = append(sections, inputFocusedStyle.Render(m.input.View()))
	}
	if line := m.viewStatus(); line != "" {
		sections = append(sections, line)
	}
	sections = append(sections, footer(m.width, m.bindings()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewMain(params gradient.Params) string {
	width := m.mainWidth()

	swatch, err := preview.Swatch(m.result, params, width, swatchRows)
	if err != nil {
		swatch = errorStyle.Render(err.Error())
	}

	lines := strings.Split(m.result.Declaration, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, max(1, width-4), "…")
	}
	code := codeStyle.Width(max(1, width-2)).Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, swatch, code)
}

func (m Model) viewSidebar(params gradient.Params) string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("Stops"))
	b.WriteByte('\n')
	for i, s := range m.editor.Stops() {
		row := fmt.Sprintf("%s %-9s %3s%%", chip(swatchHex(s.Color)), s.Color, color.FormatNumber(s.Position))
		if i == m.selected {
			row = selectedRowStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d stops", len(m.editor.Stops()), gradient.MaxStops)))
	b.WriteString("\n\n")

	if stops := m.editor.Stops(); m.selected < len(stops) {
		hsv := color.HexToHSV(stops[m.selected].Color)
		b.WriteString(labelStyle.Render("HSV "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%s° %s%% %s%%",
			color.FormatNumber(hsv.H),
			color.FormatNumber(math.Round(hsv.S*100)),
			color.FormatNumber(math.Round(hsv.V*100)))))
		b.WriteString("\n\n")
	}

	b.WriteString(labelStyle.Render("Type  "))
	b.WriteString(valueStyle.Render(string(params.Type)))
	b.WriteByte('\n')
	b.WriteString(labelStyle.Render("Angle "))
	angle := color.FormatNumber(params.Angle) + "°"
	if params.Type.UsesAngle() {
		b.WriteString(valueStyle.Render(angle))
	} else {
		b.WriteString(mutedStyle.Render(angle + " (unused)"))
	}
	b.WriteByte('\n')
	b.WriteString(labelStyle.Render("Smooth "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", params.Smoothness)))
	if params.Type.IsRepeating() {
		b.WriteByte('\n')
		b.WriteString(warningStyle.Render("tile " + color.FormatNumber(m.result.TileSize) + tileUnit(params.Type)))
	}

	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	style := successStyle
	if m.statusErr {
		style = errorStyle
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(style.Render(m.status))
}

func (m Model) bindings() []keyBinding {
	if m.editing {
		return []keyBinding{{"enter", "apply"}, {"esc", "cancel"}}
	}
	return []keyBinding{
		{"↑/↓", "select"},
		{"←/→", "position"},
		{"J/K", "move"},
		{"e", "color"},
		{"</>", "hue"},
		{"a/x", "add/remove"},
		{"t", "type"},
		{"[/]", "angle"},
		{"-/+", "smooth"},
		{"c", "copy"},
		{"s", "sidebar"},
		{"q", "quit"},
	}
}

// mainWidth is the width left for the swatch and code block
func (m Model) mainWidth() int {
	w := m.width
	if m.sidebar {
		w -= sidebarWidth + 3
	}
	return max(10, w)
}

func tileUnit(t gradient.Type) string {
	if t.IsConic() {
		return "deg"
	}
	return "px"
}

// swatchHex resolves a stop color for display, falling back to black.
func swatchHex(css string) string {
	c, err := color.ParseCSSColor(css)
	if err != nil {
		return "#000000"
	}
	return c.Hex()
}
