package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	white   = lipgloss.Color("#E2E2E2")
	gray    = lipgloss.Color("#888888")
	muted   = lipgloss.Color("#555555")
	dimGray = lipgloss.Color("#444444")

	blue     = lipgloss.Color("#5FAFFF")
	darkBlue = lipgloss.Color("#1A2F40")

	green  = lipgloss.Color("#5FD787")
	yellow = lipgloss.Color("#FFD787")
	red    = lipgloss.Color("#FF8787")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(white)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(gray)

	labelStyle = lipgloss.NewStyle().
			Foreground(gray).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(white)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(yellow)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(white).
				Background(darkBlue).
				Bold(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimGray).
			Padding(0, 1)

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimGray).
			Foreground(white).
			Padding(0, 1)

	inputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(blue).
				Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(blue).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(muted)
)

// keyBinding is one entry of the footer help bar.
type keyBinding struct {
	key  string
	desc string
}

// footer renders key bindings separated by two spaces above a top rule.
func footer(width int, bindings []keyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = keyStyle.Render(b.key) + " " + keyDescStyle.Render(b.desc)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(dimGray).
		Render(strings.Join(parts, "  "))
}

// chip renders a two-cell block filled with hex.
func chip(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
