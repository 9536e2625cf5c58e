package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/ipc"
)

var (
	connectedDot    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	disconnectedDot = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderStatusBar renders the compositor connection status bar.
func renderStatusBar(connected bool, status *ipc.StatusData, lastError string, width int) string {
	var text string
	switch {
	case connected && status != nil:
		parts := []string{
			connectedDot + " connected",
			fmt.Sprintf("windows:%d", status.Windows),
			fmt.Sprintf("focused:%d", status.Focused),
			"gesture:" + status.Gesture,
			fmt.Sprintf("draws:%d", status.Draws),
		}
		text = strings.Join(parts, "  ")
	case lastError != "":
		text = disconnectedDot + " " + lastError
	default:
		text = disconnectedDot + " connecting"
	}
	return statusBarStyle.Width(width).Render(text)
}

// renderHelpBar renders the bottom keybinding bar, or message when set.
func renderHelpBar(message string, width int) string {
	if message != "" {
		return helpBarStyle.Width(width).Render(messageStyle.Render(message))
	}
	help := "↑/↓: select  r: raise  l: lower  a: activate  t: top  b: bottom  g: refresh  q: quit"
	return helpBarStyle.Width(width).Render(help)
}
