// Package tui paints a playback session in the terminal and feeds keyboard
// and mouse input back to the session controller.
package tui

import (
	"github.com/anisan-cli/playcore/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the session surface until the user quits or the session ends.
func Run(ctrl *session.Controller) error {
	bubble := newBubble(ctrl)

	cancel := ctrl.Subscribe(bubble.forward)
	defer cancel()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
