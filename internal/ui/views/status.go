package views

import (
	"fmt"

	"github.com/Cyclone1070/warden/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar
func RenderStatus(s models.State) string {
	var icon string
	var style lipgloss.Style

	switch s.StatusPhase {
	case models.PhaseThinking:
		icon = s.Spinner.View()
		style = StatusThinkingStyle
	case models.PhaseExecuting:
		icon = s.Spinner.View()
		style = StatusExecutingStyle
	case models.PhaseApproval:
		icon = "?"
		style = StatusApprovalStyle
	case models.PhaseDone:
		icon = "✔"
		style = StatusDoneStyle
	case models.PhaseError:
		icon = "✘"
		style = StatusErrorStyle
	default:
		style = StatusDefaultStyle
	}

	status := "Ready"
	switch {
	case s.StatusMessage != "" && icon != "":
		status = fmt.Sprintf("%s %s", icon, s.StatusMessage)
	case s.StatusMessage != "":
		status = s.StatusMessage
	case icon != "":
		status = icon
	}

	left := style.Render(status)
	if s.CurrentModel == "" {
		return left
	}
	right := StatusModelStyle.Render(s.CurrentModel)

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + fmt.Sprintf("%*s", gap, "") + right
}
