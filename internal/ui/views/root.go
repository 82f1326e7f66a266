package views

import (
	"github.com/Cyclone1070/warden/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State) string {
	sections := []string{RenderChat(s)}
	if s.Pending != nil {
		sections = append(sections, RenderApproval(s))
	} else {
		sections = append(sections, RenderInput(s))
	}
	sections = append(sections, RenderStatus(s))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
