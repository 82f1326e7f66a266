package views

import (
	"fmt"

	"github.com/Cyclone1070/warden/internal/ui/models"
	"github.com/Cyclone1070/warden/internal/ui/services"
	"github.com/charmbracelet/lipgloss"
)

// RenderApproval renders the confirmation box for the pending call.
func RenderApproval(s models.State) string {
	if s.Pending == nil {
		return ""
	}
	req := *s.Pending

	sections := []string{ApprovalTitleStyle.Render(fmt.Sprintf("Allow %s?", req.Name))}
	if req.Detail != "" {
		sections = append(sections, req.Detail)
	}
	if preview := services.RenderApprovalPreview(req); preview != "" {
		sections = append(sections, "", colorizeDiff(preview))
	}
	sections = append(sections, "", KeyHintStyle.Render("[y] once  [a] always this session  [n] cancel"))

	box := ApprovalBoxStyle
	if s.Width > 4 {
		box = box.Width(s.Width - 4)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
