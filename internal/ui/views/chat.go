package views

import (
	"strings"

	"github.com/Cyclone1070/warden/internal/ui/models"
	"github.com/Cyclone1070/warden/internal/ui/services"
)

// RenderChat renders the transcript viewport.
func RenderChat(s models.State) string {
	if len(s.Messages) == 0 {
		return InfoMessageStyle.Render("No messages yet. Type a message to start.")
	}
	return s.Viewport.View()
}

// FormatChatContent formats the transcript for the viewport.
func FormatChatContent(messages []models.Message, renderer services.MarkdownRenderer) string {
	var blocks []string
	for _, msg := range messages {
		blocks = append(blocks, formatMessage(msg, renderer))
	}
	return strings.Join(blocks, "\n\n")
}

func formatMessage(msg models.Message, renderer services.MarkdownRenderer) string {
	switch msg.Role {
	case models.RoleUser:
		return UserMessageStyle.Render("> " + msg.Content)
	case models.RoleAssistant:
		return AssistantMessageStyle.Render(services.RenderMarkdown(msg.Content, renderer))
	case models.RoleTool:
		style := ToolMessageStyle
		if msg.IsError {
			style = ToolErrorStyle
		}
		header := style.Render(msg.Content)
		body := services.RenderDisplay(msg.Display)
		if body == "" {
			return header
		}
		return header + "\n" + colorizeDiff(body)
	case models.RoleError:
		return ErrorMessageStyle.Render(msg.Content)
	default:
		return InfoMessageStyle.Render(msg.Content)
	}
}

func colorizeDiff(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			lines[i] = DiffAddedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = DiffRemovedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = DiffHunkStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
