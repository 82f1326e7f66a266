package views

import "github.com/charmbracelet/lipgloss"

// Transcript
var (
	UserMessageStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle()
	ToolMessageStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ToolErrorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ErrorMessageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	InfoMessageStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// Diffs
var (
	DiffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	DiffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	DiffHunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Input and confirmation
var (
	InputStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	ApprovalBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 1)
	ApprovalTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	KeyHintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Status bar
var (
	StatusDefaultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	StatusThinkingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	StatusExecutingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	StatusApprovalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	StatusDoneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	StatusErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	StatusModelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
