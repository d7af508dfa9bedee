package main

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D7FF")
	accentColor    = lipgloss.Color("#FF00FF")
	warningColor   = lipgloss.Color("#FFA500")
	errorColor     = lipgloss.Color("#FF4B4B")
	mutedColor     = lipgloss.Color("#666666")
	borderColor    = lipgloss.Color("#383838")

	// Header styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1)

	pathStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Grid cell styles
	addrStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	cellStyle = lipgloss.NewStyle()

	gapStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cursorStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	selectionStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3A3A5C"))

	matchStyle = lipgloss.NewStyle().
			Background(warningColor).
			Foreground(lipgloss.Color("#000000"))

	editedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	// Inspector styles
	inspectorLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(8)

	inspectorValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA"))

	// Status bar styles
	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	statusCountStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	// Prompt styles
	searchPromptStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	// Help overlay styles
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Background(lipgloss.Color("#1A1A1A"))

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// Error styles
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
