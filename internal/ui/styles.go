package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor    = lipgloss.Color("#7C3AED")
	mutedColor      = lipgloss.Color("#6B7280")
	foregroundColor = lipgloss.Color("#F9FAFB")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	DescStyle = lipgloss.NewStyle().
			Foreground(foregroundColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
