package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width         int
	connected     bool
	pending       bool
	provider      string
	itemCount     int
	selectedCount int
	currentView   string
	shortcuts     []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetSession(connected, pending bool, provider string) {
	m.connected = connected
	m.pending = pending
	m.provider = provider
}

func (m *TopBarModel) SetCounts(items, selected int) {
	m.itemCount = items
	m.selectedCount = selected
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("Media Vault")

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	topSection := []string{titleLine, ""}

	const fixedRows = 4
	const contextColWidth = 40
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string
		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}
		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	return titleStyle.Width(m.width).Render(strings.Join(topSection, "\n"))
}

func (m *TopBarModel) buildContextInfo() []string {
	account := valueWhiteStyle.Render("not connected")
	switch {
	case m.connected:
		account = connectedStyle.Render("connected")
		if m.provider != "" {
			account += valueWhiteStyle.Render(fmt.Sprintf(" (%s)", m.provider))
		}
	case m.pending:
		account = valueWhiteStyle.Render("waiting for browser...")
	}

	viewName := m.currentView
	if viewName == "" {
		viewName = "Connect"
	}

	return []string{
		"🔑 " + titleOrangeStyle.Render("Account: ") + account,
		"🖼  " + titleOrangeStyle.Render("Items: ") + valueWhiteStyle.Render(fmt.Sprintf("%d", m.itemCount)),
		"✅ " + titleOrangeStyle.Render("Selected: ") + valueWhiteStyle.Render(fmt.Sprintf("%d", m.selectedCount)),
		"🎯 " + titleOrangeStyle.Render("View: ") + valueWhiteStyle.Render(viewName),
	}
}

func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formatted []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		line := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formatted = append(formatted, line)

		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	rows := 4
	if contextHeight > rows {
		rows = contextHeight
	}

	if len(formatted) <= rows {
		return formatted, nil, maxWidth
	}
	return formatted[:rows], formatted[rows:], maxWidth
}
