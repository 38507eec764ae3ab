package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/mediavault/internal/logger"
)

type LogsViewModel struct {
	width  int
	height int
	offset int
	active bool
	follow bool
	logs   []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.follow = true
	m.Reload()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

// Reload pulls the latest entries; in follow mode it stays pinned to the tail.
func (m *LogsViewModel) Reload() {
	m.logs = logger.GetLogs()
	if m.follow {
		m.offset = m.maxOffset()
	}
}

func (m *LogsViewModel) visibleLines() int {
	return max(1, m.height-8)
}

func (m *LogsViewModel) maxOffset() int {
	return max(0, len(m.logs)-m.visibleLines())
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
		m.follow = false
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
		m.follow = m.offset == m.maxOffset()
	case "pgup":
		m.offset = max(0, m.offset-m.visibleLines())
		m.follow = false
	case "pgdown":
		m.offset = min(m.maxOffset(), m.offset+m.visibleLines())
		m.follow = m.offset == m.maxOffset()
	case "g", "home":
		m.offset = 0
		m.follow = false
	case "G", "end":
		m.offset = m.maxOffset()
		m.follow = true
	case "r":
		m.Reload()
	}

	return nil
}

func logColor(message string) string {
	switch {
	case strings.Contains(message, "[ERROR]"):
		return "#EF4444"
	case strings.Contains(message, "[AUTH]"):
		return "#A78BFA"
	case strings.Contains(message, "[HTTP]"):
		return "#60A5FA"
	case strings.Contains(message, "[DEBUG]"):
		return "#6B7280"
	case strings.Contains(message, "[FILE_WRITE]"):
		return "#F59E0B"
	case strings.Contains(message, "[FILE_OPEN]"):
		return "#10B981"
	default:
		return "#E5E7EB"
	}
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Logs (%d entries)", len(m.logs))))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		b.WriteString(helpStyle.Render("No logs yet"))
	} else {
		end := min(len(m.logs), m.offset+m.visibleLines())
		for _, entry := range m.logs[m.offset:end] {
			lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(logColor(entry.Message)))
			b.WriteString(lineStyle.Render(fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	scrollInfo := ""
	if len(m.logs) > m.visibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(len(m.logs), m.offset+m.visibleLines()), len(m.logs))
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | r: Refresh | Esc: Close%s", scrollInfo)))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(max(10, m.width-4))

	return boxStyle.Render(b.String())
}
