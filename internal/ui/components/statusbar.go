package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

type StatusBarModel struct {
	width   int
	message string
	kind    MessageKind
	right   string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.kind = MessageInfo
	if isError {
		m.kind = MessageError
	}
}

func (m *StatusBarModel) SetSuccess(message string) {
	m.message = message
	m.kind = MessageSuccess
}

// SetRight sets the text pinned to the right edge, e.g. the selection count.
func (m *StatusBarModel) SetRight(text string) {
	m.right = text
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.kind = MessageInfo
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) IsError() bool {
	return m.kind == MessageError
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	right := ""
	if m.right != "" {
		right = m.right + " "
	}

	avail := m.width - lipgloss.Width(right)
	if avail < 4 {
		avail = m.width
		right = ""
	}

	if w := lipgloss.Width(content); w > avail {
		runes := []rune(content)
		if avail > 3 && len(runes) > avail-3 {
			content = string(runes[:avail-3]) + "..."
		}
	} else if w < avail {
		content += strings.Repeat(" ", avail-w)
	}

	bgColor := lipgloss.Color("#374151")
	switch m.kind {
	case MessageError:
		bgColor = lipgloss.Color("#991B1B")
	case MessageSuccess:
		bgColor = lipgloss.Color("#065F46")
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor).
		Width(m.width)

	return style.Render(content + right)
}
