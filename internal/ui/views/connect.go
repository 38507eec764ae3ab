package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type ConnectState int

const (
	ConnectStateDisconnected ConnectState = iota
	ConnectStatePending
	ConnectStateConnected
)

type ConnectViewModel struct {
	width  int
	height int
	state  ConnectState
	notice string
}

func NewConnectView() *ConnectViewModel {
	return &ConnectViewModel{}
}

func (m *ConnectViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ConnectViewModel) SetState(state ConnectState) {
	m.state = state
}

func (m *ConnectViewModel) State() ConnectState {
	return m.state
}

// SetNotice shows a one-line note under the prompt, e.g. why the last attempt ended.
func (m *ConnectViewModel) SetNotice(notice string) {
	m.notice = notice
}

func (m *ConnectViewModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		MarginBottom(1)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString(titleStyle.Render("Connect to Google Photos"))
	b.WriteString("\n\n")

	switch m.state {
	case ConnectStatePending:
		b.WriteString(textStyle.Render("Waiting for you to finish signing in in your browser..."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("c: Restart sign-in | q: Quit"))
	case ConnectStateConnected:
		b.WriteString(textStyle.Render("Connected. Your library is ready to browse."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("g: Open gallery | x: Disconnect | q: Quit"))
	default:
		b.WriteString(textStyle.Render("Media Vault needs read access to your Google Photos library."))
		b.WriteString("\n")
		b.WriteString(textStyle.Render("Press c to sign in with your browser."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("c: Connect | q: Quit"))
	}

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
