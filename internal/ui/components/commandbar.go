package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommandBarModel is the ':' prompt. While typing it flags unknown commands
// and keeps the selection count visible, since it replaces the status bar.
type CommandBarModel struct {
	textInput textinput.Model
	width     int
	active    bool
	names     []string
	known     func(string) bool
	context   string
}

func NewCommandBar() *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.ShowSuggestions = true

	return &CommandBarModel{
		textInput: ti,
	}
}

// SetCommands registers the names offered as tab completions and the lookup
// used to validate what is typed. known may be nil, in which case only the
// completion names are accepted.
func (m *CommandBarModel) SetCommands(names []string, known func(string) bool) {
	m.names = names
	m.known = known

	suggestions := make([]string, 0, len(names))
	for _, name := range names {
		suggestions = append(suggestions, ":"+name)
	}
	m.textInput.SetSuggestions(suggestions)
}

// SetContext sets the label shown at the right edge, e.g. "3 selected".
func (m *CommandBarModel) SetContext(label string) {
	m.context = label
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 40 {
		m.textInput.Width = width - 40
	} else if width > 10 {
		m.textInput.Width = width - 10
	}
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.textInput.Focus()
	m.textInput.SetValue(":")
	m.textInput.CursorEnd()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.textInput.Value()
}

// Hint describes the command being typed. The second value is true when the
// name matches no command and no completion.
func (m *CommandBarModel) Hint() (string, bool) {
	name := typedCommand(m.textInput.Value())
	switch {
	case name == "":
		return "tab to complete", false
	case m.isKnown(name):
		return "enter to run", false
	}

	var matches []string
	for _, n := range m.names {
		if strings.HasPrefix(n, name) {
			matches = append(matches, n)
		}
	}
	if len(matches) > 0 {
		return strings.Join(matches, " | "), false
	}
	return "unknown command", true
}

func (m *CommandBarModel) isKnown(name string) bool {
	if m.known != nil {
		return m.known(name)
	}
	for _, n := range m.names {
		if n == name {
			return true
		}
	}
	return false
}

func typedCommand(value string) string {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(value), ":"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	hint, isErr := m.Hint()
	hintColor := lipgloss.Color("#6B7280")
	if isErr {
		hintColor = lipgloss.Color("#EF4444")
	}
	right := lipgloss.NewStyle().Foreground(hintColor).Italic(true).Render(hint)
	if m.context != "" {
		right += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render(m.context)
	}

	left := " " + m.textInput.View()
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return style.Render(left + strings.Repeat(" ", gap) + right)
}
