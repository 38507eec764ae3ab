package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/mediavault/internal/export"
)

type DownloadsViewModel struct {
	width   int
	height  int
	spinner spinner.Model
	task    *export.Task
}

func NewDownloadsView() *DownloadsViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	return &DownloadsViewModel{spinner: s}
}

func (m *DownloadsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Start shows task and returns the command that drives the spinner.
func (m *DownloadsViewModel) Start(task *export.Task) tea.Cmd {
	m.task = task
	return m.spinner.Tick
}

// SetTask records a status update. Updates for other tasks are ignored.
func (m *DownloadsViewModel) SetTask(task *export.Task) bool {
	if m.task == nil || task == nil || task.ID != m.task.ID {
		return false
	}
	m.task = task
	return true
}

func (m *DownloadsViewModel) Task() *export.Task {
	return m.task
}

func (m *DownloadsViewModel) IsRunning() bool {
	return m.task != nil && m.task.Status.IsActive()
}

func (m *DownloadsViewModel) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || !m.IsRunning() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *DownloadsViewModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString(titleStyle.Render("Downloads"))
	b.WriteString("\n\n")

	switch {
	case m.task == nil:
		b.WriteString(mutedStyle.Render("No export yet. Select items in the gallery and press d."))
	case m.task.Status.IsActive():
		b.WriteString(fmt.Sprintf("%s Preparing %d item(s)...", m.spinner.View(), len(m.task.ItemIDs)))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("x: Cancel | q: Back"))
	case m.task.Status == export.TaskStatusCompleted:
		successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		b.WriteString(successStyle.Render("Congratulations!"))
		b.WriteString("\n")
		b.WriteString("Your file has been successfully downloaded")
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.task.FileName))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("q: Back to gallery"))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Render("Export cancelled."))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("q: Back to gallery"))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2)

	return boxStyle.Render(b.String())
}
