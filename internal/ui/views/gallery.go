package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/johanforsgren/mediavault/internal/domain"
)

type GalleryStatus int

const (
	GalleryIdle GalleryStatus = iota
	GalleryLoading
	GalleryLoaded
	GalleryFailed
)

type GalleryViewModel struct {
	table table.Model

	// Source data (never mutated by filtering)
	sourceItems []domain.MediaItem

	// Derived view data
	visibleItems []domain.MediaItem
	isSelected   func(id string) bool

	status  GalleryStatus
	errText string

	width       int
	height      int
	filterInput textinput.Model
	filtering   bool
	filterText  string
}

func NewGalleryView() *GalleryViewModel {
	t := table.New(
		table.WithColumns(galleryColumns(40)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F59E0B")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Filter by file name, type, or id..."
	ti.CharLimit = 100

	return &GalleryViewModel{
		table:       t,
		filterInput: ti,
		isSelected:  func(string) bool { return false },
	}
}

func galleryColumns(urlWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "", Width: 2},
		{Title: "File", Width: 28},
		{Title: "Type", Width: 12},
		{Title: "Created", Width: 16},
		{Title: "URL", Width: urlWidth},
	}
}

func (m *GalleryViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-10))

	const fixed = 3 + 2 + 28 + 12 + 16 + 6
	m.table.SetColumns(galleryColumns(clamp(width-fixed, 20, 120)))
	m.rebuild()
}

// SetSelectionFunc sets the membership test used to draw checkboxes.
func (m *GalleryViewModel) SetSelectionFunc(isSelected func(id string) bool) {
	m.isSelected = isSelected
	m.rebuild()
}

func (m *GalleryViewModel) SetLoading() {
	m.status = GalleryLoading
	m.errText = ""
}

func (m *GalleryViewModel) SetItems(items []domain.MediaItem) {
	m.status = GalleryLoaded
	m.errText = ""
	m.sourceItems = append([]domain.MediaItem(nil), items...)
	m.rebuild()
	m.table.SetCursor(0)
}

func (m *GalleryViewModel) SetError(message string) {
	m.status = GalleryFailed
	m.errText = message
	m.sourceItems = nil
	m.rebuild()
}

func (m *GalleryViewModel) Reset() {
	m.status = GalleryIdle
	m.errText = ""
	m.sourceItems = nil
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.rebuild()
}

func (m *GalleryViewModel) Status() GalleryStatus {
	return m.status
}

// Refresh redraws the checkbox column after the selection changed.
func (m *GalleryViewModel) Refresh() {
	m.rebuild()
}

// source → filter → visible → rows
func (m *GalleryViewModel) rebuild() {
	m.visibleItems = m.filterItems(m.sourceItems)
	m.table.SetRows(m.itemsToRows(m.visibleItems))
}

func (m *GalleryViewModel) filterItems(items []domain.MediaItem) []domain.MediaItem {
	if m.filterText == "" {
		return items
	}

	filter := strings.ToLower(m.filterText)
	var out []domain.MediaItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Filename), filter) ||
			strings.Contains(strings.ToLower(item.MimeType), filter) ||
			strings.Contains(strings.ToLower(item.ID), filter) {
			out = append(out, item)
		}
	}
	return out
}

func (m *GalleryViewModel) itemsToRows(items []domain.MediaItem) []table.Row {
	rows := make([]table.Row, len(items))
	urlWidth := m.table.Columns()[5].Width

	for i, item := range items {
		check := "[ ]"
		if m.isSelected(item.ID) {
			check = "[x]"
		}

		name := item.Filename
		if name == "" {
			name = item.ID
		}

		url := item.DisplayURL()
		if url == "" {
			url = "(no preview)"
		}

		rows[i] = table.Row{
			check,
			mediaKindIndicator(item),
			truncateString(name, 28),
			truncateString(item.MimeType, 12),
			formatCreated(item.CreationTime),
			truncateString(url, urlWidth),
		}
	}
	return rows
}

func (m *GalleryViewModel) SelectedItem() *domain.MediaItem {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visibleItems) {
		return nil
	}
	return &m.visibleItems[idx]
}

func (m *GalleryViewModel) VisibleCount() int {
	return len(m.visibleItems)
}

func (m *GalleryViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filterText = m.filterInput.Value()
		m.rebuild()
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

func (m *GalleryViewModel) ActivateFilter() {
	m.filtering = true
	m.filterInput.SetValue(m.filterText)
	m.filterInput.Focus()
}

func (m *GalleryViewModel) ApplyFilter() {
	m.filterText = m.filterInput.Value()
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *GalleryViewModel) ClearFilter() {
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *GalleryViewModel) IsFiltering() bool {
	return m.filtering
}

func (m *GalleryViewModel) GetFilterText() string {
	return m.filterText
}

func (m *GalleryViewModel) View() string {
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)
	help := mutedStyle.Render("\n" + m.helpText())

	switch m.status {
	case GalleryIdle:
		return mutedStyle.Render("Nothing loaded yet.") + help
	case GalleryLoading:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Render("Loading media...") + help
	case GalleryFailed:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
		return errStyle.Render("Failed to load media: "+m.errText) + "\n" +
			mutedStyle.Render("Press r to retry.") + help
	}

	if len(m.sourceItems) == 0 {
		return mutedStyle.Render("No media items found in your library.") + help
	}

	content := m.colorizeTableRows(m.table.View())
	if m.filtering {
		filterStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
		content += "\n" + filterStyle.Render("Filter: ") + m.filterInput.View()
	} else if m.filterText != "" {
		content += "\n" + mutedStyle.Render(fmt.Sprintf("Filter: %q (%d of %d)", m.filterText, len(m.visibleItems), len(m.sourceItems)))
	}

	return content + help
}

func (m *GalleryViewModel) colorizeTableRows(tableOutput string) string {
	lines := strings.Split(tableOutput, "\n")
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#86EFAC"))

	for i, line := range lines {
		if strings.Contains(line, "[x]") {
			lines[i] = selectedStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *GalleryViewModel) helpText() string {
	if m.filtering {
		return "Type to filter | Enter/Esc: Close"
	}
	if m.filterText != "" {
		return "Space: Select | d: Export | r: Reload | /: Filter | Esc: Clear filter | q: Back"
	}
	return "Space: Select | d: Export | r: Reload | /: Filter | q: Back"
}

func mediaKindIndicator(item domain.MediaItem) string {
	switch {
	case item.IsVideo():
		return "▶"
	case item.IsImage():
		return "▣"
	}
	return "·"
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncateString shortens s to at most maxLen terminal cells. Wide runes
// count as two cells and are never split.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
