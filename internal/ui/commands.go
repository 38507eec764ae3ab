package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to a handler in the views listed in AvailableIn.
type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     func(Model) (Model, tea.Cmd)
}

type CommandDef struct {
	Names       []string
	Description string
	Handler     func(Model, []string) (Model, tea.Cmd)
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
	commands    []*CommandDef
}

var allViews = []ViewState{ViewConnect, ViewGallery, ViewDownloads}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}

	r.keyBindings = []*KeyBinding{
		{Keys: []string{"ctrl+c"}, Description: "Quit", AvailableIn: allViews, Handler: handleForceQuit},
		{Keys: []string{":"}, Description: "Command", AvailableIn: allViews, Handler: handleCommandKey},
		{Keys: []string{"L"}, Description: "Logs", AvailableIn: allViews, Handler: handleLogsKey},
		{Keys: []string{"?"}, Description: "Help", AvailableIn: allViews, Handler: handleHelpKey},
		{Keys: []string{"q", "esc"}, Description: "Back/Quit", AvailableIn: allViews, Handler: handleQuitKey},
		{Keys: []string{"c"}, Description: "Connect", AvailableIn: []ViewState{ViewConnect}, Handler: handleConnectKey},
		{Keys: []string{"g", "enter"}, Description: "Open gallery", AvailableIn: []ViewState{ViewConnect}, Handler: handleOpenGalleryKey},
		{Keys: []string{"x"}, Description: "Disconnect", AvailableIn: []ViewState{ViewConnect}, Handler: handleDisconnectKey},
		{Keys: []string{" ", "space"}, Description: "Toggle selection", AvailableIn: []ViewState{ViewGallery}, Handler: handleToggleKey},
		{Keys: []string{"d"}, Description: "Export selected", AvailableIn: []ViewState{ViewGallery}, Handler: handleExportKey},
		{Keys: []string{"r"}, Description: "Reload", AvailableIn: []ViewState{ViewGallery}, Handler: handleReloadKey},
		{Keys: []string{"/"}, Description: "Filter", AvailableIn: []ViewState{ViewGallery}, Handler: handleFilterKey},
		{Keys: []string{"C"}, Description: "Clear selection", AvailableIn: []ViewState{ViewGallery}, Handler: handleClearKey},
		{Keys: []string{"x"}, Description: "Cancel export", AvailableIn: []ViewState{ViewDownloads}, Handler: handleCancelExportKey},
	}

	r.commands = []*CommandDef{
		{Names: []string{"q", "quit"}, Description: "Quit", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m, tea.Quit }},
		{Names: []string{"connect"}, Description: "Sign in to Google Photos", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m.startAuthorization() }},
		{Names: []string{"gallery", "g"}, Description: "Open the gallery", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m.openGallery() }},
		{Names: []string{"export"}, Description: "Export the selection", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m.startExport() }},
		{Names: []string{"logs"}, Description: "Show session logs", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleLogsKey(m) }},
		{Names: []string{"clear"}, Description: "Clear the selection", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleClearKey(m) }},
		{Names: []string{"disconnect"}, Description: "Forget the access token", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m.disconnect() }},
		{Names: []string{"h", "help"}, Description: "Show help", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleHelpKey(m) }},
	}

	return r
}

// ParseCommand splits ":name arg..." into its name and arguments.
func ParseCommand(input string) (string, []string) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, ":")
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
}

func (r *CommandRegistry) HandleKey(m Model, key string) (tea.Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

func (r *CommandRegistry) ExecuteCommand(m Model, name string, args []string) (tea.Model, tea.Cmd) {
	if def := r.findCommand(name); def != nil {
		return def.Handler(m, args)
	}
	m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s (try :help)", name), true)
	return m, nil
}

// HasCommand reports whether name or one of its aliases is registered.
func (r *CommandRegistry) HasCommand(name string) bool {
	return r.findCommand(name) != nil
}

func (r *CommandRegistry) findCommand(name string) *CommandDef {
	for _, def := range r.commands {
		for _, n := range def.Names {
			if n == name {
				return def
			}
		}
	}
	return nil
}

// CommandNames returns the long name of every command, sorted.
func (r *CommandRegistry) CommandNames() []string {
	names := make([]string, 0, len(r.commands))
	for _, def := range r.commands {
		name := def.Names[0]
		for _, n := range def.Names[1:] {
			if len(n) > len(name) {
				name = n
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if !binding.availableIn(state) || len(binding.AvailableIn) == len(allViews) {
			continue
		}
		key := binding.Keys[0]
		if key == " " {
			key = "space"
		}
		shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", key, binding.Description))
	}
	return append(shortcuts, "<:> Command", "<L> Logs")
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}

func handleForceQuit(m Model) (Model, tea.Cmd) {
	return m, tea.Quit
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleHelpKey(m Model) (Model, tea.Cmd) {
	m.helpVisible = !m.helpVisible
	return m, nil
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	if m.helpVisible {
		m.helpVisible = false
		return m, nil
	}

	switch m.state {
	case ViewGallery:
		if m.galleryView.GetFilterText() != "" {
			m.galleryView.ClearFilter()
			return m, nil
		}
		return m.leaveGallery(ViewConnect), nil
	case ViewDownloads:
		return m.enterGallery()
	}
	return m, tea.Quit
}

func handleConnectKey(m Model) (Model, tea.Cmd) {
	return m.startAuthorization()
}

func handleOpenGalleryKey(m Model) (Model, tea.Cmd) {
	return m.openGallery()
}

func handleDisconnectKey(m Model) (Model, tea.Cmd) {
	return m.disconnect()
}

func handleToggleKey(m Model) (Model, tea.Cmd) {
	item := m.galleryView.SelectedItem()
	if item == nil {
		return m, nil
	}
	m.selection.Toggle(item.ID)
	m.galleryView.Refresh()
	m.updateCounts()
	return m, nil
}

func handleExportKey(m Model) (Model, tea.Cmd) {
	return m.startExport()
}

func handleReloadKey(m Model) (Model, tea.Cmd) {
	return m, m.loadMedia()
}

func handleFilterKey(m Model) (Model, tea.Cmd) {
	m.galleryView.ActivateFilter()
	return m, nil
}

func handleClearKey(m Model) (Model, tea.Cmd) {
	m.selection.Clear()
	m.galleryView.Refresh()
	m.updateCounts()
	m.statusBar.SetMessage("Selection cleared", false)
	return m, nil
}

func handleCancelExportKey(m Model) (Model, tea.Cmd) {
	task := m.downloadsView.Task()
	if task == nil || !m.downloadsView.IsRunning() {
		return m, nil
	}
	if err := m.exporter.Cancel(task.ID); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
	}
	return m, nil
}
