package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/mediavault/internal/auth"
	"github.com/johanforsgren/mediavault/internal/domain"
	"github.com/johanforsgren/mediavault/internal/export"
	"github.com/johanforsgren/mediavault/internal/gallery"
	"github.com/johanforsgren/mediavault/internal/logger"
	"github.com/johanforsgren/mediavault/internal/provider/common"
	"github.com/johanforsgren/mediavault/internal/selection"
	"github.com/johanforsgren/mediavault/internal/ui/components"
	"github.com/johanforsgren/mediavault/internal/ui/views"
)

type ViewState int

const (
	ViewConnect ViewState = iota
	ViewGallery
	ViewDownloads
)

func (s ViewState) String() string {
	switch s {
	case ViewGallery:
		return "Gallery"
	case ViewDownloads:
		return "Downloads"
	default:
		return "Connect"
	}
}

// Session is the part of the session manager the UI drives.
type Session interface {
	domain.CredentialSource
	BeginAuthorization(ctx context.Context) error
	SetResultCallback(func(auth.AuthorizationResult))
	IsPending() bool
	Disconnect()
}

const eventBuffer = 16

type Model struct {
	state       ViewState
	width       int
	height      int
	helpVisible bool

	topBar        *components.TopBarModel
	statusBar     *components.StatusBarModel
	commandBar    *components.CommandBarModel
	connectView   *views.ConnectViewModel
	galleryView   *views.GalleryViewModel
	downloadsView *views.DownloadsViewModel
	logsView      *views.LogsViewModel

	session   Session
	provider  domain.MediaProvider
	gallery   *gallery.Gallery
	selection *selection.Set
	exporter  export.Exporter

	// events carries results produced off the UI goroutine by callbacks.
	events          chan tea.Msg
	ctx             context.Context
	commandRegistry *CommandRegistry
}

func NewModel(session Session, provider domain.MediaProvider, exporter export.Exporter) Model {
	m := Model{
		state:           ViewConnect,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		connectView:     views.NewConnectView(),
		galleryView:     views.NewGalleryView(),
		downloadsView:   views.NewDownloadsView(),
		logsView:        views.NewLogsView(),
		session:         session,
		provider:        provider,
		gallery:         gallery.New(provider),
		selection:       selection.New(),
		exporter:        exporter,
		events:          make(chan tea.Msg, eventBuffer),
		ctx:             context.Background(),
		commandRegistry: NewCommandRegistry(),
	}

	events := m.events
	session.SetResultCallback(func(result auth.AuthorizationResult) {
		events <- AuthResultMsg{result: result}
	})
	exporter.SetUpdateCallback(func(task *export.Task) {
		events <- ExportUpdateMsg{task: task}
	})

	m.galleryView.SetSelectionFunc(m.selection.IsSelected)
	m.commandBar.SetCommands(m.commandRegistry.CommandNames(), m.commandRegistry.HasCommand)
	m.syncSession()
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

// waitForEvent delivers the next callback result as a message.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) isInInputMode() bool {
	return m.commandBar.IsActive() || m.logsView.IsActive() || m.galleryView.IsFiltering()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.connectView.SetSize(msg.Width, msg.Height)
		m.galleryView.SetSize(msg.Width, msg.Height-topBarHeight)
		m.downloadsView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case AuthStartedMsg:
		m.syncSession()
		m.statusBar.SetMessage("Complete sign-in in your browser", false)
		return m, nil

	case AuthResultMsg:
		next, cmd := m.handleAuthResult(msg.result)
		return next, tea.Batch(waitForEvent(m.events), cmd)

	case MediaLoadedMsg:
		return m.handleMediaLoaded(msg)

	case ExportUpdateMsg:
		m.handleExportUpdate(msg.task)
		return m, waitForEvent(m.events)

	case ErrorMsg:
		m.syncSession()
		m.statusBar.SetMessage(common.ExtractErrorMessage(msg.err), true)
		return m, nil
	}

	if m.state == ViewDownloads {
		return m, m.downloadsView.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			return m.handleCommand()
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		default:
			return m, m.commandBar.Update(msg)
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	if m.galleryView.IsFiltering() {
		switch key {
		case "enter", "esc":
			m.galleryView.ApplyFilter()
			return m, nil
		default:
			return m, m.galleryView.Update(msg)
		}
	}

	if newModel, cmd, handled := m.commandRegistry.HandleKey(m, key); handled {
		return newModel, cmd
	}

	if m.state == ViewGallery {
		return m, m.galleryView.Update(msg)
	}
	return m, nil
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Value()
	m.commandBar.Deactivate()

	name, args := ParseCommand(input)
	if name == "" {
		return m, nil
	}

	logger.Log("UI: Executing command: %s %v", name, args)
	return m.commandRegistry.ExecuteCommand(m, name, args)
}

func (m Model) startAuthorization() (Model, tea.Cmd) {
	m.connectView.SetNotice("")
	session := m.session
	ctx := m.ctx
	return m, func() tea.Msg {
		if err := session.BeginAuthorization(ctx); err != nil {
			return ErrorMsg{err: err}
		}
		return AuthStartedMsg{}
	}
}

func (m Model) handleAuthResult(result auth.AuthorizationResult) (Model, tea.Cmd) {
	m.syncSession()

	switch {
	case result.HasCredential() && m.session.IsAuthenticated():
		m.statusBar.SetSuccess("Connected to Google Photos")
		return m.enterGallery()
	case result.Type == auth.ResultCancel:
		m.connectView.SetNotice("Sign-in was cancelled.")
		m.statusBar.SetMessage("Authorization cancelled", false)
	case result.Type == auth.ResultDismiss:
		m.connectView.SetNotice("Sign-in was not completed.")
		m.statusBar.SetMessage("Authorization dismissed", false)
	case result.Err != nil:
		m.connectView.SetNotice("Sign-in failed: " + result.Err.Error())
		m.statusBar.SetMessage("Authorization failed", true)
	default:
		m.connectView.SetNotice("Sign-in returned no access token.")
		m.statusBar.SetMessage("Authorization returned no token", false)
	}
	return m, nil
}

func (m Model) openGallery() (Model, tea.Cmd) {
	if !m.session.IsAuthenticated() {
		m.statusBar.SetMessage(common.ExtractErrorMessage(common.ErrNoCredential), true)
		return m, nil
	}
	return m.enterGallery()
}

// enterGallery mounts the gallery with an empty selection, loading the listing
// if none is present yet.
func (m Model) enterGallery() (Model, tea.Cmd) {
	m.state = ViewGallery
	m.selection.Clear()
	m.galleryView.Refresh()
	m.topBar.SetView(ViewGallery.String())
	m.updateShortcuts()
	m.updateCounts()

	switch m.gallery.Status() {
	case gallery.StatusIdle, gallery.StatusFailed:
		return m, m.loadMedia()
	}
	return m, nil
}

// leaveGallery unmounts the gallery; the selection does not survive.
func (m Model) leaveGallery(next ViewState) Model {
	m.selection.Clear()
	m.galleryView.Refresh()
	m.state = next
	m.topBar.SetView(next.String())
	m.syncSession()
	m.updateShortcuts()
	m.updateCounts()
	return m
}

// loadMedia starts a new listing request. A newer request supersedes this one.
// Selected ids that are missing from the new listing are dropped once it arrives.
func (m Model) loadMedia() tea.Cmd {
	generation := m.gallery.Begin()
	m.galleryView.SetLoading()
	m.updateCounts()

	credential, _ := m.session.Credential()
	g := m.gallery
	ctx := m.ctx

	logger.Log("UI: Loading media (generation %d)", generation)
	return func() tea.Msg {
		return MediaLoadedMsg{result: g.Fetch(ctx, generation, credential)}
	}
}

func (m Model) handleMediaLoaded(msg MediaLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.gallery.Apply(msg.result) {
		logger.Debug("UI: Dropping stale media result (generation %d)", msg.result.Generation)
		return m, nil
	}

	if err := m.gallery.Err(); err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			logger.LogAuth("Listing rejected the access token (HTTP %d), disconnecting", apiErr.StatusCode)
			m = m.dropSession()
			m.connectView.SetNotice("Your Google Photos session expired. Press c to sign in again.")
			m.statusBar.SetMessage("Session expired", true)
			return m, nil
		}

		m.selection.Clear()
		m.galleryView.SetError(common.ExtractErrorMessage(err))
		m.statusBar.SetMessage("Failed to load media", true)
		m.updateCounts()
		return m, nil
	}

	items := m.gallery.Items()
	m.selection.Retain(m.gallery.Contains)
	m.galleryView.SetItems(items)
	m.updateCounts()
	m.statusBar.SetMessage(fmt.Sprintf("Loaded %d media items", len(items)), false)
	return m, nil
}

func (m Model) startExport() (Model, tea.Cmd) {
	if m.state != ViewGallery {
		m.statusBar.SetMessage("Open the gallery to choose items to export", true)
		return m, nil
	}
	if !m.selection.CanExport() {
		m.statusBar.SetMessage("Select at least one item to export", true)
		return m, nil
	}

	task, err := m.exporter.Start(m.ctx, m.selection.IDs())
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}

	m = m.leaveGallery(ViewDownloads)
	m.statusBar.SetMessage(fmt.Sprintf("Exporting %d item(s)...", len(task.ItemIDs)), false)
	return m, m.downloadsView.Start(task)
}

func (m Model) handleExportUpdate(task *export.Task) {
	if !m.downloadsView.SetTask(task) {
		return
	}
	switch task.Status {
	case export.TaskStatusCompleted:
		m.statusBar.SetSuccess("Export complete: " + task.FileName)
	case export.TaskStatusCancelled:
		m.statusBar.SetMessage("Export cancelled", false)
	}
}

func (m Model) disconnect() (Model, tea.Cmd) {
	m = m.dropSession()
	m.connectView.SetNotice("")
	m.statusBar.SetMessage("Disconnected", false)
	return m, nil
}

// dropSession forgets the credential and the listing fetched with it, so the
// next sign-in starts a fresh load.
func (m Model) dropSession() Model {
	m.session.Disconnect()
	m.gallery.Reset()
	m.galleryView.Reset()
	return m.leaveGallery(ViewConnect)
}

func (m Model) syncSession() {
	state := views.ConnectStateDisconnected
	switch {
	case m.session.IsAuthenticated():
		state = views.ConnectStateConnected
	case m.session.IsPending():
		state = views.ConnectStatePending
	}
	m.connectView.SetState(state)

	provider := ""
	if m.provider != nil {
		provider = string(m.provider.GetType())
	}
	m.topBar.SetSession(state == views.ConnectStateConnected, state == views.ConnectStatePending, provider)
}

func (m Model) updateCounts() {
	m.topBar.SetCounts(len(m.gallery.Items()), m.selection.Len())
	selected := ""
	if m.selection.Len() > 0 {
		selected = fmt.Sprintf("%d selected", m.selection.Len())
	}
	m.statusBar.SetRight(selected)
	m.commandBar.SetContext(selected)
}

func (m Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

const topBarHeight = 8

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.helpVisible:
		content = m.helpView()
	default:
		switch m.state {
		case ViewConnect:
			content = m.connectView.View()
		case ViewGallery:
			content = m.galleryView.View()
		case ViewDownloads:
			content = m.downloadsView.View()
		}
	}

	bottom := m.statusBar.View()
	if bar := m.commandBar.View(); bar != "" {
		bottom = bar
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.topBar.View(), content, bottom)
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Commands"))
	b.WriteString("\n")
	for _, def := range m.commandRegistry.commands {
		names := ":" + strings.Join(def.Names, ", :")
		b.WriteString(KeyStyle.Render(fmt.Sprintf("%-16s", names)) + " " + DescStyle.Render(def.Description) + "\n")
	}
	b.WriteString(HelpStyle.Render("?/Esc: Close"))
	return BorderStyle.Render(b.String())
}

type AuthStartedMsg struct{}

type AuthResultMsg struct {
	result auth.AuthorizationResult
}

type MediaLoadedMsg struct {
	result gallery.Result
}

type ExportUpdateMsg struct {
	task *export.Task
}

type ErrorMsg struct {
	err error
}
