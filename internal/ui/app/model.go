package app

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	commandservice "attune/internal/modules/command/service"
	exportdomain "attune/internal/modules/export/domain"
	exportservice "attune/internal/modules/export/service"
	livedomain "attune/internal/modules/live/domain"
	livein "attune/internal/modules/live/port/in"
	searchdto "attune/internal/modules/search/dto"
	searchservice "attune/internal/modules/search/service"
	sessiondto "attune/internal/modules/session/dto"
	sessionin "attune/internal/modules/session/port/in"
	settingsdto "attune/internal/modules/settings/dto"
	settingsout "attune/internal/modules/settings/port/out"
	apperrors "attune/internal/platform/errors"
	"attune/internal/ui/components"
	"attune/internal/ui/theme"
	liveview "attune/internal/ui/views/live"
	sessionsview "attune/internal/ui/views/sessions"
)

// ─── messages from outside the event loop ────────────────────────────────────

// UpdateFrameMsg carries a push-channel frame into the program. Bootstrap
// subscribes to the channel and posts these via Program.Send, so ordering is
// preserved by the single event loop.
type UpdateFrameMsg struct{ Update livedomain.Update }

// ConnStateMsg mirrors the push channel's connection state.
type ConnStateMsg struct{ State livedomain.ConnState }

// ─── internal async messages ─────────────────────────────────────────────────

type refreshTickMsg struct{}

type sessionsRefreshedMsg struct{ err error }

type sessionCreatedMsg struct {
	session sessiondto.SessionOutput
	err     error
}

type sessionMutatedMsg struct {
	verb string
	err  error
}

type historyLoadedMsg struct {
	update livedomain.Update
	err    error
}

type debounceFiredMsg struct{ gen int }

type searchDoneMsg struct {
	hits    []searchdto.Hit
	applied bool
	err     error
}

type exportDoneMsg struct {
	preview string
	err     error
}

type exportActionMsg struct {
	status string
	err    error
}

type settingsLoadedMsg struct {
	settings settingsdto.Settings
	err      error
}

type settingsSavedMsg struct{ err error }

type emailDraftMsg struct {
	draft sessiondto.EmailDraftOutput
	err   error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Options carries the timing knobs and paths the model needs from config.
type Options struct {
	RefreshInterval time.Duration
	SearchDebounce  time.Duration
	DownloadDir     string
}

// Model is the root Bubble Tea model. All backend work runs as commands
// whose results re-enter Update; the model itself never blocks.
type Model struct {
	opts Options

	session  sessionin.Usecase
	live     livein.Channel
	search   *searchservice.Coordinator
	router   *commandservice.Router
	exporter *exportservice.Exporter
	settings settingsout.API

	liveView liveview.Model
	tabBar   sessionsview.TabBar

	palette      components.Palette
	searchBox    components.SearchBox
	exportDialog components.ExportDialog
	settingsForm components.SettingsForm
	prompt       components.Prompt

	sessions []sessiondto.SessionOutput
	status   string
	width    int
	height   int
}

func NewModel(
	session sessionin.Usecase,
	live livein.Channel,
	search *searchservice.Coordinator,
	router *commandservice.Router,
	exporter *exportservice.Exporter,
	settings settingsout.API,
	opts Options,
) Model {
	return Model{
		opts:         opts,
		session:      session,
		live:         live,
		search:       search,
		router:       router,
		exporter:     exporter,
		settings:     settings,
		liveView:     liveview.New(),
		tabBar:       sessionsview.NewTabBar(),
		palette:      components.NewPalette(),
		searchBox:    components.NewSearchBox(),
		exportDialog: components.NewExportDialog(),
		settingsForm: components.NewSettingsForm(),
		prompt:       components.NewPrompt(),
		status:       "connecting…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.refreshTick())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keyboard input goes to the open overlay first; everything else flows
	// through so timers and channel frames keep arriving underneath.
	if _, isKey := msg.(tea.KeyMsg); isKey && m.overlayOpen() {
		return m.updateOverlay(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()

	case UpdateFrameMsg:
		// Frames describe the backend's active session; showing them for a
		// different local tab would mix sessions.
		if msg.Update.SessionID == "" || msg.Update.SessionID == m.session.ActiveID() {
			m.liveView.SetUpdate(msg.Update)
		}

	case ConnStateMsg:
		m.liveView.SetConnState(msg.State)

	case refreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.refreshTick())

	case sessionsRefreshedMsg:
		prev := activeOf(m.sessions)
		m.sessions = m.session.List()
		if msg.err == nil && m.status == "connecting…" {
			m.status = "ready"
		}
		if now := activeOf(m.sessions); now != "" && now != prev {
			return m, m.loadHistoryCmd(now)
		}

	case sessionCreatedMsg:
		if msg.err != nil {
			m.status = "create failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "session created: " + msg.session.Name
		return m, tea.Sequence(m.activateCmd(msg.session.ID), m.refreshCmd())

	case sessionMutatedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, apperrors.ErrLastSession) {
				m.status = "cannot delete the last session"
			} else {
				m.status = msg.verb + " failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.status = msg.verb + " ok"
		return m, m.refreshCmd()

	case historyLoadedMsg:
		if msg.err == nil {
			m.liveView.SetUpdate(msg.update)
		}

	case debounceFiredMsg:
		if query, seq, ok := m.search.Fire(msg.gen); ok {
			m.searchBox.SetSearching(true)
			return m, m.runSearchCmd(query, seq)
		}
		m.searchBox.SetHits(m.search.Results())

	case searchDoneMsg:
		if msg.err != nil {
			m.searchBox.SetSearching(false)
			m.status = "search failed: " + msg.err.Error()
			return m, nil
		}
		if msg.applied {
			m.searchBox.SetHits(msg.hits)
		}

	case components.PaletteInvokeMsg:
		return m.applyEffect(m.router.Dispatch(msg.Command))

	case components.PaletteCancelMsg, components.PromptCancelMsg:

	case components.SearchInputMsg:
		return m, m.debounceCmd(m.search.Submit(msg.Text))

	case components.SearchChooseMsg:
		m.search.Clear()
		return m, m.activateCmd(msg.Hit.SessionID)

	case components.SearchCancelMsg:
		m.search.Clear()

	case components.ExportRequestMsg:
		return m, m.exportCmd(msg.Format, msg.Include)

	case exportDoneMsg:
		if msg.err != nil {
			m.exportDialog.SetError(msg.err.Error())
		} else {
			m.exportDialog.SetReady(msg.preview)
		}

	case components.ExportCopyMsg:
		return m, m.copyCmd()

	case components.ExportDownloadMsg:
		return m, m.downloadCmd()

	case exportActionMsg:
		if msg.err != nil {
			m.exportDialog.SetStatus("failed: " + msg.err.Error())
		} else {
			m.exportDialog.SetStatus(msg.status)
		}

	case components.ExportCloseMsg:
		m.exporter.Discard()

	case settingsLoadedMsg:
		if msg.err != nil {
			m.status = "settings unavailable: " + msg.err.Error()
			return m, nil
		}
		return m, m.settingsForm.Open(msg.settings)

	case components.SettingsSaveMsg:
		return m, m.saveSettingsCmd(msg.Input)

	case settingsSavedMsg:
		if msg.err != nil {
			m.status = "settings save failed: " + msg.err.Error()
		} else {
			m.status = "settings saved"
		}

	case components.PromptSubmitMsg:
		switch msg.Kind {
		case components.PromptNewSession:
			return m, m.createCmd(msg.Text)
		case components.PromptDeepDive:
			return m, m.deepDiveCmd(msg.Text)
		}

	case emailDraftMsg:
		if msg.err != nil {
			m.status = "email draft failed: " + msg.err.Error()
		} else {
			m.status = "email draft ready: " + msg.draft.Subject
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "ctrl+k":
		return m, m.palette.Open()
	case "ctrl+n":
		return m, m.prompt.Open(components.PromptNewSession, "New Session", "session name…")
	case "ctrl+f":
		return m, m.searchBox.Open()
	case "ctrl+e":
		m.exportDialog.Open()
		return m, nil
	case "ctrl+,":
		return m, m.loadSettingsCmd()
	case "s":
		return m, m.toggleCaptureCmd()
	case "c":
		return m, m.clearCmd()
	case "tab":
		return m, m.cycleSessionCmd(1)
	case "shift+tab":
		return m, m.cycleSessionCmd(-1)
	}
	return m.forward(msg)
}

func (m Model) applyEffect(effect commandservice.Effect) (tea.Model, tea.Cmd) {
	switch effect.Kind {
	case commandservice.EffectNewSession:
		return m, m.prompt.Open(components.PromptNewSession, "New Session", "session name…")
	case commandservice.EffectOpenExport:
		if format, err := exportdomain.ParseFormat(effect.Format); err == nil {
			return m, m.exportDialog.OpenWithFormat(format)
		}
		m.exportDialog.Open()
		return m, nil
	case commandservice.EffectEmailDraft:
		return m, m.emailDraftCmd()
	case commandservice.EffectOpenSearch:
		return m, m.searchBox.Open()
	case commandservice.EffectOpenSettings:
		return m, m.loadSettingsCmd()
	case commandservice.EffectPromptDeepDive:
		return m, m.prompt.Open(components.PromptDeepDive, "Deep Dive Research", "topic to research…")
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.tabBar.View(m.sessions)
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	content := m.liveView.View()
	if overlay := m.overlayView(); overlay != "" {
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, overlay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderStatusBar() string {
	left := m.liveView.ConnBadge() + "  " + m.status
	right := theme.Muted.Render("ctrl+k:commands  ctrl+f:search  s:capture  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── overlay routing ─────────────────────────────────────────────────────────

func (m Model) overlayOpen() bool {
	return m.palette.Visible() || m.searchBox.Visible() || m.exportDialog.Visible() ||
		m.settingsForm.Visible() || m.prompt.Visible()
}

func (m Model) overlayView() string {
	switch {
	case m.palette.Visible():
		return m.palette.View()
	case m.searchBox.Visible():
		return m.searchBox.View()
	case m.exportDialog.Visible():
		return m.exportDialog.View()
	case m.settingsForm.Visible():
		return m.settingsForm.View()
	case m.prompt.Visible():
		return m.prompt.View()
	}
	return ""
}

func (m Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.palette.Visible():
		m.palette, cmd = m.palette.Update(msg)
	case m.searchBox.Visible():
		m.searchBox, cmd = m.searchBox.Update(msg)
	case m.exportDialog.Visible():
		m.exportDialog, cmd = m.exportDialog.Update(msg)
	case m.settingsForm.Visible():
		m.settingsForm, cmd = m.settingsForm.Update(msg)
	case m.prompt.Visible():
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// forward passes non-global messages to components that animate or scroll.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.liveView, cmd = m.liveView.Update(msg)
	cmds = append(cmds, cmd)
	if m.overlayOpen() {
		switch {
		case m.palette.Visible():
			m.palette, cmd = m.palette.Update(msg)
		case m.searchBox.Visible():
			m.searchBox, cmd = m.searchBox.Update(msg)
		case m.settingsForm.Visible():
			m.settingsForm, cmd = m.settingsForm.Update(msg)
		case m.prompt.Visible():
			m.prompt, cmd = m.prompt.Update(msg)
		}
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) propagateSize() {
	overlayW := m.width - 4
	if overlayW > 80 {
		overlayW = 80
	}
	m.palette.SetWidth(overlayW)
	m.searchBox.SetWidth(overlayW)
	m.exportDialog.SetWidth(overlayW)
	m.settingsForm.SetWidth(overlayW)
	m.prompt.SetWidth(overlayW)
	m.tabBar.SetWidth(m.width)
	m.liveView, _ = m.liveView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 3})
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) refreshTick() tea.Cmd {
	return tea.Tick(m.opts.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionsRefreshedMsg{err: m.session.Refresh(context.Background())}
	}
}

func (m Model) createCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Create(context.Background(), sessiondto.CreateInput{
			Name:         name,
			UseAPI:       true,
			EnableSearch: true,
		})
		return sessionCreatedMsg{session: out, err: err}
	}
}

func (m Model) activateCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return sessionMutatedMsg{verb: "activate", err: m.session.Activate(context.Background(), id)}
	}
}

func (m Model) cycleSessionCmd(delta int) tea.Cmd {
	if len(m.sessions) < 2 {
		return nil
	}
	active := m.session.ActiveID()
	idx := 0
	for i, s := range m.sessions {
		if s.ID == active {
			idx = i
			break
		}
	}
	n := len(m.sessions)
	next := m.sessions[((idx+delta)%n+n)%n]
	return m.activateCmd(next.ID)
}

func (m Model) toggleCaptureCmd() tea.Cmd {
	active := m.session.ActiveID()
	if active == "" {
		return nil
	}
	running := false
	for _, s := range m.sessions {
		if s.ID == active {
			running = s.Running
			break
		}
	}
	return func() tea.Msg {
		if running {
			return sessionMutatedMsg{verb: "stop", err: m.session.Stop(context.Background(), active)}
		}
		err := m.session.Start(context.Background(), sessiondto.StartInput{
			SessionID:    active,
			UseAPI:       true,
			EnableSearch: true,
		})
		return sessionMutatedMsg{verb: "start", err: err}
	}
}

func (m Model) clearCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionMutatedMsg{verb: "clear", err: m.session.Clear(context.Background())}
	}
}

func (m Model) loadHistoryCmd(id string) tea.Cmd {
	return func() tea.Msg {
		update, err := m.session.FetchHistory(context.Background(), id)
		return historyLoadedMsg{update: update, err: err}
	}
}

func (m Model) debounceCmd(gen int) tea.Cmd {
	return tea.Tick(m.opts.SearchDebounce, func(time.Time) tea.Msg {
		return debounceFiredMsg{gen: gen}
	})
}

func (m Model) runSearchCmd(query string, seq int) tea.Cmd {
	return func() tea.Msg {
		hits, applied, err := m.search.Run(context.Background(), query, seq)
		return searchDoneMsg{hits: hits, applied: applied, err: err}
	}
}

func (m Model) exportCmd(format exportdomain.Format, include exportdomain.Include) tea.Cmd {
	active := m.session.ActiveID()
	return func() tea.Msg {
		if err := m.exporter.Export(context.Background(), active, format, include); err != nil {
			return exportDoneMsg{err: err}
		}
		artifact, _ := m.exporter.Artifact()
		return exportDoneMsg{preview: artifact.Content}
	}
}

func (m Model) copyCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.exporter.Copy(); err != nil {
			return exportActionMsg{err: err}
		}
		return exportActionMsg{status: "copied to clipboard"}
	}
}

func (m Model) downloadCmd() tea.Cmd {
	return func() tea.Msg {
		path, err := m.exporter.Download(m.opts.DownloadDir)
		if err != nil {
			return exportActionMsg{err: err}
		}
		return exportActionMsg{status: "saved " + path}
	}
}

func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.settings.Get(context.Background())
		return settingsLoadedMsg{settings: settings, err: err}
	}
}

func (m Model) saveSettingsCmd(input settingsdto.UpdateInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.settings.Update(context.Background(), input)
		return settingsSavedMsg{err: err}
	}
}

func (m Model) deepDiveCmd(query string) tea.Cmd {
	active := m.session.ActiveID()
	return func() tea.Msg {
		return sessionMutatedMsg{verb: "deep dive", err: m.session.DeepDive(context.Background(), active, query)}
	}
}

func (m Model) emailDraftCmd() tea.Cmd {
	active := m.session.ActiveID()
	return func() tea.Msg {
		draft, err := m.session.EmailDraft(context.Background(), sessiondto.EmailDraftInput{SessionID: active})
		return emailDraftMsg{draft: draft, err: err}
	}
}

func activeOf(sessions []sessiondto.SessionOutput) string {
	for _, s := range sessions {
		if s.Active {
			return s.ID
		}
	}
	return ""
}
