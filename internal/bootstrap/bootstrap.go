package bootstrap

import (
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	commandservice "attune/internal/modules/command/service"
	exportoutadapter "attune/internal/modules/export/adapter/out"
	exportservice "attune/internal/modules/export/service"
	liveoutadapter "attune/internal/modules/live/adapter/out"
	livedomain "attune/internal/modules/live/domain"
	liveservice "attune/internal/modules/live/service"
	searchinadapter "attune/internal/modules/search/adapter/in"
	searchoutadapter "attune/internal/modules/search/adapter/out"
	searchservice "attune/internal/modules/search/service"
	sessioninadapter "attune/internal/modules/session/adapter/in"
	sessionoutadapter "attune/internal/modules/session/adapter/out"
	sessionin "attune/internal/modules/session/port/in"
	sessionservice "attune/internal/modules/session/service"
	sessionusecase "attune/internal/modules/session/usecase"
	settingsoutadapter "attune/internal/modules/settings/adapter/out"
	settingsout "attune/internal/modules/settings/port/out"
	"attune/internal/platform/clock"
	"attune/internal/platform/config"
	uiapp "attune/internal/ui/app"
)

// App wires every module against one backend and hands out the entry
// points the CLI and the TUI need.
type App struct {
	Config config.Config
	Log    *zap.Logger

	SessionCLI sessioninadapter.CLIHandler
	SearchCLI  searchinadapter.CLIHandler
	Settings   settingsout.API
	Exporter   *exportservice.Exporter
	Channel    *liveservice.Channel

	sessionUC sessionin.Usecase
	search    *searchservice.Coordinator
	router    *commandservice.Router
}

func New(cfg config.Config, log *zap.Logger) *App {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	clk := clock.SystemClock{}

	sessionAPI := sessionoutadapter.NewHTTPAPI(cfg.BackendURL, client)
	registry := sessionservice.NewRegistry(sessionAPI, log)
	sessionUC := sessionusecase.NewInteractor(registry, sessionAPI, log)

	searchAPI := searchoutadapter.NewHTTPSearch(cfg.BackendURL, client)
	coordinator := searchservice.NewCoordinator(searchAPI, cfg.SearchMinLength, cfg.SearchLimit, log)

	exporter := exportservice.NewExporter(
		exportoutadapter.NewHTTPExport(cfg.BackendURL, client),
		exportoutadapter.SystemClipboard{},
		exportoutadapter.OSFileWriter{},
		clk,
		log,
	)

	channel := liveservice.NewChannel(
		liveoutadapter.NewWebsocketSource(cfg.WebsocketURL),
		cfg.ReconnectDelay,
		log,
	)

	return &App{
		Config:     cfg,
		Log:        log,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		SearchCLI:  searchinadapter.NewCLIHandler(coordinator),
		Settings:   settingsoutadapter.NewHTTPSettings(cfg.BackendURL, client),
		Exporter:   exporter,
		Channel:    channel,
		sessionUC:  sessionUC,
		search:     coordinator,
		router:     commandservice.NewRouter(log),
	}
}

// RunTUI starts the Bubble Tea program and bridges push-channel frames into
// it. Channel callbacks run off the event loop; Program.Send re-serializes
// them through it.
func (a *App) RunTUI() error {
	model := uiapp.NewModel(
		a.sessionUC,
		a.Channel,
		a.search,
		a.router,
		a.Exporter,
		a.Settings,
		uiapp.Options{
			RefreshInterval: a.Config.RefreshInterval,
			SearchDebounce:  a.Config.SearchDebounce,
			DownloadDir:     a.Config.DownloadDir,
		},
	)
	program := tea.NewProgram(model, tea.WithAltScreen())

	a.Channel.Subscribe(func(u livedomain.Update) {
		program.Send(uiapp.UpdateFrameMsg{Update: u})
	})
	a.Channel.SubscribeState(func(s livedomain.ConnState) {
		program.Send(uiapp.ConnStateMsg{State: s})
	})
	a.Channel.Connect()
	defer func() { _ = a.Channel.Close() }()

	_, err := program.Run()
	return err
}
