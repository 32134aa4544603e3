package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/mmcdole/tubegrab/internal/adapter"
	"github.com/mmcdole/tubegrab/internal/adapter/api"
	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/service"
	"github.com/mmcdole/tubegrab/internal/store"
	"github.com/mmcdole/tubegrab/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type infoCmd struct {
	URL string `arg:"positional,required" help:"YouTube video URL"`
}

type downloadCmd struct {
	URL         string `arg:"positional,required" help:"YouTube video URL"`
	Format      string `arg:"-f,--format" help:"video or audio [default: from config]"`
	Quality     string `arg:"-q,--quality" help:"video quality: best, 2160p, 1440p, 1080p, 720p, 480p, 360p"`
	AudioFormat string `arg:"-a,--audio-format" help:"audio codec: mp3, m4a, opus, flac, wav"`
}

type historyCmd struct {
	Search string `arg:"-s,--search" help:"fuzzy filter by title or URL"`
	Clear  bool   `arg:"--clear" help:"remove every history entry"`
}

type resetCmd struct {
	Yes bool `arg:"-y,--yes" help:"do not ask for confirmation"`
}

type configCmd struct {
	SetServer string `arg:"--set-server" placeholder:"URL" help:"save a new download service URL"`
}

type statsCmd struct{}
type healthCmd struct{}
type versionCmd struct{}

type cliArgs struct {
	Info     *infoCmd     `arg:"subcommand:info" help:"show metadata for a video"`
	Download *downloadCmd `arg:"subcommand:download" help:"download a video without the interface"`
	History  *historyCmd  `arg:"subcommand:history" help:"list or clear download history"`
	Stats    *statsCmd    `arg:"subcommand:stats" help:"show download service statistics"`
	Health   *healthCmd   `arg:"subcommand:health" help:"check the download service"`
	Reset    *resetCmd    `arg:"subcommand:reset" help:"clear history, theme, terms acceptance and client id"`
	Config   *configCmd   `arg:"subcommand:config" help:"show or change the configuration"`
	Ver      *versionCmd  `arg:"subcommand:version" help:"print version"`

	Server string `arg:"--server" placeholder:"URL" help:"override the download service URL"`
}

func (cliArgs) Description() string {
	return "tubegrab downloads YouTube videos and audio through a remote download service.\n" +
		"Run without a command to start the interactive interface.\n"
}

func main() {
	var args cliArgs
	arg.MustParse(&args)

	if args.Ver != nil {
		fmt.Printf("tubegrab %s\n", Version)
		return
	}

	if err := run(&args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired services shared by the interface and the subcommands
type app struct {
	cfg    *adapter.Config
	logger *slog.Logger
	store  *store.LocalStore
	client *api.Client

	metadata    *service.MetadataService
	downloads   *service.DownloadService
	history     *service.HistoryService
	preferences *service.PreferencesService
	links       *service.LinkService
}

func run(args *cliArgs) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting tubegrab", "version", Version, "server", cfg.Server.URL)

	if args.Config != nil {
		return runConfig(cfg, args.Config)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case args.Info != nil:
		return a.runInfo(ctx, args.Info)
	case args.Download != nil:
		return a.runDownload(ctx, args.Download)
	case args.History != nil:
		return a.runHistory(args.History)
	case args.Stats != nil:
		return a.runStats(ctx)
	case args.Health != nil:
		return a.runHealth(ctx)
	case args.Reset != nil:
		return a.runReset(args.Reset)
	}
	return a.runTUI()
}

func newApp(cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	st, err := store.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	clock := clockwork.NewRealClock()

	// Preferences come first: the API client needs the install id
	preferences := service.NewPreferencesService(st, clock, domain.ParseTheme(cfg.UI.Theme), logger)
	client := api.NewClient(cfg.Server.URL, preferences.ClientID(), cfg.Server.Timeout, logger)
	preferences.OnClientIDChange(client.SetClientID)

	history := service.NewHistoryService(st, clock, logger)
	downloads := service.NewDownloadService(client, history, service.DownloadOptions{
		Clock:       clock,
		Interval:    cfg.Poll.Interval,
		MaxFailures: cfg.Poll.MaxFailures,
	}, logger)

	browser := adapter.NewBrowser(cfg.UI.Browser, logger)

	return &app{
		cfg:         cfg,
		logger:      logger,
		store:       st,
		client:      client,
		metadata:    service.NewMetadataService(client, clock, logger),
		downloads:   downloads,
		history:     history,
		preferences: preferences,
		links:       service.NewLinkService(browser, cfg.Server.URL, logger),
	}, nil
}

func (a *app) close() {
	a.downloads.Stop()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

func (a *app) runTUI() error {
	model := tui.NewModel(tui.Services{
		Metadata:    a.metadata,
		Downloads:   a.downloads,
		History:     a.history,
		Preferences: a.preferences,
		Links:       a.links,
		Clipboard:   adapter.Clipboard{},
	}, tui.Options{
		Format:            domain.ParseMediaFormat(a.cfg.Download.Format),
		Quality:           a.cfg.Download.Quality,
		AudioFormat:       a.cfg.Download.AudioFormat,
		HideProgressAfter: a.cfg.UI.HideProgressAfter,
		ShowWelcome:       a.cfg.UI.ShowWelcome,
		Logger:            a.logger,
	})

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
