package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"movieseeker/internal/catalog"
	"movieseeker/internal/config"
	"movieseeker/internal/domain"
	"movieseeker/internal/eventbus"
	"movieseeker/internal/nav"
	"movieseeker/internal/omdb"
	"movieseeker/internal/poster"
	"movieseeker/internal/querycache"
	"movieseeker/internal/session"
	"movieseeker/internal/ui"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	location   string
	query      string
	configPath string
	apiURL     string
	apiKey     string
	kind       string
	logFile    string
	noPosters  bool
	debug      bool
	version    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("movieseeker", pflag.ContinueOnError)
	flagSet.StringVar(&opts.location, "url", "", "start from a location such as '?q=alien'")
	flagSet.StringVarP(&opts.query, "query", "q", "", "search term to start with")
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "config file (default: "+config.DefaultPath()+")")
	flagSet.StringVar(&opts.apiURL, "api-url", "", "catalogue base URL")
	flagSet.StringVar(&opts.apiKey, "api-key", "", "catalogue API key (default: $OMDB_API_KEY)")
	flagSet.StringVarP(&opts.kind, "kind", "t", "", "result kind: movie, series or episode")
	flagSet.StringVar(&opts.logFile, "log-file", "", "log file (default: movieseeker.log in the user cache dir)")
	flagSet.BoolVar(&opts.noPosters, "no-posters", false, "do not download poster art")
	flagSet.BoolVar(&opts.debug, "debug", false, "log at debug level")
	flagSet.BoolVar(&opts.version, "version", false, "print the version and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: movieseeker [flags] [search term]\n\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.version {
		fmt.Println("movieseeker", version)
		return nil
	}
	if opts.query == "" && flagSet.NArg() > 0 {
		opts.query = strings.Join(flagSet.Args(), " ")
	}

	closeLog := setupLogging(opts)
	defer closeLog()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	configSvc := config.NewConfigServiceWithBus(opts.configPath, bus)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, opts); err != nil {
		return err
	}
	kind, err := domain.ParseKind(cfg.Search.Kind)
	if err != nil {
		return err
	}
	if cfg.API.APIKey == "" {
		slog.Warn("no API key configured; set OMDB_API_KEY or api.api_key in " + configSvc.Path())
	}

	client := omdb.NewClient(omdb.Config{
		APIKey:            cfg.API.APIKey,
		BaseURL:           cfg.API.BaseURL,
		SearchPath:        cfg.API.SearchPath,
		SuggestPath:       cfg.API.SuggestPath,
		DetailPath:        cfg.API.DetailPath,
		Timeout:           cfg.API.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})

	retry := querycache.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Cache.Attempts()
	svc := catalog.NewService(client, bus, querycache.Options{
		TTL:        cfg.Cache.TTL(),
		MaxEntries: cfg.Cache.MaxEntries,
		Retry:      retry,
	})

	var posters *poster.Loader
	if cfg.UI.ShowPosters {
		posters, err = poster.NewLoader(nil, cfg.UI.PosterConcurrency, 0)
		if err != nil {
			return err
		}
	}

	location := opts.location
	if location == "" && opts.query != "" {
		location = nav.FormatLocation(opts.query)
	}
	navigator := nav.New(location, bus)

	sess := session.New(navigator, svc, bus, session.Options{
		Kind:        kind,
		SuggestWait: cfg.Search.SuggestWait(),
		ScrollWait:  cfg.Search.ScrollWait(),
		Proximity:   cfg.Search.ScrollProximity,
		Timeout:     cfg.API.Timeout(),
	})
	defer sess.Close()

	uiModel := ui.NewModel(ui.Deps{
		Bus:     bus,
		Config:  cfg,
		Store:   configSvc,
		Session: sess,
		Posters: posters,
	})

	slog.Info("starting UI", "location", navigator.Location(), "kind", kind)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	uiModel.SetProgram(p)
	sess.SetSend(p.Send)

	// Forward the events the UI reports on
	for _, eventType := range []eventbus.EventType{eventbus.EventFetchFailed, eventbus.EventConfigSaved} {
		bus.Subscribe(eventType, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		slog.Error("error running program", "error", err)
		return err
	}
	slog.Info("UI exited normally")
	return nil
}

// applyFlags overrides configuration with command line flags
func applyFlags(cfg *config.Config, opts options) error {
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.apiKey != "" {
		cfg.API.APIKey = opts.apiKey
	}
	if opts.kind != "" {
		kind, err := domain.ParseKind(opts.kind)
		if err != nil {
			return err
		}
		cfg.Search.Kind = string(kind)
	}
	if opts.noPosters {
		cfg.UI.ShowPosters = false
	}
	return nil
}

// setupLogging routes slog to the log file; the terminal belongs to the UI
func setupLogging(opts options) func() {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}

	path := opts.logFile
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "movieseeker", "movieseeker.log")
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			out = f
			closeFn = func() { _ = f.Close() }
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return closeFn
}
