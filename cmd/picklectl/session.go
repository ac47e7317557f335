package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/pkg/backend"
	"github.com/goliatone/go-listview/pkg/config"
	"github.com/goliatone/go-listview/pkg/logging"
	"github.com/goliatone/go-listview/pkg/metrics"
	"github.com/goliatone/go-listview/pkg/prefstore"
)

// Globals are flags shared by every subcommand. Set flags override the
// matching environment variables.
type Globals struct {
	EnvFile  []string      `name:"env-file" default:".env" help:"Dotenv files loaded before the process environment."`
	BaseURL  string        `name:"base-url" help:"Admin API base URL (overrides API_BASE_URL)."`
	Token    string        `help:"Bearer token (overrides API_TOKEN)."`
	Timeout  time.Duration `help:"Per-request budget (overrides API_TIMEOUT)."`
	Views    string        `type:"path" help:"View manifest YAML (overrides VIEWS_MANIFEST)."`
	LogLevel string        `name:"log-level" help:"Log level (overrides LOG_LEVEL)."`
	JSON     bool          `help:"Print JSON instead of tables."`

	Out io.Writer `kong:"-"`
}

func (g *Globals) config() (config.Config, error) {
	cfg, err := config.Load(g.EnvFile...)
	if err != nil {
		return config.Config{}, err
	}
	if g.BaseURL != "" {
		cfg.BaseURL = g.BaseURL
	}
	if g.Token != "" {
		cfg.Token = g.Token
	}
	if g.Timeout > 0 {
		cfg.Timeout = g.Timeout
	}
	if g.Views != "" {
		cfg.ManifestPath = g.Views
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	return cfg, cfg.Validate()
}

// session is the wired stack behind one CLI invocation.
type session struct {
	cfg     config.Config
	logger  zerolog.Logger
	service *listview.Service
	hook    *listview.BroadcastHook
	metrics *metrics.Registry
	out     io.Writer
	json    bool
	closers []func() error
}

func (g *Globals) open(ctx context.Context, confirmer listview.Confirmer) (*session, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Options{Environment: string(cfg.Environment), Level: cfg.LogLevel})
	reg := metrics.NewRegistry()
	telemetry := listview.MultiTelemetry{logging.NewTelemetry(logger), reg}

	if g.Out == nil {
		g.Out = os.Stdout
	}
	s := &session{
		cfg:     cfg,
		logger:  logger,
		hook:    listview.NewBroadcastHook(),
		metrics: reg,
		out:     g.Out,
		json:    g.JSON,
	}
	if cfg.MetricsAddr != "" {
		go func() {
			if err := reg.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Warn().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener stopped")
			}
		}()
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: "picklectl",
		Telemetry: telemetry,
		Logger:    &logger,
	})
	if err != nil {
		return nil, err
	}

	registry := listview.NewRegistry()
	if cfg.ManifestPath != "" {
		doc, err := registry.LoadManifestFile(cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("manifest", doc.Source).Int("views", len(doc.Views)).Msg("view manifest applied")
	}

	var prefs listview.PreferenceStore = listview.NewInMemoryPreferenceStore()
	if cfg.RedisURL != "" {
		pcfg := prefstore.Config{URL: cfg.RedisURL, DialTimeout: cfg.Timeout}
		rdb, err := pcfg.Connect(ctx)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, rdb.Close)
		prefs = prefstore.New(rdb, pcfg)
	}

	s.service = listview.NewService(listview.Options{
		Fetcher:         client,
		Gateway:         client,
		Registry:        registry,
		Confirmer:       confirmer,
		PreferenceStore: prefs,
		Hook:            s.hook,
		Telemetry:       telemetry,
		Logger:          &logger,
		Auth: listview.AuthContext{
			UserID: cfg.UserID,
			Token:  cfg.Token,
			Role:   cfg.Role,
		},
		ClearOnError: cfg.ClearOnError,
	})
	return s, nil
}

func (s *session) Close() {
	s.service.Stop()
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			s.logger.Debug().Err(err).Msg("close")
		}
	}
}

func (s *session) fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", listview.UserMessage(err, fallback), err)
}
