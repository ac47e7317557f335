package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/goliatone/go-listview/pkg/config"
	"github.com/goliatone/go-listview/pkg/logging"
	"github.com/goliatone/go-listview/pkg/metrics"
	"github.com/goliatone/go-listview/pkg/mockapi"
)

type cli struct {
	EnvFile []string      `name:"env-file" default:".env" help:"Dotenv files loaded before the process environment."`
	Addr    string        `default:":3000" help:"Listen address."`
	Latency time.Duration `help:"Artificial delay added to every request."`
	Token   string        `help:"Require this bearer token on every request."`
}

func main() {
	var root cli
	kctx := kong.Parse(&root,
		kong.Name("mockapi"),
		kong.Description("Serve an in-memory copy of the store admin API."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(root.run())
}

func (c *cli) run() error {
	cfg, err := config.Load(c.EnvFile...)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{Environment: string(cfg.Environment), Level: cfg.LogLevel})

	reg := metrics.NewRegistry()
	app := mockapi.New(mockapi.Options{
		Store:     mockapi.NewStore(mockapi.DefaultSeed()),
		Latency:   c.Latency,
		Token:     c.Token,
		Logger:    &logger,
		Telemetry: reg,
	})
	reg.Mount(app, "/metrics")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		_ = app.Shutdown()
	}()

	logger.Info().Str("addr", c.Addr).Dur("latency", c.Latency).Bool("auth", c.Token != "").Msg("mock admin API listening")
	return app.Listen(c.Addr)
}
