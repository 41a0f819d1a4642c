package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freekieb7/myat/app"
	"github.com/freekieb7/myat/asset"
	"github.com/freekieb7/myat/config"
	"github.com/freekieb7/myat/http"
	"github.com/freekieb7/myat/telemetry"
)

const name = "github.com/freekieb7/myat"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) (err error) {
	var (
		configPath = flag.String("config", "config.yaml", "path to the YAML configuration file")
		host       = flag.String("host", "", "interface to listen on (overrides config)")
		port       = flag.Int("port", 0, "port to listen on (overrides config)")
		assetRoot  = flag.String("assets", "", "directory to serve static assets from (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *assetRoot != "" {
		cfg.Assets.Root = *assetRoot
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, otelShutdown(shutdownCtx))
	}()

	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if cfg.Telemetry.Enabled {
		logger = telemetry.Logger(name)
	}
	slog.SetDefault(logger)

	var gateway *asset.Gateway
	if cfg.Assets.Root != "" {
		gateway, err = asset.Dir(cfg.Assets.Prefix, cfg.Assets.Root)
		if err != nil {
			return err
		}
	} else {
		gateway = asset.New(cfg.Assets.Prefix, app.Assets())
	}
	gateway.WithLogger(logger)

	router := http.NewRouter()
	router.Logger = logger
	app.Register(router, cfg.Auth, logger)

	server := http.NewServer(cfg.Server.Name, router,
		http.WithLogger(logger),
		http.WithAssets(gateway),
		http.WithReadBufferSize(cfg.Server.ReadBufferSize),
		http.WithMaxHeaderBytes(cfg.Server.MaxHeaderBytes),
		http.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe(ctx, cfg.ServerAddress())
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serverErrCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
