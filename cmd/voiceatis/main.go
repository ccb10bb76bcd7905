package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"voiceatis/internal/api"
	"voiceatis/pkg/audio"
	"voiceatis/pkg/config"
	"voiceatis/pkg/core"
	"voiceatis/pkg/db"
	"voiceatis/pkg/directory"
	"voiceatis/pkg/logging"
	"voiceatis/pkg/network"
	"voiceatis/pkg/playback"
	"voiceatis/pkg/probe"
	"voiceatis/pkg/request"
	"voiceatis/pkg/sim"
	"voiceatis/pkg/sim/mocksim"
	"voiceatis/pkg/store"
	"voiceatis/pkg/tts"
	"voiceatis/pkg/tts/sapi"
	"voiceatis/pkg/version"
	"voiceatis/pkg/weather"
)

var (
	configPath = flag.String("config", "configs/voiceatis.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	// Optional .env next to the binary, for overriding the config path in
	// development setups.
	_ = godotenv.Load()
	path := *configPath
	if env := os.Getenv("VOICEATIS_CONFIG"); env != "" {
		path = env
	}

	if *initConfig {
		if err := config.Save(path, config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", path)
		return
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("voiceatis started", "version", version.Version)

	dbConn, err := db.Init(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbConn.Close()
	st := store.NewSQLiteStore(dbConn)

	reqClient := request.New(request.ClientConfig{
		Retries:       cfg.Request.Retries,
		Timeout:       time.Duration(cfg.Request.Timeout),
		BaseDelay:     time.Duration(cfg.Request.Backoff.BaseDelay),
		MaxDelay:      time.Duration(cfg.Request.Backoff.MaxDelay),
		RatePerMinute: cfg.Request.RatePerMinute,
	}, logging.RequestLogger)

	dirSvc := directory.NewService(reqClient, st, cfg.Sources, cfg.Directory, slog.With("component", "directory"))
	netSvc := network.NewService(reqClient, cfg.Sources, slog.With("component", "network"))
	metarSvc := weather.NewFetcher(reqClient, cfg.Sources)

	engine, err := initTTS(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize TTS engine: %w", err)
	}

	simClient, err := initSimClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize sim client: %w", err)
	}
	defer simClient.Close()

	// Startup checks
	results := probe.RunAll(ctx, probe.Checks(cfg, reqClient, st, engine))
	if err := probe.Gate(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	audioMgr := audio.New(&cfg.Audio)
	defer audioMgr.Shutdown()

	controller := playback.NewController(engine, cfg.TTS.SAPI.Voice, audioMgr, metarSvc, cfg.TTS.WorkDir, slog.With("component", "playback"))
	defer controller.Shutdown()

	// The directory bootstraps from cache when today's download already
	// happened; a dead endpoint leaves yesterday's data in place.
	if err := dirSvc.Bootstrap(ctx); err != nil {
		slog.Error("Airport directory bootstrap failed, continuing without directory", "error", err)
	}

	sched := core.NewScheduler(cfg, simClient, dirSvc, netSvc, controller)
	sched.AddJob(core.NewTimeJob("NetworkRefresh", time.Duration(cfg.Sources.WhazzupInterval), func(ctx context.Context) {
		if err := netSvc.Refresh(ctx); err != nil {
			slog.Warn("Network snapshot refresh failed", "error", err)
		}
	}))
	sched.AddJob(core.NewTimeJob("DirectoryRefresh", time.Duration(cfg.Directory.RefreshInterval), func(ctx context.Context) {
		if err := dirSvc.Refresh(ctx); err != nil {
			slog.Warn("Airport directory refresh failed", "error", err)
		}
	}))
	go sched.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	if !cfg.Server.Enabled {
		select {
		case <-quit:
			slog.Info("Shutting down...")
		case <-ctx.Done():
		}
		return nil
	}

	statusH := api.NewStatusHandler(sched, controller, dirSvc, netSvc)
	srv := api.NewServer(cfg.Server.Address, statusH, cancel)
	return runServerLifecycle(ctx, srv, quit)
}

func initTTS(cfg *config.Config) (tts.Provider, error) {
	switch cfg.TTS.Engine {
	case "", "windows-sapi":
		return sapi.NewProvider(cfg.TTS.SAPI.Rate), nil
	default:
		return nil, fmt.Errorf("unknown tts engine %q", cfg.TTS.Engine)
	}
}

func initSimClient(cfg *config.Config) (sim.Client, error) {
	switch cfg.Sim.Provider {
	case "", "mock":
		slog.Info("Using mock simulator", "lat", cfg.Sim.Mock.Lat, "lon", cfg.Sim.Mock.Lon)
		return mocksim.NewClient(cfg.Sim.Mock), nil
	default:
		return nil, fmt.Errorf("unknown sim provider %q", cfg.Sim.Provider)
	}
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
