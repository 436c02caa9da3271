package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"short-url-client/backend"
	"short-url-client/cache"
	"short-url-client/client"
	"short-url-client/config"
	"short-url-client/eventlog"
	"short-url-client/handler"
	appLogger "short-url-client/logger"
	"short-url-client/middleware"
	"short-url-client/tui"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	terminal := cfg.UI.Mode == config.UIModeTerminal
	logFile, err := appLogger.Initialize(cfg.Log, terminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Info().Str("backend", cfg.Backend.BaseURL).Str("ui", cfg.UI.Mode).Msg("Configuration loaded successfully")

	// Initialize negative lookup cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
		defer cacheClient.Close()
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	opts := client.Options{
		Backend:      backend.NewClient(cfg.Backend, cacheClient),
		Log:          eventlog.New(),
		Origin:       cfg.PublicOrigin(),
		MountPrefix:  cfg.Client.MountPrefix,
		PollInterval: cfg.Client.PollIntervalDuration(),
	}

	if terminal {
		runTerminal(cfg, opts)
		return
	}
	runGateway(cfg, opts, cacheClient)
}

// runTerminal shows the terminal dashboard for the configured start path,
// or the path given as the first argument
func runTerminal(cfg config.Config, opts client.Options) {
	path := cfg.Client.StartPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	opts.Clipboard = tui.SystemClipboard{}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, opts, path); err != nil {
		log.Error().Err(err).Msg("Terminal dashboard exited with error")
	}
}

func runGateway(cfg config.Config, opts client.Options, cacheClient *cache.Cache) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The dashboard session lives as long as the gateway
	dashboard := client.NewSession(opts, "/")
	dashboard.Start(ctx)
	defer dashboard.Close()

	gateway := handler.NewGatewayHandler(dashboard, opts, cacheClient)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	gateway.Routes(r)

	// Configure HTTP server. CORS wraps the router so preflight requests
	// are answered before method matching.
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      middleware.CORS(r),
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("origin", opts.Origin).
			Str("mount_prefix", opts.MountPrefix).
			Msg("Starting gateway")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gateway...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Gateway forced to shutdown")
	}

	log.Info().Msg("Gateway stopped gracefully")
}
