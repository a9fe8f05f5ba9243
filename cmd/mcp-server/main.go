package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adintel/ads-library-mcp/pkg/infrastructure/graph"
	boltsession "github.com/adintel/ads-library-mcp/pkg/infrastructure/persistence/session"
	"github.com/adintel/ads-library-mcp/pkg/infrastructure/snapshot"
	"github.com/adintel/ads-library-mcp/pkg/service/bootstrap"
	"github.com/adintel/ads-library-mcp/pkg/service/config"
	"github.com/adintel/ads-library-mcp/pkg/service/session"
	"github.com/adintel/ads-library-mcp/pkg/service/telemetry"
	"github.com/adintel/ads-library-mcp/pkg/service/tools"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"
	// GitCommit is the git commit SHA at build time
	GitCommit = "unknown"
	// BuildTime is the time of the build
	BuildTime = "unknown"
)

// flagConfig holds all command line flags
type flagConfig struct {
	configFile    *string
	transport     *string
	port          *int
	facebookToken *string
	storePath     *string
	sessionTTL    *string
	maxSessions   *int
	logLevel      *string
	telemetry     *bool
	telemetryPort *int
	version       *bool
}

func parseFlags() *flagConfig {
	flags := &flagConfig{
		configFile:    flag.String("config", "", "Path to an env-format configuration file"),
		transport:     flag.String("transport", "", "Transport type (stdio, streamable-http)"),
		port:          flag.Int("port", 0, "HTTP port for the streamable-http transport"),
		facebookToken: flag.String("facebook-token", "", "Facebook Ads Library access token"),
		storePath:     flag.String("store-path", "", "Session store path"),
		sessionTTL:    flag.String("session-ttl", "", "Session TTL (e.g. '24h')"),
		maxSessions:   flag.Int("max-sessions", 0, "Maximum number of sessions"),
		logLevel:      flag.String("log-level", "", "Log level (debug, info, warn, error)"),
		telemetry:     flag.Bool("telemetry", false, "Enable the Prometheus metrics endpoint"),
		telemetryPort: flag.Int("telemetry-port", 0, "Port for the Prometheus metrics endpoint"),
		version:       flag.Bool("version", false, "Show version information"),
	}
	flag.Parse()
	return flags
}

func main() {
	flags := parseFlags()

	if *flags.version {
		fmt.Println(getVersion())
		return
	}

	cfg, err := loadAndConfigure(flags)
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure server")
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	if cfg.AccessToken == "" {
		log.Error().Msg("Facebook access token required: set FACEBOOK_ACCESS_TOKEN or pass --facebook-token")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}

// loadAndConfigure loads configuration and applies flag overrides
func loadAndConfigure(flags *flagConfig) (*config.Config, error) {
	cfg, err := config.Load(*flags.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if *flags.transport != "" {
		cfg.Transport = *flags.transport
	}
	if *flags.port > 0 {
		cfg.Port = *flags.port
	}
	if *flags.facebookToken != "" {
		cfg.AccessToken = *flags.facebookToken
	}
	if *flags.storePath != "" {
		cfg.StorePath = *flags.storePath
	}
	if *flags.sessionTTL != "" {
		if ttl, err := time.ParseDuration(*flags.sessionTTL); err == nil {
			cfg.SessionTTL = ttl
		}
	}
	if *flags.maxSessions > 0 {
		cfg.MaxSessions = *flags.maxSessions
	}
	if *flags.logLevel != "" {
		cfg.LogLevel = *flags.logLevel
	}
	if *flags.telemetry {
		cfg.TelemetryEnabled = true
	}
	if *flags.telemetryPort > 0 {
		cfg.TelemetryPort = *flags.telemetryPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run wires the components and serves the configured transport until shutdown
func run(cfg *config.Config) error {
	log.Info().
		Str("version", getVersion()).
		Str("transport", cfg.Transport).
		Str("graph_api_version", cfg.GraphAPIVersion).
		Msg("Starting Ads Library MCP Server")

	slogLogger := createSlogLogger(cfg.LogLevel)

	store, err := boltsession.NewBoltStore(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	sessions := session.NewStoreManager(store, slogLogger, cfg.SessionTTL, cfg.MaxSessions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartCleanupRoutine(ctx)

	var metrics *telemetry.Metrics
	var metricsServer *telemetry.Server
	if cfg.TelemetryEnabled {
		registry := prometheus.NewRegistry()
		metrics = telemetry.NewMetrics(registry)
		metricsServer = telemetry.NewServer(cfg.TelemetryPort, registry, slogLogger)
		metricsServer.Start()
	}

	deps := tools.ToolDependencies{
		Archive:  graph.NewClient(cfg.AccessToken, cfg.GraphAPIVersion, cfg.HTTPTimeout, slogLogger),
		Snapshot: snapshot.NewFetcher(cfg.HTTPTimeout, slogLogger),
		Sessions: sessions,
		Metrics:  metrics,
		Logger:   slogLogger,
	}

	booter := bootstrap.NewBootstrapper(slogLogger, cfg, deps)
	mcpServer := booter.CreateMCPServer()
	if err := booter.RegisterComponents(mcpServer); err != nil {
		return fmt.Errorf("failed to register components: %w", err)
	}

	serverErr := make(chan error, 1)
	var httpTransport *bootstrap.HTTPTransport

	switch cfg.Transport {
	case config.TransportStreamableHTTP:
		httpTransport = bootstrap.NewHTTPTransport(mcpServer, cfg.Port, slogLogger)
		go func() {
			serverErr <- httpTransport.Start()
		}()
	default:
		go func() {
			serverErr <- bootstrap.ServeStdio(mcpServer)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			shutdown(httpTransport, metricsServer, sessions)
			return err
		}
		log.Info().Msg("Transport closed")
	}

	shutdown(httpTransport, metricsServer, sessions)
	return nil
}

// shutdown stops the transports and session manager with a deadline
func shutdown(httpTransport *bootstrap.HTTPTransport, metricsServer *telemetry.Server, sessions *session.StoreManager) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if httpTransport != nil {
		if err := httpTransport.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP transport shutdown")
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during telemetry shutdown")
		}
	}
	if err := sessions.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping session manager")
	}
}

// createSlogLogger creates a structured logger for dependency injection
func createSlogLogger(logLevel string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseSlogLevel(logLevel),
	})
	return slog.New(handler)
}

// parseSlogLevel converts string log level to slog.Level
func parseSlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogging configures the global zerolog logger
func setupLogging(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// getVersion returns the version information
func getVersion() string {
	if Version == "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
	}
	return fmt.Sprintf("v%s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}
