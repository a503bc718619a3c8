package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"tensorpool/internal/config"
	"tensorpool/internal/httpapi"
	"tensorpool/internal/planner"
	"tensorpool/internal/runner"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8080"
	if v := os.Getenv("TENSORPOOL_ADDR"); v != "" {
		defaultAddr = v
	}
	configPath := flag.String("config", "", "Optional config file (.yaml, .json, .toml); flags override it")
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8080")
	plannerName := flag.String("planner", "", "Default planner when a manifest names none (default "+planner.Default+")")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error")
	maxArenaBytes := flag.Int("max-arena-bytes", 0, "Refuse arenas larger than this many bytes (0=1GiB, negative=unlimited)")
	maxBodyBytes := flag.Int64("max-body-bytes", 0, "Maximum manifest body size in bytes (0=1MiB)")
	planTimeout := flag.Duration("plan-timeout", 0, "Per-request planning timeout (0=none)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins; enables CORS when set")
	flag.Parse()

	flags := config.Config{
		Planner:       *plannerName,
		LogLevel:      *logLevel,
		MaxArenaBytes: *maxArenaBytes,
		MaxBodyBytes:  *maxBodyBytes,
	}
	// Only an explicit -addr overrides the config file.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "addr" {
			flags.Addr = *addr
		}
	})
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		flags.CORSEnabled = true
		flags.CORSAllowedOrigins = origins
	}

	base := config.Config{Addr: defaultAddr, LogLevel: "info", MaxArenaBytes: runner.DefaultMaxArenaBytes}
	if *configPath != "" {
		fileCfg, err := config.Load(*configPath)
		if err != nil {
			stderrLogger := zerolog.New(os.Stderr)
			stderrLogger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		base = config.Merge(base, fileCfg)
	}
	cfg := config.Merge(base, flags)

	logger := newLogger(cfg.LogLevel)
	r, err := runner.New(runner.Config{
		DefaultPlanner: cfg.Planner,
		MaxArenaBytes:  cfg.MaxArenaBytes,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid runner configuration")
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPlanTimeout(*planTimeout)
	methods := cfg.CORSAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := cfg.CORSAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", "X-Log-Level"}
	}
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, methods, headers)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(r), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logger.Info().
			Str("addr", cfg.Addr).
			Str("planner", r.Planners().Default).
			Int("max_arena_bytes", r.MaxArenaBytes()).
			Msg("tensorpoold listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("service", "tensorpoold").Logger()
}

// splitCSV splits a comma-separated flag value, dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
