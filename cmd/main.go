package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/chesscoach/internal/adapters/archive"
	"github.com/okian/chesscoach/internal/adapters/http/api"
	"github.com/okian/chesscoach/internal/adapters/http/swagger"
	"github.com/okian/chesscoach/internal/adapters/llm"
	app "github.com/okian/chesscoach/internal/app"
	"github.com/okian/chesscoach/internal/config"
	"github.com/okian/chesscoach/pkg/logger"
	"github.com/okian/chesscoach/pkg/metrics"
)

// HTTP server timeout constants. Writes also get the config's analysis budget.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.HTTPBucketsMs),
		metrics.WithLLMBuckets(cfg.LLMBucketsMs),
	)

	handler, svc, err := buildHandler(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "failed to build service", logger.Error(err))
	}
	if !svc.AnalysisAvailable() {
		log.Warn(ctx, "no API key for the selected model provider; analysis endpoints will answer 503",
			logger.String("llm_provider", cfg.LLMProvider))
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.AnalysisBudget() + readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildHandler wires the archive client, the model capability, the service
// and every route behind the shared middleware.
func buildHandler(ctx context.Context, cfg *config.Config) (http.Handler, *app.Service, error) {
	fetcher := archive.New(
		archive.WithBaseURL(cfg.ArchiveBaseURL),
		archive.WithUserAgent(cfg.UserAgent),
		archive.WithTimeout(cfg.ArchiveTimeout()),
		archive.WithConcurrency(cfg.FetchConcurrency),
		archive.WithLogger(logger.Named("archive")),
	)

	model, err := llm.New(ctx, llm.Settings{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout(),
	})
	if err != nil {
		return nil, nil, err
	}

	svc := app.New(fetcher, model,
		app.WithLogger(logger.Named("pipeline")),
		app.WithRecentMonths(cfg.RecentMonths),
		app.WithSampleLimits(cfg.LossSampleLimit, cfg.WinSampleLimit),
		app.WithTailMoves(cfg.TailMoves),
		app.WithDraftStage(cfg.DraftTemperature, cfg.DraftMaxTokens),
		app.WithReviewStage(cfg.ReviewTemperature, cfg.ReviewMaxTokens),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, logger.Named("api")).Register(ctx, mux)

	return api.Handler(mux, cfg.AllowedOrigins), svc, nil
}

// startSystemMetricsUpdater periodically publishes process metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
