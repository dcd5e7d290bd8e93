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

	"github.com/baller70/shotform/internal/adapters/http/api"
	"github.com/baller70/shotform/internal/adapters/http/swagger"
	service "github.com/baller70/shotform/internal/app"
	"github.com/baller70/shotform/internal/config"
	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/biomech"
	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/validation"
	"github.com/baller70/shotform/pkg/logger"
	"github.com/baller70/shotform/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Our own system gauges replace the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// defaults -> optional file -> env
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}

	mux, err := newMux(ctx, cfg, svc)
	if err != nil {
		log.Error(ctx, "failed to build routes", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
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
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "service shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// offsetSource picks the entry-angle offset strategy from config.
func offsetSource(cfg *config.Config) biomech.OffsetSource {
	if cfg.EntryAngleMode == config.EntryAngleRandom {
		return biomech.NewRandomOffset(cfg.EntryAngleSeed)
	}
	return biomech.MidpointOffset{}
}

func newService(cfg *config.Config, log logger.Logger) *service.Service {
	calc := biomech.NewCalculator(biomech.WithOffsetSource(offsetSource(cfg)))
	validator := validation.New(validation.WithMinMeanConfidence(cfg.MinMeanConfidence))
	return service.New(
		service.WithLogger(log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithMaxBatchSize(cfg.MaxBatchSize),
		service.WithAnalyzerOptions(analysis.WithCalculator(calc), analysis.WithValidator(validator)),
	)
}

func newMux(ctx context.Context, cfg *config.Config, svc *service.Service) (*http.ServeMux, error) {
	var level report.Level
	if cfg.DefaultReportLevel != "" {
		parsed, err := report.ParseLevel(cfg.DefaultReportLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc,
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithDefaultReportLevel(level),
		api.WithStats(func(ctx context.Context) any { return svc.GetStats(ctx) }),
	)
	apiServer.Register(ctx, mux)
	return mux, nil
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
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
