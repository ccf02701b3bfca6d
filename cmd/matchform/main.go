package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchdata/matchform/internal/app"
	"github.com/pitchdata/matchform/internal/config"
	"github.com/pitchdata/matchform/internal/observability"
	"github.com/pitchdata/matchform/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		return 1
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	// A season that fails to download is reported and skipped so the run
	// still engineers every file already on disk.
	if err := application.DownloadSeasons(ctx); err != nil {
		logger.WarnContext(ctx, "season download incomplete", "error", err)
	}

	report, err := application.Pipeline.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline run failed", "error", err)
		return 1
	}

	if report.FailedCount > 0 {
		return 1
	}
	return 0
}
