package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satoshi-natamoko/NewsGPTArchive/internal/app"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/config"
	"github.com/satoshi-natamoko/NewsGPTArchive/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single crawl and exit")
	backfill := flag.String("backfill", "", "rebuild the archive for a past date (YYYY-MM-DD) and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}

	switch {
	case *backfill != "":
		target, err := time.ParseInLocation("2006-01-02", *backfill, cfg.Scheduler.Location())
		if err != nil {
			logger.Error("invalid backfill date", "value", *backfill, "error", err)
			os.Exit(1)
		}
		if _, err := application.Backfill(ctx, target); err != nil {
			logger.Error("backfill failed", "error", err)
			os.Exit(1)
		}
	case *once:
		if err := application.RunOnce(ctx); err != nil {
			logger.Error("crawl failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := application.RunScheduled(ctx); err != nil {
			logger.Error("application stopped", "error", err)
			os.Exit(1)
		}
	}
}
