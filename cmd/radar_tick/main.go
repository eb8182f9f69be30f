// Command radar_tick runs a single automation tick and exits. It suits cron
// style deployments where the API runs with SCHEDULER_ENABLED=false.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/aggregator"
	"github.com/DjordjeVuckovic/news-radar/internal/automation"
	"github.com/DjordjeVuckovic/news-radar/internal/merge"
	"github.com/DjordjeVuckovic/news-radar/internal/source"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-radar/pkg/config/env"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/radar_tick/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("Automation tick failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	sourcesCfg, err := source.LoadEnv()
	if err != nil {
		return err
	}

	store, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	indexer, err := factory.NewIndexer(ctx, storageCfg)
	if err != nil {
		return err
	}
	var mergeOpts []merge.Option
	if indexer != nil {
		mergeOpts = append(mergeOpts, merge.WithIndexer(indexer))
	}

	agg := aggregator.New(source.NewAdapters(sourcesCfg), aggregator.WithLimit(sourcesCfg.Limit))
	refresher := automation.NewRefresher(store, agg, merge.New(store, mergeOpts...))
	sched := automation.New(store, refresher, automation.Config{}, slog.Default())

	start := time.Now()
	res, err := sched.RunTick(ctx, start.UTC())
	if err != nil {
		return err
	}
	slog.Info("Automation tick finished",
		"due", res.Due,
		"processed", res.Processed,
		"failed", res.Failed,
		"inserted", res.Inserted,
		"took", time.Since(start))
	return nil
}
