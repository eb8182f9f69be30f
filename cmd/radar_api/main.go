// Package main News Radar API
// @title News Radar API
// @version 1.0
// @description Aggregates news search results from several providers, saves searches and refreshes them on a schedule
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/news-radar/docs"
	"github.com/DjordjeVuckovic/news-radar/internal/aggregator"
	"github.com/DjordjeVuckovic/news-radar/internal/automation"
	"github.com/DjordjeVuckovic/news-radar/internal/merge"
	"github.com/DjordjeVuckovic/news-radar/internal/middleware"
	"github.com/DjordjeVuckovic/news-radar/internal/router"
	"github.com/DjordjeVuckovic/news-radar/internal/server"
	"github.com/DjordjeVuckovic/news-radar/internal/source"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/factory"
	pkgserver "github.com/DjordjeVuckovic/news-radar/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}
	slog.SetLogLoggerLevel(logLevel())

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// The store is opened before the server so the health check can ping it.
	store, err := factory.NewStore(context.Background(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create store", "error", err)
		os.Exit(1)
		return
	}
	defer store.Close()

	s := server.New(sCfg, pkgserver.NewPingHealthChecker(map[string]pkgserver.Pinger{"store": store})).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")
	s.Echo.Use(middleware.Owner())

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Radar API is running")
	})

	indexer, err := factory.NewIndexer(s.Context(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create result indexer", "error", err)
		os.Exit(1)
		return
	}

	adapters := source.NewAdapters(cfg.SourcesConfig)
	for _, a := range adapters {
		slog.Info("source configured", "source", a.Name(), "enabled", a.Enabled())
	}
	agg := aggregator.New(adapters, aggregator.WithLimit(cfg.SourcesConfig.Limit))

	mergeOpts := []merge.Option{}
	if indexer != nil {
		mergeOpts = append(mergeOpts, merge.WithIndexer(indexer))
	}
	merger := merge.New(store, mergeOpts...)

	sched := automation.New(store, automation.NewRefresher(store, agg, merger), cfg.SchedulerConfig, slog.Default())
	schedDone := make(chan struct{})
	if cfg.SchedulerEnabled {
		go func() {
			defer close(schedDone)
			sched.Start(s.Context())
		}()
	} else {
		close(schedDone)
		slog.Info("Automation scheduler disabled")
	}

	router.NewSearchRouter(s.Echo, agg, store, merger).Bind()
	router.NewSavedQueryRouter(s.Echo, store).Bind()
	router.NewAutomationRouter(s.Echo, store, sched).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	<-schedDone
	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
