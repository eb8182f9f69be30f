package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/automation"
	"github.com/DjordjeVuckovic/news-radar/internal/source"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-radar/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type RadarConfig struct {
	StorageConfig    factory.StorageConfig
	SourcesConfig    source.Config
	SchedulerConfig  automation.Config
	SchedulerEnabled bool
}

func (as *AppConfig) Load() (*RadarConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/radar_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	sourcesCfg, err := source.LoadEnv()
	if err != nil {
		slog.Error("Failed to load sources configuration", "error", err)
		return nil, err
	}

	schedCfg, enabled, err := loadSchedulerEnv()
	if err != nil {
		return nil, err
	}

	return &RadarConfig{
		StorageConfig:    *storageCfg,
		SourcesConfig:    sourcesCfg,
		SchedulerConfig:  schedCfg,
		SchedulerEnabled: enabled,
	}, nil
}

func loadSchedulerEnv() (automation.Config, bool, error) {
	cfg := automation.Config{Interval: automation.DefaultInterval}
	if raw := os.Getenv("SCHEDULER_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return cfg, false, fmt.Errorf("invalid SCHEDULER_INTERVAL %q", raw)
		}
		cfg.Interval = d
	}
	enabled := !strings.EqualFold(os.Getenv("SCHEDULER_ENABLED"), "false")
	return cfg, enabled, nil
}

func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
