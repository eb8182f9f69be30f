package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes every adapter. Endpoints and tuning come from an optional
// YAML file; credentials are only read from the environment.
type Config struct {
	Timeout  time.Duration `yaml:"timeout"`
	Limit    int           `yaml:"limit"`
	Priority []string      `yaml:"priority"`
	Google   GoogleConfig  `yaml:"google"`
	Bing     BingConfig    `yaml:"bing"`
	NewsAPI  NewsAPIConfig `yaml:"newsapi"`
	RSS      RSSConfig     `yaml:"rss"`
}

func DefaultConfig() Config {
	return Config{
		Timeout:  defaultTimeout,
		Limit:    defaultLimit,
		Priority: slices.Clone(DefaultPriority),
	}
}

// LoadEnv builds the config from SOURCES_CONFIG (optional YAML path) and the
// credential variables.
func LoadEnv() (Config, error) {
	cfg := DefaultConfig()
	if path := os.Getenv("SOURCES_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse sources config %s: %w", path, err)
	}
	slog.Info("sources config loaded", "path", path)
	return nil
}

func (c *Config) ApplyEnv() {
	c.Google.APIKey = os.Getenv("GOOGLE_API_KEY")
	c.Google.CX = os.Getenv("GOOGLE_CX")
	c.Bing.APIKey = os.Getenv("BING_API_KEY")
	c.NewsAPI.APIKey = os.Getenv("NEWSAPI_KEY")
	if tpl := os.Getenv("RSS_SEARCH_URL"); tpl != "" {
		c.RSS.URLTemplate = tpl
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Limit <= 0 {
		c.Limit = defaultLimit
	}
	if len(c.Priority) == 0 {
		c.Priority = slices.Clone(DefaultPriority)
	}

	var errs []error
	seen := make(map[string]bool, len(c.Priority))
	for _, name := range c.Priority {
		if !slices.Contains(DefaultPriority, name) {
			errs = append(errs, fmt.Errorf("unknown source %q", name))
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("source %q listed twice", name))
		}
		seen[name] = true
	}
	return errors.Join(errs...)
}

// NewAdapters builds the configured adapters in priority order. Adapters
// without credentials are included; they report Enabled() == false.
func NewAdapters(cfg Config, opts ...Option) []Adapter {
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)

	adapters := make([]Adapter, 0, len(cfg.Priority))
	for _, name := range cfg.Priority {
		switch name {
		case NameGoogle:
			adapters = append(adapters, NewGoogle(cfg.Google, opts...))
		case NameBing:
			adapters = append(adapters, NewBing(cfg.Bing, opts...))
		case NameNewsAPI:
			adapters = append(adapters, NewNewsAPI(cfg.NewsAPI, opts...))
		case NameRSS:
			adapters = append(adapters, NewRSS(cfg.RSS, opts...))
		}
	}
	return adapters
}
