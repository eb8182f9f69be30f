package source

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("SOURCES_CONFIG", "")
	t.Setenv("GOOGLE_API_KEY", "g")
	t.Setenv("GOOGLE_CX", "cx")
	t.Setenv("BING_API_KEY", "")
	t.Setenv("NEWSAPI_KEY", "n")
	t.Setenv("RSS_SEARCH_URL", "")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, DefaultPriority, cfg.Priority)

	adapters := NewAdapters(cfg)
	require.Len(t, adapters, 4)
	enabled := map[string]bool{}
	for _, a := range adapters {
		enabled[a.Name()] = a.Enabled()
	}
	assert.Equal(t, map[string]bool{"google": true, "bing": false, "newsapi": true, "rss": false}, enabled)
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeout: 5s
limit: 7
priority: [newsapi, google]
google:
  endpoint: http://google.local/cse
rss:
  url_template: http://feeds.local/?q={query}
`), 0o600))

	t.Setenv("SOURCES_CONFIG", path)
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_CX", "")
	t.Setenv("BING_API_KEY", "")
	t.Setenv("NEWSAPI_KEY", "")
	t.Setenv("RSS_SEARCH_URL", "")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 7, cfg.Limit)
	assert.Equal(t, []string{"newsapi", "google"}, cfg.Priority)
	assert.Equal(t, "http://google.local/cse", cfg.Google.Endpoint)
	assert.Equal(t, "http://feeds.local/?q={query}", cfg.RSS.URLTemplate)

	adapters := NewAdapters(cfg)
	require.Len(t, adapters, 2)
	assert.Equal(t, "newsapi", adapters[0].Name())
	assert.Equal(t, "google", adapters[1].Name())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Priority = []string{"google", "yahoo", "google"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown source "yahoo"`)
	assert.Contains(t, err.Error(), `source "google" listed twice`)
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"":                             "",
		"plain":                        "plain",
		"<b>bold</b>   and\n<i>it</i>": "bold and it",
		"Tom &amp; Jerry":              "Tom & Jerry",
		"<script>x()</script>safe":     "safe",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanText(in), in)
	}
}
