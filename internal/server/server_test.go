package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/news-radar/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool { return bool(h) }

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("USE_HTTP2", "")
	t.Setenv("CORS_ORIGINS", " http://a.example , ,http://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.UseHttp2)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CorsOrigins)

	t.Setenv("PORT", "70000")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "http")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestHealthChecks(t *testing.T) {
	tests := []struct {
		name   string
		health server.HealthChecker
		status int
	}{
		{name: "healthy", health: server.NewOkHealthChecker(), status: http.StatusOK},
		{name: "unhealthy", health: staticHealth(false), status: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: "8080", CorsOrigins: []string{"*"}}, tt.health).
				SetupMiddlewares().
				SetupErrorHandler().
				SetupHealthChecks("/health")
			defer s.stop()

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
