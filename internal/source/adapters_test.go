package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type capture struct {
	calls  atomic.Int32
	query  atomic.Value
	header atomic.Value
}

func (c *capture) values() url.Values { return c.query.Load().(url.Values) }
func (c *capture) headers() http.Header { return c.header.Load().(http.Header) }

func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.calls.Add(1)
		c.query.Store(r.URL.Query())
		c.header.Store(r.Header.Clone())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestGoogle_Fetch(t *testing.T) {
	srv, c := fakeServer(t, http.StatusOK, `{"items":[
		{"title":"<b>Solar</b> &amp; wind","link":"https://a.example/1","snippet":"first"},
		{"title":"no link","link":"","snippet":"dropped"},
		{"title":"Second","link":" https://a.example/2 ","snippet":"second"}]}`)

	g := NewGoogle(GoogleConfig{Endpoint: srv.URL, APIKey: "k", CX: "cx"}, WithClock(clock))
	results, err := g.Fetch(context.Background(), "renewable energy", domain.FilterSet{
		"country":  "ES",
		"language": "Spanish",
		"topic":    "ignored",
	}, 0)
	require.NoError(t, err)

	q := c.values()
	assert.Equal(t, "k", q.Get("key"))
	assert.Equal(t, "cx", q.Get("cx"))
	assert.Equal(t, "renewable energy", q.Get("q"))
	assert.Equal(t, "10", q.Get("num"))
	assert.Equal(t, "countryES", q.Get("cr"))
	assert.Equal(t, "lang_sp", q.Get("lr"))
	assert.False(t, q.Has("topic"))

	require.Len(t, results, 2)
	assert.Equal(t, domain.Result{
		Title:    "Solar & wind",
		URL:      "https://a.example/1",
		Snippet:  "first",
		Source:   "Google",
		Date:     "2025-03-10",
		Category: "Web",
		Status:   "Activo",
		Country:  "Unknown",
		Language: "Unknown",
		Score:    85,
	}, results[0])
	assert.Equal(t, "https://a.example/2", results[1].URL)
}

func TestGoogle_NumIsCapped(t *testing.T) {
	srv, c := fakeServer(t, http.StatusOK, `{}`)
	g := NewGoogle(GoogleConfig{Endpoint: srv.URL, APIKey: "k", CX: "cx"})

	results, err := g.Fetch(context.Background(), "q", nil, 50)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "10", c.values().Get("num"))
}

func TestBing_Fetch(t *testing.T) {
	srv, c := fakeServer(t, http.StatusOK, `{"webPages":{"value":[
		{"name":"Bing hit","url":"https://b.example/1","snippet":"<i>snip</i>"}]}}`)

	b := NewBing(BingConfig{Endpoint: srv.URL, APIKey: "secret"}, WithClock(clock))
	results, err := b.Fetch(context.Background(), "q", domain.FilterSet{"country": "MX", "language": "ES"}, 5)
	require.NoError(t, err)

	assert.Equal(t, "secret", c.headers().Get("Ocp-Apim-Subscription-Key"))
	q := c.values()
	assert.Equal(t, "5", q.Get("count"))
	assert.Equal(t, "Webpages", q.Get("responseFilter"))
	assert.Equal(t, "MX", q.Get("cc"))
	assert.Equal(t, "es", q.Get("setLang"))

	require.Len(t, results, 1)
	assert.Equal(t, "Bing", results[0].Source)
	assert.Equal(t, "snip", results[0].Snippet)
	assert.Equal(t, 80, results[0].Score)
}

func TestNewsAPI_Fetch(t *testing.T) {
	srv, c := fakeServer(t, http.StatusOK, `{"status":"ok","articles":[
		{"title":"Story","url":"https://n.example/1","description":"desc","publishedAt":"2024-11-02T10:00:00Z","source":{"name":"El País"}},
		{"title":"Anon","url":"https://n.example/2","description":"","publishedAt":"","source":{"name":""}}]}`)

	n := NewNewsAPI(NewsAPIConfig{Endpoint: srv.URL, APIKey: "nk"}, WithClock(clock))
	results, err := n.Fetch(context.Background(), "q", domain.FilterSet{"country": "ES", "language": "es"}, 0)
	require.NoError(t, err)

	q := c.values()
	assert.Equal(t, "nk", q.Get("apiKey"))
	assert.Equal(t, "10", q.Get("pageSize"))
	assert.Equal(t, "relevancy", q.Get("sortBy"))
	assert.Equal(t, "es", q.Get("language"))
	assert.False(t, q.Has("country"), "country has no mapping on /everything")

	require.Len(t, results, 2)
	assert.Equal(t, "El País", results[0].Source)
	assert.Equal(t, "2024-11-02", results[0].Date)
	assert.Equal(t, "News", results[0].Category)
	assert.Equal(t, 90, results[0].Score)
	assert.Equal(t, "NewsAPI", results[1].Source)
	assert.Equal(t, "2025-03-10", results[1].Date)
}

func TestAdapters_DisabledMakeNoCall(t *testing.T) {
	srv, c := fakeServer(t, http.StatusOK, `{}`)

	adapters := []Adapter{
		NewGoogle(GoogleConfig{Endpoint: srv.URL, APIKey: "only-key"}),
		NewBing(BingConfig{Endpoint: srv.URL}),
		NewNewsAPI(NewsAPIConfig{Endpoint: srv.URL}),
		NewRSS(RSSConfig{URLTemplate: srv.URL + "/no-placeholder"}),
	}
	for _, a := range adapters {
		t.Run(a.Name(), func(t *testing.T) {
			assert.False(t, a.Enabled())
			results, err := a.Fetch(context.Background(), "q", nil, 10)
			assert.Empty(t, results)
			assert.ErrorIs(t, err, ErrAdapterUnavailable)
		})
	}
	assert.Zero(t, c.calls.Load())
}

func TestAdapters_TransportFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non 2xx", status: http.StatusTooManyRequests, body: `{"error":"quota"}`},
		{name: "malformed body", status: http.StatusOK, body: `{"items": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := fakeServer(t, tt.status, tt.body)
			g := NewGoogle(GoogleConfig{Endpoint: srv.URL, APIKey: "k", CX: "cx"})

			results, err := g.Fetch(context.Background(), "q", nil, 10)
			assert.Empty(t, results)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, NameGoogle, te.Adapter)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv, _ := fakeServer(t, http.StatusOK, `{}`)
		srv.Close()
		b := NewBing(BingConfig{Endpoint: srv.URL, APIKey: "k"})

		_, err := b.Fetch(context.Background(), "q", nil, 10)
		var te *TransportError
		assert.ErrorAs(t, err, &te)
	})
}

func TestAdapters_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	n := NewNewsAPI(NewsAPIConfig{Endpoint: srv.URL, APIKey: "k"}, WithTimeout(50*time.Millisecond))
	_, err := n.Fetch(context.Background(), "q", nil, 10)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// Sources are trusted to honour the forwarded filters; results that do not
// match are passed through untouched.
func TestAdapters_DoNotPostFilter(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `{"items":[{"title":"t","link":"https://a.example","snippet":"s"}]}`)
	g := NewGoogle(GoogleConfig{Endpoint: srv.URL, APIKey: "k", CX: "cx"})

	results, err := g.Fetch(context.Background(), "q", domain.FilterSet{"country": "ES"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.DefaultUnknown, results[0].Country)
}
