package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Radar Feed</title>
  <item>
    <title>Wind farms expand</title>
    <link>https://r.example/1</link>
    <description>&lt;p&gt;Offshore &lt;b&gt;growth&lt;/b&gt;&lt;/p&gt;</description>
    <pubDate>Mon, 03 Feb 2025 09:30:00 GMT</pubDate>
  </item>
  <item>
    <title>Second</title>
    <link>https://r.example/2</link>
  </item>
  <item>
    <title>Third</title>
    <link>https://r.example/3</link>
  </item>
</channel>
</rss>`

func TestRSS_Fetch(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	t.Cleanup(srv.Close)

	r := NewRSS(RSSConfig{URLTemplate: srv.URL + "/search?q={query}&hl={language}&gl={country}"}, WithClock(clock))
	require.True(t, r.Enabled())

	results, err := r.Fetch(context.Background(), "wind power", domain.FilterSet{"language": "Spanish", "country": "es"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "/search?q=wind+power&hl=sp&gl=ES", gotPath.Load())
	require.Len(t, results, 2)
	assert.Equal(t, "Wind farms expand", results[0].Title)
	assert.Equal(t, "Offshore growth", results[0].Snippet)
	assert.Equal(t, "Radar Feed", results[0].Source)
	assert.Equal(t, "2025-02-03", results[0].Date)
	assert.Equal(t, "News", results[0].Category)
	assert.Equal(t, 70, results[0].Score)
	assert.Equal(t, "2025-03-10", results[1].Date)
}

func TestRSS_FeedURLDefaults(t *testing.T) {
	r := NewRSS(RSSConfig{URLTemplate: "https://feeds.example/?q={query}&hl={language}&gl={country}"})
	assert.Equal(t, "https://feeds.example/?q=a%26b&hl=en&gl=US", r.feedURL("a&b", nil))
}

func TestRSS_BadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	t.Cleanup(srv.Close)

	r := NewRSS(RSSConfig{URLTemplate: srv.URL + "/?q={query}"})
	results, err := r.Fetch(context.Background(), "q", nil, 10)
	assert.Empty(t, results)
	var te *TransportError
	assert.ErrorAs(t, err, &te)
}
