package aggregator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	name    string
	enabled bool
	delay   time.Duration
	results []domain.Result
	err     error
	calls   atomic.Int32
}

func (f *fakeAdapter) Name() string  { return f.name }
func (f *fakeAdapter) Enabled() bool { return f.enabled }

func (f *fakeAdapter) Fetch(ctx context.Context, _ string, _ domain.FilterSet, _ int) ([]domain.Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &source.TransportError{Adapter: f.name, Err: ctx.Err()}
		}
	}
	return f.results, f.err
}

func res(url, src string, score int) domain.Result {
	return domain.Result{Title: url, URL: url, Source: src, Score: score}
}

func TestSearch_PriorityWinsOverArrival(t *testing.T) {
	google := &fakeAdapter{name: "google", enabled: true, delay: 40 * time.Millisecond,
		results: []domain.Result{res("https://x.example", "Google", 85), res("https://g.example", "Google", 85)}}
	bing := &fakeAdapter{name: "bing", enabled: true,
		results: []domain.Result{res("https://x.example", "Bing", 80), res("https://b.example", "Bing", 80)}}
	news := &fakeAdapter{name: "newsapi", enabled: true,
		results: []domain.Result{res(" https://x.example ", "NewsAPI", 90)}}

	agg := New([]source.Adapter{google, bing, news})
	results, report, err := agg.Search(context.Background(), "q", nil)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "https://x.example", results[0].URL)
	assert.Equal(t, "Google", results[0].Source, "the highest priority copy survives even when it arrives last")
	assert.Equal(t, 85, results[0].Score)
	assert.Equal(t, "https://g.example", results[1].URL)
	assert.Equal(t, "https://b.example", results[2].URL)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 3, report.Unique)
}

func TestSearch_PartialFailure(t *testing.T) {
	failing := &fakeAdapter{name: "google", enabled: true, err: &source.TransportError{Adapter: "google", Err: errors.New("503")}}
	ok := &fakeAdapter{name: "newsapi", enabled: true, results: []domain.Result{res("https://n.example", "NewsAPI", 90)}}

	results, report, err := New([]source.Adapter{failing, ok}).Search(context.Background(), "q", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://n.example", results[0].URL)

	var te *source.TransportError
	assert.ErrorAs(t, report.Sources[0].Err, &te)
	assert.NoError(t, report.Sources[1].Err)
}

func TestSearch_AllDisabled(t *testing.T) {
	a := &fakeAdapter{name: "google"}
	b := &fakeAdapter{name: "bing"}

	results, report, err := New([]source.Adapter{a, b}).Search(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Zero(t, a.calls.Load())
	assert.Zero(t, b.calls.Load())
	for _, r := range report.Sources {
		assert.True(t, r.Skipped)
		assert.ErrorIs(t, r.Err, source.ErrAdapterUnavailable)
	}
}

func TestSearch_NoAdapters(t *testing.T) {
	results, err := New(nil).SearchAllSources(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ContextCanceled(t *testing.T) {
	slow := &fakeAdapter{name: "google", enabled: true, delay: time.Minute}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results, err := New([]source.Adapter{slow}).SearchAllSources(ctx, "q", nil)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDedupe(t *testing.T) {
	in := []domain.Result{
		res("https://a.example", "Google", 85),
		res("", "Google", 85),
		res("https://a.example", "Bing", 80),
		res("https://b.example", "Bing", 80),
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "Google", out[0].Source)
	assert.Equal(t, "https://b.example", out[1].URL)
}
