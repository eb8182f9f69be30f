// Package source adapts third-party search and news APIs to domain.Result.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

const (
	NameGoogle  = "google"
	NameBing    = "bing"
	NameNewsAPI = "newsapi"
	NameRSS     = "rss"
)

// DefaultPriority is the order results are concatenated in before dedup.
var DefaultPriority = []string{NameGoogle, NameBing, NameNewsAPI, NameRSS}

const (
	defaultTimeout = 20 * time.Second
	defaultLimit   = 10
)

// ErrAdapterUnavailable is returned by Fetch when the adapter has no
// credentials. No request is made.
var ErrAdapterUnavailable = errors.New("source adapter unavailable")

// Adapter queries one external source. Fetch always returns a usable slice;
// a non-nil error is informational and never aborts an aggregation.
type Adapter interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, query string, filters domain.FilterSet, limit int) ([]domain.Result, error)
}

// TransportError wraps network failures, non-2xx statuses and malformed
// bodies returned by a source.
type TransportError struct {
	Adapter string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Adapter, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Option func(o *options)

type options struct {
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		client:  http.DefaultClient,
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithTimeout bounds each request made by the adapter.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func effectiveLimit(limit, max int) int {
	if limit <= 0 {
		limit = defaultLimit
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

// finalize cleans markup, fills defaults and drops results without a URL.
func finalize(results []domain.Result, now time.Time) []domain.Result {
	out := make([]domain.Result, 0, len(results))
	for _, r := range results {
		r.URL = r.Key()
		if r.URL == "" {
			continue
		}
		r.Title = cleanText(r.Title)
		r.Snippet = cleanText(r.Snippet)
		out = append(out, r.WithDefaults(now))
	}
	return out
}
