// Package aggregator fans a query out to every enabled source and returns one
// deduplicated result list.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/source"
)

// Searcher is what the merge pipeline and the API depend on.
type Searcher interface {
	SearchAllSources(ctx context.Context, query string, filters domain.FilterSet) ([]domain.Result, error)
}

type SourceReport struct {
	Name     string
	Count    int
	Err      error
	Duration time.Duration
	Skipped  bool
}

// SearchReport describes one aggregation, source by source in priority order.
type SearchReport struct {
	Sources []SourceReport
	Total   int
	Unique  int
}

type Aggregator struct {
	adapters []source.Adapter
	limit    int
	logger   *slog.Logger
}

type Option func(a *Aggregator)

func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLimit sets the per-source result limit.
func WithLimit(n int) Option {
	return func(a *Aggregator) {
		a.limit = n
	}
}

// New keeps adapters in the given order. That order decides which copy of a
// duplicated URL survives.
func New(adapters []source.Adapter, opts ...Option) *Aggregator {
	a := &Aggregator{
		adapters: adapters,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) SearchAllSources(ctx context.Context, query string, filters domain.FilterSet) ([]domain.Result, error) {
	results, _, err := a.Search(ctx, query, filters)
	return results, err
}

// Search runs every enabled adapter concurrently and waits for all of them.
// Failing adapters contribute nothing. The only error returned is the
// context's.
func (a *Aggregator) Search(ctx context.Context, query string, filters domain.FilterSet) ([]domain.Result, SearchReport, error) {
	batches := make([][]domain.Result, len(a.adapters))
	reports := make([]SourceReport, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		reports[i].Name = adapter.Name()
		if !adapter.Enabled() {
			reports[i].Skipped = true
			reports[i].Err = source.ErrAdapterUnavailable
			continue
		}

		wg.Add(1)
		go func(i int, adapter source.Adapter) {
			defer wg.Done()
			start := time.Now()
			results, err := adapter.Fetch(ctx, query, filters, a.limit)
			batches[i] = results
			reports[i].Count = len(results)
			reports[i].Err = err
			reports[i].Duration = time.Since(start)
		}(i, adapter)
	}
	wg.Wait()

	report := SearchReport{Sources: reports}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	var total int
	for i, r := range reports {
		total += len(batches[i])
		switch {
		case r.Skipped:
			a.logger.Debug("source disabled", "source", r.Name)
		case r.Err != nil && !errors.Is(r.Err, source.ErrAdapterUnavailable):
			a.logger.Warn("source failed", "source", r.Name, "error", r.Err, "duration", r.Duration)
		default:
			a.logger.Debug("source fetched", "source", r.Name, "count", r.Count, "duration", r.Duration)
		}
	}

	merged := make([]domain.Result, 0, total)
	for _, batch := range batches {
		merged = append(merged, batch...)
	}
	unique := Dedupe(merged)

	report.Total = total
	report.Unique = len(unique)
	a.logger.Info("aggregation completed", "query", query, "total", total, "unique", len(unique))

	return unique, report, nil
}

// Dedupe keeps the first result for every URL, preserving order.
func Dedupe(results []domain.Result) []domain.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]domain.Result, 0, len(results))
	for _, r := range results {
		key := r.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
