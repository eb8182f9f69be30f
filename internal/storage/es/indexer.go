package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// Indexer mirrors newly merged results into a search index.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	now       func() time.Time
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &Indexer{
		client:    client,
		indexName: config.IndexName,
		now:       time.Now,
	}

	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.client.Indices.Exists(i.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", i.indexName)
		return nil
	}

	settings := buildSettings()
	mappings := buildMapping()
	_, err = i.client.Indices.Create(i.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	slog.Info("Index created", "index", i.indexName)
	return nil
}

// IndexOne writes a single document, replacing any previous version.
func (i *Indexer) IndexOne(ctx context.Context, r domain.PersistedResult) error {
	doc := toDocument(r, i.now())
	res, err := i.client.Index(i.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	slog.Debug("document indexed", "id", doc.ID, "index", i.indexName, "result", res.Result)
	return nil
}

func (i *Indexer) IndexResults(ctx context.Context, results []domain.PersistedResult) error {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return i.IndexOne(ctx, results[0])
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      i.indexName,
		Client:     i.client,
		NumWorkers: 2,
		FlushBytes: 1e+6,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	now := i.now()
	for _, r := range results {
		doc := toDocument(r, now)
		body, err := json.Marshal(doc)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to marshal document", "error", err, "id", doc.ID)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					return
				}
				slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add document to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d results", n, len(results))
	}
	slog.Info("results indexed", "count", len(results), "index", i.indexName)
	return nil
}

var _ storage.ResultIndexer = (*Indexer)(nil)
