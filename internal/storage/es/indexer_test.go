//go:build integration

package es

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	estesting "github.com/DjordjeVuckovic/news-radar/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_IndexResults(t *testing.T) {
	ctx := context.Background()
	container := estesting.NewESContainer(ctx, t)

	idx, err := NewIndexer(ctx, ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "radar_results_test",
	})
	require.NoError(t, err)

	require.NoError(t, idx.EnsureIndex(ctx), "ensuring an existing index is a no-op")

	sq := uuid.New()
	now := time.Now().UTC()
	results := []domain.PersistedResult{
		domain.NewPersistedResult(sq, domain.Result{Title: "a", URL: "https://a.example"}, now),
		domain.NewPersistedResult(sq, domain.Result{Title: "b", URL: "https://b.example"}, now),
	}
	require.NoError(t, idx.IndexResults(ctx, results))

	got, err := idx.client.Get(idx.indexName, results[1].ID.String()).Do(ctx)
	require.NoError(t, err)
	assert.True(t, got.Found)
}
