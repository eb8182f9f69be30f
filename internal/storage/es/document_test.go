package es

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToDocument(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	sq := uuid.New()
	r := domain.NewPersistedResult(sq, domain.Result{
		Title:  "Solar output",
		URL:    "https://a.example/solar",
		Source: "Google",
		Score:  85,
	}, now)

	doc := toDocument(r, now.Add(time.Minute))

	assert.Equal(t, r.ID.String(), doc.ID)
	assert.Equal(t, sq.String(), doc.SearchID)
	assert.Equal(t, "Solar output", doc.Title)
	assert.Equal(t, "2025-03-10", doc.Date)
	assert.Equal(t, domain.DefaultStatus, doc.Status)
	assert.Equal(t, 85, doc.Score)
	assert.Equal(t, now.Add(time.Minute), doc.IndexedAt)
}

func TestBuildMapping_KeywordFilters(t *testing.T) {
	m := buildMapping()
	for _, field := range []string{"country", "language", "category", "status", "source", "url"} {
		assert.Contains(t, m.Properties, field)
	}
}
