package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedQuery is a persisted search whose result set can grow over time.
type SavedQuery struct {
	ID        uuid.UUID `json:"id"`
	Owner     string    `json:"owner"`
	QueryText string    `json:"query"`
	Filters   FilterSet `json:"filters"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSavedQuery(owner, query string, filters FilterSet, now time.Time) SavedQuery {
	return SavedQuery{
		ID:        uuid.New(),
		Owner:     owner,
		QueryText: query,
		Filters:   filters.Clone(),
		CreatedAt: now,
	}
}

// SavedQuerySummary is a history entry.
type SavedQuerySummary struct {
	SavedQuery
	ResultsCount int `json:"results_count"`
	ColumnsCount int `json:"columns_count"`
}
