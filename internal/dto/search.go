package dto

import (
	"strings"

	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/google/uuid"
)

type SearchRequest struct {
	Query   string           `json:"query" example:"renewable energy"`
	Filters domain.FilterSet `json:"filters"`
	// Save persists the aggregation as a new saved query owned by the caller.
	Save bool `json:"save"`
}

func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return apperr.NewValidation("query is required")
	}
	return nil
}

type SearchResponse struct {
	SearchID *uuid.UUID      `json:"search_id,omitempty"`
	Inserted int             `json:"inserted,omitempty"`
	Count    int             `json:"count"`
	Results  []domain.Result `json:"results"`
}

// RefineRequest filters either the stored results of SearchID or a fresh
// aggregation of Query.
type RefineRequest struct {
	SearchID *uuid.UUID       `json:"search_id,omitempty"`
	Query    string           `json:"query,omitempty"`
	Filters  domain.FilterSet `json:"filters"`
}

func (r *RefineRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.SearchID == nil && r.Query == "" {
		return apperr.NewValidation("search_id or query is required")
	}
	return nil
}

type ResultsResponse struct {
	Count   int             `json:"count"`
	Results []domain.Result `json:"results"`
}

func NewResultsResponse(results []domain.Result) ResultsResponse {
	if results == nil {
		results = []domain.Result{}
	}
	return ResultsResponse{Count: len(results), Results: results}
}
