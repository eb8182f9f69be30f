package dto

import (
	"strings"

	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
)

type ColumnResponse struct {
	domain.CustomColumn
	// Values maps result id to the column value.
	Values map[string]string `json:"values"`
}

type SavedQueryResultsResponse struct {
	Search  domain.SavedQuery        `json:"search"`
	Count   int                      `json:"count"`
	Results []domain.PersistedResult `json:"results"`
	Columns []ColumnResponse         `json:"columns"`
}

type CreateColumnRequest struct {
	Name          string            `json:"name" example:"sentiment"`
	Description   string            `json:"description"`
	GeneratedByAI bool              `json:"generated_by_ai"`
	Values        map[string]string `json:"values"`
}

func (r *CreateColumnRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperr.NewValidation("column name is required")
	}
	return nil
}
