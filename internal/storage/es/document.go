package es

import (
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// ResultDocument is the indexed shape of a persisted result.
type ResultDocument struct {
	ID        string    `json:"id"`
	SearchID  string    `json:"search_id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Country   string    `json:"country"`
	Language  string    `json:"language"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	IndexedAt time.Time `json:"indexed_at"`
}

func toDocument(r domain.PersistedResult, now time.Time) ResultDocument {
	return ResultDocument{
		ID:        r.ID.String(),
		SearchID:  r.SavedQueryID.String(),
		Title:     r.Title,
		Snippet:   r.Snippet,
		URL:       r.URL,
		Source:    r.Source,
		Date:      r.Date,
		Category:  r.Category,
		Status:    r.Status,
		Country:   r.Country,
		Language:  r.Language,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
		IndexedAt: now,
	}
}

const analyzerName = "multilingual_analyzer"

func buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				analyzerName: types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}
}

func buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"search_id":  types.NewKeywordProperty(),
			"title":      textPropertyWithKeyword(analyzerName),
			"snippet":    textProperty(analyzerName),
			"url":        types.NewKeywordProperty(),
			"source":     types.NewKeywordProperty(),
			"date":       types.NewKeywordProperty(),
			"category":   types.NewKeywordProperty(),
			"status":     types.NewKeywordProperty(),
			"country":    types.NewKeywordProperty(),
			"language":   types.NewKeywordProperty(),
			"score":      types.NewIntegerNumberProperty(),
			"created_at": types.NewDateProperty(),
			"indexed_at": types.NewDateProperty(),
		},
	}
}

func textProperty(analyzer string) types.Property {
	p := types.NewTextProperty()
	if analyzer != "" {
		p.Analyzer = &analyzer
	}
	return p
}

func textPropertyWithKeyword(analyzer string) types.Property {
	p := types.NewTextProperty()
	if analyzer != "" {
		p.Analyzer = &analyzer
	}
	p.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return p
}
