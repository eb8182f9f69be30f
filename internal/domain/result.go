package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCategory = "Web"
	DefaultStatus   = "Activo"
	DefaultUnknown  = "Unknown"

	DateLayout = "2006-01-02"
)

// Result is one search hit normalized to the shape shared by every source.
// URL identifies the hit inside a saved query.
type Result struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Country  string `json:"country"`
	Language string `json:"language"`
	Score    int    `json:"score"`
}

// WithDefaults fills optional fields left empty by an adapter.
func (r Result) WithDefaults(now time.Time) Result {
	if r.Source == "" {
		r.Source = DefaultUnknown
	}
	if r.Date == "" {
		r.Date = now.Format(DateLayout)
	}
	if r.Category == "" {
		r.Category = DefaultCategory
	}
	if r.Status == "" {
		r.Status = DefaultStatus
	}
	if r.Country == "" {
		r.Country = DefaultUnknown
	}
	if r.Language == "" {
		r.Language = DefaultUnknown
	}
	return r
}

// Key is the value results are deduplicated by.
func (r Result) Key() string {
	return strings.TrimSpace(r.URL)
}

// PersistedResult is a Result stored under a saved query.
type PersistedResult struct {
	Result
	ID           uuid.UUID `json:"id"`
	SavedQueryID uuid.UUID `json:"search_id"`
	Metadata     []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewPersistedResult(savedQueryID uuid.UUID, r Result, now time.Time) PersistedResult {
	return PersistedResult{
		Result:       r.WithDefaults(now),
		ID:           uuid.New(),
		SavedQueryID: savedQueryID,
		CreatedAt:    now,
	}
}
