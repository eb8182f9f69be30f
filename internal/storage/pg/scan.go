package pg

import (
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/jackc/pgx/v5"
)

const resultColumns = `id, search_id, title, url, snippet, country, language, date, category, status, source, score, metadata, created_at`

const automationColumns = `id, owner, search_id, frequency, last_run, next_run, is_active, created_at`

func scanSavedQuery(row pgx.Row) (domain.SavedQuery, error) {
	var (
		q           domain.SavedQuery
		filtersJSON []byte
	)
	if err := row.Scan(&q.ID, &q.Owner, &q.QueryText, &filtersJSON, &q.CreatedAt); err != nil {
		return domain.SavedQuery{}, err
	}
	if err := unmarshalFilters(filtersJSON, &q.Filters); err != nil {
		return domain.SavedQuery{}, err
	}
	return q, nil
}

func scanResult(row pgx.Row) (domain.PersistedResult, error) {
	var r domain.PersistedResult
	err := row.Scan(
		&r.ID,
		&r.SavedQueryID,
		&r.Title,
		&r.URL,
		&r.Snippet,
		&r.Country,
		&r.Language,
		&r.Date,
		&r.Category,
		&r.Status,
		&r.Source,
		&r.Score,
		&r.Metadata,
		&r.CreatedAt,
	)
	return r, err
}

func scanAutomation(row pgx.Row) (domain.Automation, error) {
	var (
		a    domain.Automation
		freq string
	)
	if err := row.Scan(&a.ID, &a.Owner, &a.SavedQueryID, &freq, &a.LastRun, &a.NextRun, &a.IsActive, &a.CreatedAt); err != nil {
		return domain.Automation{}, err
	}
	a.Frequency = domain.Frequency(freq)
	return a, nil
}

func unmarshalFilters(b []byte, dst *domain.FilterSet) error {
	*dst = domain.FilterSet{}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("failed to unmarshal filters: %w", err)
	}
	return nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
