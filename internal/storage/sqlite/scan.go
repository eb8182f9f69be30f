package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/google/uuid"
)

const resultColumns = `id, search_id, title, url, snippet, country, language, date, category, status, source, score, metadata, created_at`

const automationColumns = `id, owner, search_id, frequency, last_run, next_run, is_active, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (domain.PersistedResult, error) {
	var (
		r                     domain.PersistedResult
		rawID, rawSQ, created string
		metadata              sql.NullString
	)
	err := row.Scan(&rawID, &rawSQ, &r.Title, &r.URL, &r.Snippet, &r.Country, &r.Language, &r.Date,
		&r.Category, &r.Status, &r.Source, &r.Score, &metadata, &created)
	if err != nil {
		return domain.PersistedResult{}, err
	}
	if r.ID, err = uuid.Parse(rawID); err != nil {
		return domain.PersistedResult{}, err
	}
	if r.SavedQueryID, err = uuid.Parse(rawSQ); err != nil {
		return domain.PersistedResult{}, err
	}
	if r.CreatedAt, err = parseTime(created); err != nil {
		return domain.PersistedResult{}, err
	}
	if metadata.Valid {
		r.Metadata = []byte(metadata.String)
	}
	return r, nil
}

func scanAutomation(row scanner) (domain.Automation, error) {
	var (
		a                              domain.Automation
		rawID, rawSQ, freq, next, made string
		last                           sql.NullString
		active                         int
	)
	err := row.Scan(&rawID, &a.Owner, &rawSQ, &freq, &last, &next, &active, &made)
	if err != nil {
		return domain.Automation{}, err
	}
	if a.ID, err = uuid.Parse(rawID); err != nil {
		return domain.Automation{}, err
	}
	if a.SavedQueryID, err = uuid.Parse(rawSQ); err != nil {
		return domain.Automation{}, err
	}
	if a.NextRun, err = parseTime(next); err != nil {
		return domain.Automation{}, err
	}
	if a.CreatedAt, err = parseTime(made); err != nil {
		return domain.Automation{}, err
	}
	if last.Valid {
		t, err := parseTime(last.String)
		if err != nil {
			return domain.Automation{}, err
		}
		a.LastRun = &t
	}
	a.Frequency = domain.Frequency(freq)
	a.IsActive = active == 1
	return a, nil
}

func fillSavedQuery(q *domain.SavedQuery, rawID, filters, created string) error {
	var err error
	if q.ID, err = uuid.Parse(rawID); err != nil {
		return err
	}
	if q.CreatedAt, err = parseTime(created); err != nil {
		return err
	}
	q.Filters = domain.FilterSet{}
	if filters != "" {
		if err := json.Unmarshal([]byte(filters), &q.Filters); err != nil {
			return fmt.Errorf("parse filters: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", v, err)
	}
	return t, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
