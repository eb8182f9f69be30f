package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
)

// timeLayout is fixed width so that TEXT comparison orders chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) CreateSavedQuery(ctx context.Context, q domain.SavedQuery) error {
	filtersJSON, err := json.Marshal(q.Filters.Clone())
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO searches(id, owner, query, filters, created_at)
		VALUES(?,?,?,?,?)
	`, q.ID.String(), q.Owner, q.QueryText, string(filtersJSON), formatTime(q.CreatedAt))
	return err
}

func (s *Store) FindSavedQuery(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, owner, query, filters, created_at FROM searches WHERE id=?`, id.String())
	var (
		q                        domain.SavedQuery
		rawID, filters, created string
	)
	err := row.Scan(&rawID, &q.Owner, &q.QueryText, &filters, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SavedQuery{}, storage.ErrSavedQueryNotFound
	}
	if err != nil {
		return domain.SavedQuery{}, err
	}
	if err := fillSavedQuery(&q, rawID, filters, created); err != nil {
		return domain.SavedQuery{}, err
	}
	return q, nil
}

func (s *Store) ListSavedQueries(ctx context.Context, owner string, page pagination.OffsetRequest) ([]domain.SavedQuerySummary, int64, error) {
	_ = page.Validate()

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searches WHERE owner=?`, owner).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.owner, s.query, s.filters, s.created_at,
			(SELECT COUNT(*) FROM results r WHERE r.search_id=s.id),
			(SELECT COUNT(*) FROM columns c WHERE c.search_id=s.id)
		FROM searches s
		WHERE s.owner=?
		ORDER BY s.created_at DESC
		LIMIT ? OFFSET ?
	`, owner, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.SavedQuerySummary
	for rows.Next() {
		var (
			sum                      domain.SavedQuerySummary
			rawID, filters, created string
		)
		if err := rows.Scan(&rawID, &sum.Owner, &sum.QueryText, &filters, &created, &sum.ResultsCount, &sum.ColumnsCount); err != nil {
			return nil, 0, err
		}
		if err := fillSavedQuery(&sum.SavedQuery, rawID, filters, created); err != nil {
			return nil, 0, err
		}
		out = append(out, sum)
	}
	return out, total, rows.Err()
}

func (s *Store) DeleteSavedQuery(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var active int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM automations WHERE search_id=? AND is_active=1`, id.String()).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return storage.ErrSavedQueryInUse
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM searches WHERE id=?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrSavedQueryNotFound
	}
	return tx.Commit()
}

func (s *Store) FindResult(ctx context.Context, savedQueryID uuid.UUID, url string) (domain.PersistedResult, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE search_id=? AND url=?`, savedQueryID.String(), url)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PersistedResult{}, false, nil
	}
	if err != nil {
		return domain.PersistedResult{}, false, err
	}
	return r, true, nil
}

func (s *Store) InsertResult(ctx context.Context, r domain.PersistedResult) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	var metadata any
	if len(r.Metadata) > 0 {
		metadata = string(r.Metadata)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results(id, search_id, title, url, snippet, country, language, date, category, status, source, score, metadata, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(search_id, url) DO NOTHING
	`,
		r.ID.String(), r.SavedQueryID.String(), r.Title, r.URL, r.Snippet, r.Country, r.Language, r.Date,
		r.Category, r.Status, r.Source, r.Score, metadata, formatTime(r.CreatedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) ListResults(ctx context.Context, savedQueryID uuid.UUID) ([]domain.PersistedResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+resultColumns+` FROM results WHERE search_id=? ORDER BY rowid`, savedQueryID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.PersistedResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateAutomation(ctx context.Context, a domain.Automation) error {
	var lastRun any
	if a.LastRun != nil {
		lastRun = formatTime(*a.LastRun)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO automations(id, owner, search_id, frequency, last_run, next_run, is_active, created_at)
		VALUES(?,?,?,?,?,?,?,?)
	`, a.ID.String(), a.Owner, a.SavedQueryID.String(), string(a.Frequency), lastRun, formatTime(a.NextRun), boolInt(a.IsActive), formatTime(a.CreatedAt))
	return err
}

func (s *Store) FindAutomation(ctx context.Context, id uuid.UUID) (domain.Automation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+automationColumns+` FROM automations WHERE id=?`, id.String())
	a, err := scanAutomation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Automation{}, storage.ErrAutomationNotFound
	}
	return a, err
}

func (s *Store) ListAutomations(ctx context.Context, owner string) ([]domain.Automation, error) {
	return s.queryAutomations(ctx, `SELECT `+automationColumns+` FROM automations WHERE owner=? ORDER BY next_run, id`, owner)
}

func (s *Store) FindAutomationsDue(ctx context.Context, now time.Time) ([]domain.Automation, error) {
	return s.queryAutomations(ctx, `
		SELECT `+automationColumns+`
		FROM automations
		WHERE is_active=1 AND next_run <= ?
		ORDER BY next_run, id
	`, formatTime(now))
}

func (s *Store) queryAutomations(ctx context.Context, query string, args ...any) ([]domain.Automation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Automation
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAutomationRun(ctx context.Context, id uuid.UUID, lastRun, nextRun time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE automations SET last_run=?, next_run=? WHERE id=?`, formatTime(lastRun), formatTime(nextRun), id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrAutomationNotFound
	}
	return nil
}

func (s *Store) SetAutomationActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE automations SET is_active=? WHERE id=?`, boolInt(active), id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrAutomationNotFound
	}
	return nil
}

func (s *Store) CreateColumn(ctx context.Context, col domain.CustomColumn, values []domain.ColumnValue) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO columns(id, search_id, name, description, generated_by_ai, created_at)
		VALUES(?,?,?,?,?,?)
	`, col.ID.String(), col.SavedQueryID.String(), col.Name, col.Description, boolInt(col.GeneratedByAI), formatTime(col.CreatedAt))
	if err != nil {
		return err
	}
	for _, v := range values {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO column_values(id, column_id, result_id, value, created_at)
			VALUES(?,?,?,?,?)
		`, v.ID.String(), col.ID.String(), v.ResultID.String(), v.Value, formatTime(v.CreatedAt))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListColumns(ctx context.Context, savedQueryID uuid.UUID) ([]domain.CustomColumn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, search_id, name, description, generated_by_ai, created_at
		FROM columns WHERE search_id=? ORDER BY created_at, id
	`, savedQueryID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.CustomColumn
	for rows.Next() {
		var (
			c                      domain.CustomColumn
			rawID, rawSQ, created string
			ai                     int
		)
		if err := rows.Scan(&rawID, &rawSQ, &c.Name, &c.Description, &ai, &created); err != nil {
			return nil, err
		}
		if c.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if c.SavedQueryID, err = uuid.Parse(rawSQ); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		c.GeneratedByAI = ai == 1
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListColumnValues(ctx context.Context, columnID uuid.UUID) ([]domain.ColumnValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, column_id, result_id, COALESCE(value, ''), created_at
		FROM column_values WHERE column_id=? ORDER BY rowid
	`, columnID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.ColumnValue
	for rows.Next() {
		var (
			v                                  domain.ColumnValue
			rawID, rawColumn, rawResult, created string
		)
		if err := rows.Scan(&rawID, &rawColumn, &rawResult, &v.Value, &created); err != nil {
			return nil, err
		}
		if v.ID, err = uuid.Parse(rawID); err != nil {
			return nil, err
		}
		if v.ColumnID, err = uuid.Parse(rawColumn); err != nil {
			return nil, err
		}
		if v.ResultID, err = uuid.Parse(rawResult); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)
