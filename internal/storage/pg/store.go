package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *ConnectionPool
	db   *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{pool: pool, db: pool.GetConn()}
}

func (s *Store) CreateSavedQuery(ctx context.Context, q domain.SavedQuery) error {
	filtersJSON, err := json.Marshal(q.Filters.Clone())
	if err != nil {
		return fmt.Errorf("failed to marshal filters: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO searches (id, owner, query, filters, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, q.ID, q.Owner, q.QueryText, filtersJSON, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert saved query: %w", err)
	}
	return nil
}

func (s *Store) FindSavedQuery(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error) {
	row := s.db.QueryRow(ctx, `SELECT id, owner, query, filters, created_at FROM searches WHERE id = $1`, id)
	q, err := scanSavedQuery(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SavedQuery{}, storage.ErrSavedQueryNotFound
	}
	if err != nil {
		return domain.SavedQuery{}, fmt.Errorf("failed to load saved query: %w", err)
	}
	return q, nil
}

func (s *Store) ListSavedQueries(ctx context.Context, owner string, page pagination.OffsetRequest) ([]domain.SavedQuerySummary, int64, error) {
	_ = page.Validate()

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM searches WHERE owner = $1`, owner).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count saved queries: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.owner, s.query, s.filters, s.created_at,
		       (SELECT count(*) FROM results r WHERE r.search_id = s.id),
		       (SELECT count(*) FROM columns c WHERE c.search_id = s.id)
		FROM searches s
		WHERE s.owner = $1
		ORDER BY s.created_at DESC
		OFFSET $2 LIMIT $3
	`, owner, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list saved queries: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedQuerySummary
	for rows.Next() {
		var (
			sum         domain.SavedQuerySummary
			filtersJSON []byte
		)
		if err := rows.Scan(&sum.ID, &sum.Owner, &sum.QueryText, &filtersJSON, &sum.CreatedAt, &sum.ResultsCount, &sum.ColumnsCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan saved query: %w", err)
		}
		if err := unmarshalFilters(filtersJSON, &sum.Filters); err != nil {
			return nil, 0, err
		}
		out = append(out, sum)
	}
	return out, total, rows.Err()
}

func (s *Store) DeleteSavedQuery(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var active bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM automations WHERE search_id = $1 AND is_active)
	`, id).Scan(&active)
	if err != nil {
		return fmt.Errorf("failed to check automations: %w", err)
	}
	if active {
		return storage.ErrSavedQueryInUse
	}

	tag, err := tx.Exec(ctx, `DELETE FROM searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrSavedQueryNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) FindResult(ctx context.Context, savedQueryID uuid.UUID, url string) (domain.PersistedResult, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+resultColumns+`
		FROM results
		WHERE search_id = $1 AND url = $2
	`, savedQueryID, url)
	r, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersistedResult{}, false, nil
	}
	if err != nil {
		return domain.PersistedResult{}, false, fmt.Errorf("failed to load result: %w", err)
	}
	return r, true, nil
}

func (s *Store) InsertResult(ctx context.Context, r domain.PersistedResult) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	tag, err := s.db.Exec(ctx, `
		INSERT INTO results (id, search_id, title, url, snippet, country, language, date, category, status, source, score, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (search_id, url) DO NOTHING
	`,
		r.ID, r.SavedQueryID, r.Title, r.URL, r.Snippet, r.Country, r.Language, r.Date,
		r.Category, r.Status, r.Source, r.Score, nullableJSON(r.Metadata), r.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert result: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListResults(ctx context.Context, savedQueryID uuid.UUID) ([]domain.PersistedResult, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+resultColumns+`
		FROM results
		WHERE search_id = $1
		ORDER BY seq
	`, savedQueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var out []domain.PersistedResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) CreateAutomation(ctx context.Context, a domain.Automation) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO automations (id, owner, search_id, frequency, last_run, next_run, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.Owner, a.SavedQueryID, string(a.Frequency), a.LastRun, a.NextRun, a.IsActive, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert automation: %w", err)
	}
	return nil
}

func (s *Store) FindAutomation(ctx context.Context, id uuid.UUID) (domain.Automation, error) {
	row := s.db.QueryRow(ctx, `SELECT `+automationColumns+` FROM automations WHERE id = $1`, id)
	a, err := scanAutomation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Automation{}, storage.ErrAutomationNotFound
	}
	if err != nil {
		return domain.Automation{}, fmt.Errorf("failed to load automation: %w", err)
	}
	return a, nil
}

func (s *Store) ListAutomations(ctx context.Context, owner string) ([]domain.Automation, error) {
	return s.queryAutomations(ctx, `
		SELECT `+automationColumns+`
		FROM automations
		WHERE owner = $1
		ORDER BY next_run, id
	`, owner)
}

func (s *Store) FindAutomationsDue(ctx context.Context, now time.Time) ([]domain.Automation, error) {
	return s.queryAutomations(ctx, `
		SELECT `+automationColumns+`
		FROM automations
		WHERE is_active AND next_run <= $1
		ORDER BY next_run, id
	`, now)
}

func (s *Store) queryAutomations(ctx context.Context, query string, args ...any) ([]domain.Automation, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query automations: %w", err)
	}
	defer rows.Close()

	var out []domain.Automation
	for rows.Next() {
		a, err := scanAutomation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAutomationRun(ctx context.Context, id uuid.UUID, lastRun, nextRun time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE automations SET last_run = $2, next_run = $3 WHERE id = $1`, id, lastRun, nextRun)
	if err != nil {
		return fmt.Errorf("failed to update automation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAutomationNotFound
	}
	return nil
}

func (s *Store) SetAutomationActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE automations SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update automation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAutomationNotFound
	}
	return nil
}

func (s *Store) CreateColumn(ctx context.Context, col domain.CustomColumn, values []domain.ColumnValue) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO columns (id, search_id, name, description, generated_by_ai, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, col.ID, col.SavedQueryID, col.Name, col.Description, col.GeneratedByAI, col.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert column: %w", err)
	}

	if len(values) > 0 {
		rows := make([][]interface{}, len(values))
		for i, v := range values {
			rows[i] = []interface{}{v.ID, col.ID, v.ResultID, v.Value, v.CreatedAt}
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"column_values"},
			[]string{"id", "column_id", "result_id", "value", "created_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to bulk insert column values: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListColumns(ctx context.Context, savedQueryID uuid.UUID) ([]domain.CustomColumn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, search_id, name, description, generated_by_ai, created_at
		FROM columns
		WHERE search_id = $1
		ORDER BY created_at, id
	`, savedQueryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	var out []domain.CustomColumn
	for rows.Next() {
		var c domain.CustomColumn
		if err := rows.Scan(&c.ID, &c.SavedQueryID, &c.Name, &c.Description, &c.GeneratedByAI, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListColumnValues(ctx context.Context, columnID uuid.UUID) ([]domain.ColumnValue, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, column_id, result_id, COALESCE(value, ''), created_at
		FROM column_values
		WHERE column_id = $1
		ORDER BY created_at, id
	`, columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to list column values: %w", err)
	}
	defer rows.Close()

	var out []domain.ColumnValue
	for rows.Next() {
		var v domain.ColumnValue
		if err := rows.Scan(&v.ID, &v.ColumnID, &v.ResultID, &v.Value, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan column value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ storage.Store = (*Store)(nil)
