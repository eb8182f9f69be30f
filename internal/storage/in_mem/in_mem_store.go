package in_mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
)

type resultKey struct {
	savedQueryID uuid.UUID
	url          string
}

// Store keeps everything in process memory. Results keep insertion order.
type Store struct {
	storageLock sync.RWMutex
	queries     map[uuid.UUID]domain.SavedQuery
	results     map[uuid.UUID][]domain.PersistedResult
	resultIndex map[resultKey]int
	automations map[uuid.UUID]domain.Automation
	columns     map[uuid.UUID]domain.CustomColumn
	values      map[uuid.UUID][]domain.ColumnValue
}

func NewStore() *Store {
	return &Store{
		queries:     make(map[uuid.UUID]domain.SavedQuery),
		results:     make(map[uuid.UUID][]domain.PersistedResult),
		resultIndex: make(map[resultKey]int),
		automations: make(map[uuid.UUID]domain.Automation),
		columns:     make(map[uuid.UUID]domain.CustomColumn),
		values:      make(map[uuid.UUID][]domain.ColumnValue),
	}
}

func (s *Store) CreateSavedQuery(_ context.Context, q domain.SavedQuery) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	if _, ok := s.queries[q.ID]; ok {
		return fmt.Errorf("saved query %s already exists", q.ID)
	}
	q.Filters = q.Filters.Clone()
	s.queries[q.ID] = q
	return nil
}

func (s *Store) FindSavedQuery(_ context.Context, id uuid.UUID) (domain.SavedQuery, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	q, ok := s.queries[id]
	if !ok {
		return domain.SavedQuery{}, storage.ErrSavedQueryNotFound
	}
	q.Filters = q.Filters.Clone()
	return q, nil
}

func (s *Store) ListSavedQueries(_ context.Context, owner string, page pagination.OffsetRequest) ([]domain.SavedQuerySummary, int64, error) {
	_ = page.Validate()
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	var owned []domain.SavedQuery
	for _, q := range s.queries {
		if q.Owner == owner {
			owned = append(owned, q)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := int64(len(owned))
	start := page.Offset()
	if start > len(owned) {
		start = len(owned)
	}
	end := start + page.Size
	if end > len(owned) {
		end = len(owned)
	}

	out := make([]domain.SavedQuerySummary, 0, end-start)
	for _, q := range owned[start:end] {
		columns := 0
		for _, c := range s.columns {
			if c.SavedQueryID == q.ID {
				columns++
			}
		}
		out = append(out, domain.SavedQuerySummary{
			SavedQuery:   q,
			ResultsCount: len(s.results[q.ID]),
			ColumnsCount: columns,
		})
	}
	return out, total, nil
}

func (s *Store) DeleteSavedQuery(_ context.Context, id uuid.UUID) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	if _, ok := s.queries[id]; !ok {
		return storage.ErrSavedQueryNotFound
	}
	for _, a := range s.automations {
		if a.SavedQueryID == id && a.IsActive {
			return storage.ErrSavedQueryInUse
		}
	}
	for aid, a := range s.automations {
		if a.SavedQueryID == id {
			delete(s.automations, aid)
		}
	}
	for cid, c := range s.columns {
		if c.SavedQueryID == id {
			delete(s.columns, cid)
			delete(s.values, cid)
		}
	}
	for _, r := range s.results[id] {
		delete(s.resultIndex, resultKey{savedQueryID: id, url: r.URL})
	}
	delete(s.results, id)
	delete(s.queries, id)
	return nil
}

func (s *Store) FindResult(_ context.Context, savedQueryID uuid.UUID, url string) (domain.PersistedResult, bool, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	idx, ok := s.resultIndex[resultKey{savedQueryID: savedQueryID, url: url}]
	if !ok {
		return domain.PersistedResult{}, false, nil
	}
	return s.results[savedQueryID][idx], true, nil
}

func (s *Store) InsertResult(_ context.Context, r domain.PersistedResult) (bool, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	if _, ok := s.queries[r.SavedQueryID]; !ok {
		return false, storage.ErrSavedQueryNotFound
	}
	key := resultKey{savedQueryID: r.SavedQueryID, url: r.URL}
	if _, ok := s.resultIndex[key]; ok {
		return false, nil
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	s.results[r.SavedQueryID] = append(s.results[r.SavedQueryID], r)
	s.resultIndex[key] = len(s.results[r.SavedQueryID]) - 1
	return true, nil
}

func (s *Store) ListResults(_ context.Context, savedQueryID uuid.UUID) ([]domain.PersistedResult, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	out := make([]domain.PersistedResult, len(s.results[savedQueryID]))
	copy(out, s.results[savedQueryID])
	return out, nil
}

func (s *Store) CreateAutomation(_ context.Context, a domain.Automation) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	if _, ok := s.queries[a.SavedQueryID]; !ok {
		return storage.ErrSavedQueryNotFound
	}
	s.automations[a.ID] = a
	return nil
}

func (s *Store) FindAutomation(_ context.Context, id uuid.UUID) (domain.Automation, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	a, ok := s.automations[id]
	if !ok {
		return domain.Automation{}, storage.ErrAutomationNotFound
	}
	return a, nil
}

func (s *Store) ListAutomations(_ context.Context, owner string) ([]domain.Automation, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	var out []domain.Automation
	for _, a := range s.automations {
		if a.Owner == owner {
			out = append(out, a)
		}
	}
	sortAutomations(out)
	return out, nil
}

func (s *Store) FindAutomationsDue(_ context.Context, now time.Time) ([]domain.Automation, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	var out []domain.Automation
	for _, a := range s.automations {
		if a.IsDue(now) {
			out = append(out, a)
		}
	}
	sortAutomations(out)
	return out, nil
}

func (s *Store) UpdateAutomationRun(_ context.Context, id uuid.UUID, lastRun, nextRun time.Time) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	a, ok := s.automations[id]
	if !ok {
		return storage.ErrAutomationNotFound
	}
	a.LastRun = &lastRun
	a.NextRun = nextRun
	s.automations[id] = a
	return nil
}

func (s *Store) SetAutomationActive(_ context.Context, id uuid.UUID, active bool) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	a, ok := s.automations[id]
	if !ok {
		return storage.ErrAutomationNotFound
	}
	a.IsActive = active
	s.automations[id] = a
	return nil
}

func (s *Store) CreateColumn(_ context.Context, col domain.CustomColumn, values []domain.ColumnValue) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	if _, ok := s.queries[col.SavedQueryID]; !ok {
		return storage.ErrSavedQueryNotFound
	}
	s.columns[col.ID] = col
	s.values[col.ID] = append([]domain.ColumnValue(nil), values...)
	return nil
}

func (s *Store) ListColumns(_ context.Context, savedQueryID uuid.UUID) ([]domain.CustomColumn, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	var out []domain.CustomColumn
	for _, c := range s.columns {
		if c.SavedQueryID == savedQueryID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ListColumnValues(_ context.Context, columnID uuid.UUID) ([]domain.ColumnValue, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return append([]domain.ColumnValue(nil), s.values[columnID]...), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func sortAutomations(a []domain.Automation) {
	sort.Slice(a, func(i, j int) bool {
		if !a[i].NextRun.Equal(a[j].NextRun) {
			return a[i].NextRun.Before(a[j].NextRun)
		}
		return a[i].ID.String() < a[j].ID.String()
	})
}

var _ storage.Store = (*Store)(nil)
