package merge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage/in_mem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...Option) (*Merger, *in_mem.Store, domain.SavedQuery) {
	t.Helper()
	st := in_mem.NewStore()
	q := domain.NewSavedQuery("alice", "solar", nil, now)
	require.NoError(t, st.CreateSavedQuery(context.Background(), q))
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return New(st, opts...), st, q
}

func r(url string) domain.Result {
	return domain.Result{Title: url, URL: url, Source: "Google", Score: 85}
}

func urls(results []domain.PersistedResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.URL)
	}
	return out
}

func TestMerge_OnlyNewRecords(t *testing.T) {
	ctx := context.Background()
	m, st, q := setup(t)

	n, err := m.Merge(ctx, q.ID, []domain.Result{r("a"), r("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Merge(ctx, q.ID, []domain.Result{r("b"), r("c")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := st.ListResults(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, urls(stored))
}

func TestMerge_Idempotent(t *testing.T) {
	ctx := context.Background()
	m, st, q := setup(t)
	batch := []domain.Result{r("a"), r("b"), r("a")}

	n, err := m.Merge(ctx, q.ID, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Merge(ctx, q.ID, batch)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := st.ListResults(ctx, q.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestMerge_ExistingRowsAreNotUpdated(t *testing.T) {
	ctx := context.Background()
	m, st, q := setup(t)

	_, err := m.Merge(ctx, q.ID, []domain.Result{{URL: "a", Title: "original"}})
	require.NoError(t, err)
	_, err = m.Merge(ctx, q.ID, []domain.Result{{URL: "a", Title: "changed"}})
	require.NoError(t, err)

	got, ok, err := st.FindResult(ctx, q.ID, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
}

func TestMerge_FillsDefaultsAndMetadata(t *testing.T) {
	ctx := context.Background()
	m, st, q := setup(t)

	_, err := m.Merge(ctx, q.ID, []domain.Result{{URL: " https://a.example ", Title: "t"}})
	require.NoError(t, err)

	got, ok, err := st.FindResult(ctx, q.ID, "https://a.example")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Web", got.Category)
	assert.Equal(t, "Activo", got.Status)
	assert.Equal(t, "Unknown", got.Country)
	assert.Equal(t, "Unknown", got.Language)
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, now, got.CreatedAt)

	var meta domain.Result
	require.NoError(t, json.Unmarshal(got.Metadata, &meta))
	assert.Equal(t, got.Result, meta)
}

func TestMerge_ColumnsUntouched(t *testing.T) {
	ctx := context.Background()
	m, st, q := setup(t)

	_, err := m.Merge(ctx, q.ID, []domain.Result{r("a")})
	require.NoError(t, err)
	first, _, err := st.FindResult(ctx, q.ID, "a")
	require.NoError(t, err)

	col := domain.CustomColumn{ID: uuid.New(), SavedQueryID: q.ID, Name: "tone", CreatedAt: now}
	val := domain.ColumnValue{ID: uuid.New(), ColumnID: col.ID, ResultID: first.ID, Value: "calm", CreatedAt: now}
	require.NoError(t, st.CreateColumn(ctx, col, []domain.ColumnValue{val}))

	_, err = m.Merge(ctx, q.ID, []domain.Result{r("a"), r("b")})
	require.NoError(t, err)

	values, err := st.ListColumnValues(ctx, col.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.ColumnValue{val}, values)
}

func TestMerge_UnknownSavedQuery(t *testing.T) {
	m, _, _ := setup(t)
	_, err := m.Merge(context.Background(), uuid.New(), []domain.Result{r("a")})
	assert.Error(t, err)
}

type recordingIndexer struct {
	batches [][]domain.PersistedResult
	err     error
}

func (ri *recordingIndexer) IndexResults(_ context.Context, results []domain.PersistedResult) error {
	ri.batches = append(ri.batches, results)
	return ri.err
}

func TestMerge_IndexesOnlyInserted(t *testing.T) {
	ctx := context.Background()
	idx := &recordingIndexer{}
	m, _, q := setup(t, WithIndexer(idx))

	_, err := m.Merge(ctx, q.ID, []domain.Result{r("a")})
	require.NoError(t, err)
	_, err = m.Merge(ctx, q.ID, []domain.Result{r("a")})
	require.NoError(t, err)
	_, err = m.Merge(ctx, q.ID, []domain.Result{r("a"), r("b")})
	require.NoError(t, err)

	require.Len(t, idx.batches, 2)
	assert.Equal(t, []string{"a"}, urls(idx.batches[0]))
	assert.Equal(t, []string{"b"}, urls(idx.batches[1]))
}

func TestMerge_IndexFailureDoesNotFailMerge(t *testing.T) {
	idx := &recordingIndexer{err: errors.New("cluster red")}
	m, _, q := setup(t, WithIndexer(idx))

	n, err := m.Merge(context.Background(), q.ID, []domain.Result{r("a")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

type failingStore struct {
	*in_mem.Store
	failURL string
}

func (s *failingStore) InsertResult(ctx context.Context, pr domain.PersistedResult) (bool, error) {
	if pr.URL == s.failURL {
		return false, errors.New("disk full")
	}
	return s.Store.InsertResult(ctx, pr)
}

func TestMerge_PartialFailureIndexesWrittenRows(t *testing.T) {
	ctx := context.Background()
	_, st, q := setup(t)
	store := &failingStore{Store: st, failURL: "c"}
	idx := &recordingIndexer{}
	m := New(store, WithClock(func() time.Time { return now }), WithIndexer(idx))

	n, err := m.Merge(ctx, q.ID, []domain.Result{r("a"), r("b"), r("c")})
	require.Error(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, idx.batches, 1)
	assert.Equal(t, []string{"a", "b"}, urls(idx.batches[0]))

	store.failURL = ""
	n, err = m.Merge(ctx, q.ID, []domain.Result{r("a"), r("b"), r("c")})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var indexed []string
	for _, batch := range idx.batches {
		indexed = append(indexed, urls(batch)...)
	}
	stored, err := st.ListResults(ctx, q.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, urls(stored), indexed)
}
