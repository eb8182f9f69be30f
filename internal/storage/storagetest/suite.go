// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.Store

var base = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func Run(t *testing.T, newStore Factory) {
	t.Run("saved query round trip", func(t *testing.T) { testSavedQueryRoundTrip(t, newStore(t)) })
	t.Run("result identity per saved query", func(t *testing.T) { testResultIdentity(t, newStore(t)) })
	t.Run("results keep insertion order", func(t *testing.T) { testResultOrder(t, newStore(t)) })
	t.Run("due automations", func(t *testing.T) { testDueAutomations(t, newStore(t)) })
	t.Run("automation updates", func(t *testing.T) { testAutomationUpdates(t, newStore(t)) })
	t.Run("history pagination", func(t *testing.T) { testHistory(t, newStore(t)) })
	t.Run("columns", func(t *testing.T) { testColumns(t, newStore(t)) })
	t.Run("delete saved query", func(t *testing.T) { testDeleteSavedQuery(t, newStore(t)) })
}

func seedQuery(t *testing.T, st storage.Store, owner string, createdAt time.Time) domain.SavedQuery {
	t.Helper()
	q := domain.NewSavedQuery(owner, "renewable energy", domain.FilterSet{"country": "ES"}, createdAt)
	require.NoError(t, st.CreateSavedQuery(context.Background(), q))
	return q
}

func seedResult(t *testing.T, st storage.Store, q domain.SavedQuery, url string, at time.Time) domain.PersistedResult {
	t.Helper()
	r := domain.NewPersistedResult(q.ID, domain.Result{Title: "title " + url, URL: url, Source: "Google", Score: 85}, at)
	inserted, err := st.InsertResult(context.Background(), r)
	require.NoError(t, err)
	require.True(t, inserted)
	return r
}

func testSavedQueryRoundTrip(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)

	got, err := st.FindSavedQuery(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "renewable energy", got.QueryText)
	assert.Equal(t, domain.FilterSet{"country": "ES"}, got.Filters)
	assert.True(t, q.CreatedAt.Equal(got.CreatedAt))

	_, err = st.FindSavedQuery(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrSavedQueryNotFound)
}

func testResultIdentity(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q1 := seedQuery(t, st, "alice", base)
	q2 := seedQuery(t, st, "alice", base.Add(time.Minute))

	first := seedResult(t, st, q1, "https://a.example/1", base)

	dup := domain.NewPersistedResult(q1.ID, domain.Result{Title: "changed", URL: "https://a.example/1"}, base.Add(time.Hour))
	inserted, err := st.InsertResult(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted, "same url under the same saved query must not be inserted twice")

	found, ok, err := st.FindResult(ctx, q1.ID, "https://a.example/1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "title https://a.example/1", found.Title)
	assert.Equal(t, domain.DefaultStatus, found.Status)

	_, ok, err = st.FindResult(ctx, q2.ID, "https://a.example/1")
	require.NoError(t, err)
	assert.False(t, ok)

	seedResult(t, st, q2, "https://a.example/1", base)
}

func testResultOrder(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)
	urls := []string{"https://z.example", "https://a.example", "https://m.example"}
	for _, u := range urls {
		seedResult(t, st, q, u, base)
	}

	results, err := st.ListResults(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, u := range urls {
		assert.Equal(t, u, results[i].URL)
	}
}

func testDueAutomations(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)
	now := base.Add(48 * time.Hour)

	mk := func(nextRun time.Time, active bool) domain.Automation {
		a, err := domain.NewAutomation("alice", q.ID, domain.FrequencyDaily, base)
		require.NoError(t, err)
		a.NextRun = nextRun
		a.IsActive = active
		require.NoError(t, st.CreateAutomation(ctx, a))
		return a
	}

	pastActive := mk(now.Add(-time.Hour), true)
	exactlyNow := mk(now, true)
	mk(now.Add(time.Hour), true)
	mk(now.Add(-time.Hour), false)

	due, err := st.FindAutomationsDue(ctx, now)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(due))
	for _, a := range due {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{pastActive.ID, exactlyNow.ID}, ids)
}

func testAutomationUpdates(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)
	a, err := domain.NewAutomation("alice", q.ID, domain.FrequencyWeekly, base)
	require.NoError(t, err)
	require.NoError(t, st.CreateAutomation(ctx, a))

	got, err := st.FindAutomation(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastRun)
	assert.Equal(t, domain.FrequencyWeekly, got.Frequency)
	assert.True(t, got.IsActive)

	last := base.Add(8 * 24 * time.Hour)
	next := last.Add(7 * 24 * time.Hour)
	require.NoError(t, st.UpdateAutomationRun(ctx, a.ID, last, next))
	require.NoError(t, st.SetAutomationActive(ctx, a.ID, false))

	got, err = st.FindAutomation(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastRun)
	assert.True(t, last.Equal(*got.LastRun))
	assert.True(t, next.Equal(got.NextRun))
	assert.False(t, got.IsActive)

	owned, err := st.ListAutomations(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	assert.ErrorIs(t, st.UpdateAutomationRun(ctx, uuid.New(), last, next), storage.ErrAutomationNotFound)
	_, err = st.FindAutomation(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrAutomationNotFound)
}

func testHistory(t *testing.T, st storage.Store) {
	ctx := context.Background()
	oldest := seedQuery(t, st, "alice", base)
	middle := seedQuery(t, st, "alice", base.Add(time.Hour))
	newest := seedQuery(t, st, "alice", base.Add(2*time.Hour))
	seedQuery(t, st, "bob", base.Add(3*time.Hour))
	seedResult(t, st, middle, "https://a.example", base)
	seedResult(t, st, middle, "https://b.example", base)

	page, total, err := st.ListSavedQueries(ctx, "alice", pagination.OffsetRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, newest.ID, page[0].ID)
	assert.Equal(t, middle.ID, page[1].ID)
	assert.Equal(t, 2, page[1].ResultsCount)

	page, _, err = st.ListSavedQueries(ctx, "alice", pagination.OffsetRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, oldest.ID, page[0].ID)
}

func testColumns(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)
	r := seedResult(t, st, q, "https://a.example", base)

	col := domain.CustomColumn{ID: uuid.New(), SavedQueryID: q.ID, Name: "sentiment", CreatedAt: base}
	val := domain.ColumnValue{ID: uuid.New(), ColumnID: col.ID, ResultID: r.ID, Value: "positive", CreatedAt: base}
	require.NoError(t, st.CreateColumn(ctx, col, []domain.ColumnValue{val}))

	cols, err := st.ListColumns(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "sentiment", cols[0].Name)

	values, err := st.ListColumnValues(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, r.ID, values[0].ResultID)
	assert.Equal(t, "positive", values[0].Value)
}

func testDeleteSavedQuery(t *testing.T, st storage.Store) {
	ctx := context.Background()
	q := seedQuery(t, st, "alice", base)
	seedResult(t, st, q, "https://a.example", base)

	a, err := domain.NewAutomation("alice", q.ID, domain.FrequencyDaily, base)
	require.NoError(t, err)
	require.NoError(t, st.CreateAutomation(ctx, a))

	assert.ErrorIs(t, st.DeleteSavedQuery(ctx, q.ID), storage.ErrSavedQueryInUse)

	require.NoError(t, st.SetAutomationActive(ctx, a.ID, false))
	require.NoError(t, st.DeleteSavedQuery(ctx, q.ID))

	_, err = st.FindSavedQuery(ctx, q.ID)
	assert.ErrorIs(t, err, storage.ErrSavedQueryNotFound)
	_, err = st.FindAutomation(ctx, a.ID)
	assert.ErrorIs(t, err, storage.ErrAutomationNotFound)
	results, err := st.ListResults(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.ErrorIs(t, st.DeleteSavedQuery(ctx, q.ID), storage.ErrSavedQueryNotFound)
}
