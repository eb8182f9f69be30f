package storage

import (
	"context"
	"errors"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
)

type Type string

const (
	PG     Type = "pg"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

var SupportedTypes = []Type{PG, SQLite, InMem}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

var (
	ErrSavedQueryNotFound = errors.New("saved query not found")
	ErrAutomationNotFound = errors.New("automation not found")
	// ErrSavedQueryInUse is returned when deleting a saved query that an
	// active automation still runs.
	ErrSavedQueryInUse = errors.New("saved query is referenced by an active automation")
)

type SavedQueryStore interface {
	CreateSavedQuery(ctx context.Context, q domain.SavedQuery) error
	FindSavedQuery(ctx context.Context, id uuid.UUID) (domain.SavedQuery, error)
	ListSavedQueries(ctx context.Context, owner string, page pagination.OffsetRequest) ([]domain.SavedQuerySummary, int64, error)
	// DeleteSavedQuery removes the query with its results, columns and
	// inactive automations. It fails with ErrSavedQueryInUse while an active
	// automation references the query.
	DeleteSavedQuery(ctx context.Context, id uuid.UUID) error
}

type ResultStore interface {
	// FindResult looks a result up by its identity within a saved query.
	FindResult(ctx context.Context, savedQueryID uuid.UUID, url string) (domain.PersistedResult, bool, error)
	// InsertResult stores r unless (SavedQueryID, URL) already exists.
	// The returned bool reports whether a row was written.
	InsertResult(ctx context.Context, r domain.PersistedResult) (bool, error)
	ListResults(ctx context.Context, savedQueryID uuid.UUID) ([]domain.PersistedResult, error)
}

type AutomationStore interface {
	CreateAutomation(ctx context.Context, a domain.Automation) error
	FindAutomation(ctx context.Context, id uuid.UUID) (domain.Automation, error)
	ListAutomations(ctx context.Context, owner string) ([]domain.Automation, error)
	// FindAutomationsDue returns active automations with next_run <= now.
	FindAutomationsDue(ctx context.Context, now time.Time) ([]domain.Automation, error)
	UpdateAutomationRun(ctx context.Context, id uuid.UUID, lastRun, nextRun time.Time) error
	SetAutomationActive(ctx context.Context, id uuid.UUID, active bool) error
}

type ColumnStore interface {
	CreateColumn(ctx context.Context, col domain.CustomColumn, values []domain.ColumnValue) error
	ListColumns(ctx context.Context, savedQueryID uuid.UUID) ([]domain.CustomColumn, error)
	ListColumnValues(ctx context.Context, columnID uuid.UUID) ([]domain.ColumnValue, error)
}

// Store is the persistence boundary of the pipeline.
type Store interface {
	SavedQueryStore
	ResultStore
	AutomationStore
	ColumnStore
	Ping(ctx context.Context) error
	Close() error
}
