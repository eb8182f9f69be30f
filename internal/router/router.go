package router

import (
	"context"
	"errors"
	"time"

	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/automation"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/middleware"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Merger interface {
	Merge(ctx context.Context, savedQueryID uuid.UUID, fresh []domain.Result) (int, error)
}

// Runner refreshes one automation on demand.
type Runner interface {
	RunNow(ctx context.Context, id uuid.UUID, now time.Time) (int, error)
}

type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func requireOwner(c echo.Context) (string, error) {
	owner := middleware.OwnerFrom(c)
	if owner == "" {
		return "", apperr.NewValidation(middleware.OwnerHeader + " header is required")
	}
	return owner, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid "+name, err)
	}
	return id, nil
}

// storeError maps storage sentinels onto API errors.
func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrSavedQueryNotFound):
		return apperr.NewNotFound("search", err)
	case errors.Is(err, storage.ErrAutomationNotFound):
		return apperr.NewNotFound("automation", err)
	case errors.Is(err, storage.ErrSavedQueryInUse):
		return apperr.NewConflict("search is used by an active automation", err)
	case errors.Is(err, automation.ErrAutomationInactive):
		return apperr.NewConflict("automation is not active", err)
	}
	return err
}

// ownedSavedQuery loads a saved query and hides those of other owners.
func ownedSavedQuery(ctx context.Context, store storage.SavedQueryStore, id uuid.UUID, owner string) (domain.SavedQuery, error) {
	q, err := store.FindSavedQuery(ctx, id)
	if err != nil {
		return domain.SavedQuery{}, storeError(err)
	}
	if q.Owner != owner {
		return domain.SavedQuery{}, apperr.NewNotFound("search", nil)
	}
	return q, nil
}
