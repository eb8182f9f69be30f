package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/news-radar/internal/aggregator"
	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/dto"
	"github.com/DjordjeVuckovic/news-radar/internal/middleware"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/labstack/echo/v4"
)

type SearchRouter struct {
	e        *echo.Echo
	searcher aggregator.Searcher
	store    storage.Store
	merger   Merger
	now      Clock
}

type SearchRouterOption func(r *SearchRouter)

func WithSearchClock(now Clock) SearchRouterOption {
	return func(r *SearchRouter) {
		r.now = now
	}
}

func NewSearchRouter(e *echo.Echo, searcher aggregator.Searcher, store storage.Store, merger Merger, opts ...SearchRouterOption) *SearchRouter {
	r := &SearchRouter{
		e:        e,
		searcher: searcher,
		store:    store,
		merger:   merger,
		now:      utcNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SearchRouter) Bind() {
	r.e.POST("/search", r.searchHandler)
	r.e.POST("/refine", r.refineHandler)
}

// searchHandler godoc
// @Summary Search all sources
// @Description Runs the query against every enabled source and returns the deduplicated results. With save=true the results are stored as a new saved search, which is discarded again if storing fails.
// @Tags search
// @Accept json
// @Produce json
// @Param X-Radar-User header string false "Caller identity, required when saving"
// @Param request body dto.SearchRequest true "Query and filters"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /search [post]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var owner string
	if req.Save {
		var err error
		if owner, err = requireOwner(c); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	results, err := r.searcher.SearchAllSources(ctx, req.Query, req.Filters)
	if err != nil {
		return err
	}

	resp := dto.SearchResponse{Count: len(results), Results: results}
	if !req.Save {
		return c.JSON(http.StatusOK, resp)
	}

	q := domain.NewSavedQuery(owner, req.Query, req.Filters, r.now())
	if err := r.store.CreateSavedQuery(ctx, q); err != nil {
		return err
	}
	inserted, err := r.merger.Merge(ctx, q.ID, results)
	if err != nil {
		// A partially merged search is not kept.
		if delErr := r.store.DeleteSavedQuery(context.WithoutCancel(ctx), q.ID); delErr != nil {
			slog.Error("failed to drop partially saved search", "search_id", q.ID, "error", delErr)
		}
		return err
	}

	slog.Info("search saved", "search_id", q.ID, "owner", owner, "inserted", inserted)
	resp.SearchID = &q.ID
	resp.Inserted = inserted
	return c.JSON(http.StatusOK, resp)
}

// refineHandler godoc
// @Summary Refine results
// @Description Filters stored results of a saved search, or a fresh aggregation, by exact country, language, category, status and source.
// @Tags search
// @Accept json
// @Produce json
// @Param X-Radar-User header string false "Caller identity, required with search_id"
// @Param request body dto.RefineRequest true "Search id or query, and filters"
// @Success 200 {object} dto.ResultsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /refine [post]
func (r *SearchRouter) refineHandler(c echo.Context) error {
	var req dto.RefineRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var results []domain.Result
	if req.SearchID != nil {
		q, err := ownedSavedQuery(ctx, r.store, *req.SearchID, middleware.OwnerFrom(c))
		if err != nil {
			return err
		}
		stored, err := r.store.ListResults(ctx, q.ID)
		if err != nil {
			return err
		}
		results = make([]domain.Result, 0, len(stored))
		for _, pr := range stored {
			results = append(results, pr.Result)
		}
	} else {
		var err error
		if results, err = r.searcher.SearchAllSources(ctx, req.Query, req.Filters); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, dto.NewResultsResponse(domain.Refine(results, req.Filters)))
}
