package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/dto"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/DjordjeVuckovic/news-radar/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SavedQueryRouter serves the caller's search history.
type SavedQueryRouter struct {
	e     *echo.Echo
	store storage.Store
	now   Clock
}

func NewSavedQueryRouter(e *echo.Echo, store storage.Store) *SavedQueryRouter {
	return &SavedQueryRouter{e: e, store: store, now: utcNow}
}

func (r *SavedQueryRouter) Bind() {
	g := r.e.Group("/searches")
	g.GET("", r.listHandler)
	g.GET("/:id/results", r.resultsHandler)
	g.DELETE("/:id", r.deleteHandler)
	g.POST("/:id/columns", r.createColumnHandler)
}

// listHandler godoc
// @Summary Search history
// @Tags searches
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[domain.SavedQuerySummary]
// @Failure 400 {object} map[string]string
// @Router /searches [get]
func (r *SavedQueryRouter) listHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}

	page := pagination.ParseOffsetRequest(c.QueryParam("page"), c.QueryParam("size"))
	items, total, err := r.store.ListSavedQueries(c.Request().Context(), owner, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, total, page))
}

// resultsHandler godoc
// @Summary Saved search results
// @Description Returns every stored result of the search with its custom columns.
// @Tags searches
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Param id path string true "Search id"
// @Success 200 {object} dto.SavedQueryResultsResponse
// @Failure 404 {object} map[string]string
// @Router /searches/{id}/results [get]
func (r *SavedQueryRouter) resultsHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	q, err := ownedSavedQuery(ctx, r.store, id, owner)
	if err != nil {
		return err
	}

	results, err := r.store.ListResults(ctx, q.ID)
	if err != nil {
		return err
	}

	cols, err := r.store.ListColumns(ctx, q.ID)
	if err != nil {
		return err
	}
	columns := make([]dto.ColumnResponse, 0, len(cols))
	for _, col := range cols {
		values, err := r.store.ListColumnValues(ctx, col.ID)
		if err != nil {
			return err
		}
		byResult := make(map[string]string, len(values))
		for _, v := range values {
			byResult[v.ResultID.String()] = v.Value
		}
		columns = append(columns, dto.ColumnResponse{CustomColumn: col, Values: byResult})
	}

	return c.JSON(http.StatusOK, dto.SavedQueryResultsResponse{
		Search:  q,
		Count:   len(results),
		Results: results,
		Columns: columns,
	})
}

// deleteHandler godoc
// @Summary Delete a saved search
// @Description Deletes the search with its results, columns and inactive automations. Rejected while an active automation uses it.
// @Tags searches
// @Param X-Radar-User header string true "Caller identity"
// @Param id path string true "Search id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /searches/{id} [delete]
func (r *SavedQueryRouter) deleteHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := ownedSavedQuery(ctx, r.store, id, owner); err != nil {
		return err
	}
	if err := r.store.DeleteSavedQuery(ctx, id); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// createColumnHandler godoc
// @Summary Add a custom column
// @Description Stores a user defined column with one value per result id.
// @Tags searches
// @Accept json
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Param id path string true "Search id"
// @Param request body dto.CreateColumnRequest true "Column"
// @Success 201 {object} dto.ColumnResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /searches/{id}/columns [post]
func (r *SavedQueryRouter) createColumnHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateColumnRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	q, err := ownedSavedQuery(ctx, r.store, id, owner)
	if err != nil {
		return err
	}

	results, err := r.store.ListResults(ctx, q.ID)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(results))
	for _, pr := range results {
		known[pr.ID] = struct{}{}
	}

	now := r.now()
	col := domain.CustomColumn{
		ID:            uuid.New(),
		SavedQueryID:  q.ID,
		Name:          req.Name,
		Description:   req.Description,
		GeneratedByAI: req.GeneratedByAI,
		CreatedAt:     now,
	}
	values := make([]domain.ColumnValue, 0, len(req.Values))
	for raw, value := range req.Values {
		resultID, err := uuid.Parse(raw)
		if err != nil {
			return apperr.NewValidationWrap("invalid result id "+raw, err)
		}
		if _, ok := known[resultID]; !ok {
			return apperr.NewValidation("result " + raw + " does not belong to the search")
		}
		values = append(values, domain.ColumnValue{
			ID:        uuid.New(),
			ColumnID:  col.ID,
			ResultID:  resultID,
			Value:     value,
			CreatedAt: now,
		})
	}

	if err := r.store.CreateColumn(ctx, col, values); err != nil {
		return storeError(err)
	}

	byResult := make(map[string]string, len(values))
	for _, v := range values {
		byResult[v.ResultID.String()] = v.Value
	}
	return c.JSON(http.StatusCreated, dto.ColumnResponse{CustomColumn: col, Values: byResult})
}
