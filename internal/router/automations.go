package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/news-radar/internal/apperr"
	"github.com/DjordjeVuckovic/news-radar/internal/domain"
	"github.com/DjordjeVuckovic/news-radar/internal/dto"
	"github.com/DjordjeVuckovic/news-radar/internal/storage"
	"github.com/labstack/echo/v4"
)

type AutomationRouter struct {
	e      *echo.Echo
	store  storage.Store
	runner Runner
	now    Clock
}

type AutomationRouterOption func(r *AutomationRouter)

func WithAutomationClock(now Clock) AutomationRouterOption {
	return func(r *AutomationRouter) {
		r.now = now
	}
}

func NewAutomationRouter(e *echo.Echo, store storage.Store, runner Runner, opts ...AutomationRouterOption) *AutomationRouter {
	r := &AutomationRouter{e: e, store: store, runner: runner, now: utcNow}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *AutomationRouter) Bind() {
	g := r.e.Group("/automations")
	g.POST("", r.createHandler)
	g.GET("", r.listHandler)
	g.POST("/:id/run", r.runHandler)
	g.POST("/:id/deactivate", r.deactivateHandler)
}

// createHandler godoc
// @Summary Schedule a saved search
// @Description The first run happens one period after creation.
// @Tags automations
// @Accept json
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Param request body dto.CreateAutomationRequest true "Search and frequency"
// @Success 201 {object} domain.Automation
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /automations [post]
func (r *AutomationRouter) createHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}

	var req dto.CreateAutomationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	freq, err := req.Validate()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	q, err := ownedSavedQuery(ctx, r.store, req.SearchID, owner)
	if err != nil {
		return err
	}

	a, err := domain.NewAutomation(owner, q.ID, freq, r.now())
	if err != nil {
		return apperr.NewValidationWrap("invalid frequency", err)
	}
	if err := r.store.CreateAutomation(ctx, a); err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

// listHandler godoc
// @Summary List automations
// @Tags automations
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Success 200 {array} domain.Automation
// @Router /automations [get]
func (r *AutomationRouter) listHandler(c echo.Context) error {
	owner, err := requireOwner(c)
	if err != nil {
		return err
	}
	items, err := r.store.ListAutomations(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Automation{}
	}
	return c.JSON(http.StatusOK, items)
}

// runHandler godoc
// @Summary Run an automation now
// @Description Refreshes the saved search immediately and moves the schedule forward.
// @Tags automations
// @Produce json
// @Param X-Radar-User header string true "Caller identity"
// @Param id path string true "Automation id"
// @Success 200 {object} dto.RunResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /automations/{id}/run [post]
func (r *AutomationRouter) runHandler(c echo.Context) error {
	a, err := r.ownedAutomation(c)
	if err != nil {
		return err
	}

	inserted, err := r.runner.RunNow(c.Request().Context(), a.ID, r.now())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, dto.RunResponse{AutomationID: a.ID, Inserted: inserted})
}

// deactivateHandler godoc
// @Summary Deactivate an automation
// @Tags automations
// @Param X-Radar-User header string true "Caller identity"
// @Param id path string true "Automation id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /automations/{id}/deactivate [post]
func (r *AutomationRouter) deactivateHandler(c echo.Context) error {
	a, err := r.ownedAutomation(c)
	if err != nil {
		return err
	}
	if err := r.store.SetAutomationActive(c.Request().Context(), a.ID, false); err != nil {
		return storeError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *AutomationRouter) ownedAutomation(c echo.Context) (domain.Automation, error) {
	owner, err := requireOwner(c)
	if err != nil {
		return domain.Automation{}, err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return domain.Automation{}, err
	}
	a, err := r.store.FindAutomation(c.Request().Context(), id)
	if err != nil {
		return domain.Automation{}, storeError(err)
	}
	if a.Owner != owner {
		return domain.Automation{}, apperr.NewNotFound("automation", nil)
	}
	return a, nil
}
