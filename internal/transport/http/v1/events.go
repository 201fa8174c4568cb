package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// ListEvents returns a reverse-chronological event page.
// GET /v1/events?limit=100&before=...
func (h *Handler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	var before time.Time
	if v := c.QueryParam("before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			before = t
		}
	}

	events, err := h.service.ListEvents(ctx, limit, before)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}

// GetExecution resolves an execution detail lookup by id.
// GET /v1/executions/:execution_id
func (h *Handler) GetExecution(c echo.Context) error {
	ctx := c.Request().Context()
	executionID := c.Param("execution_id")

	event, err := h.service.GetExecution(ctx, executionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if event == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "execution not found"})
	}
	return c.JSON(http.StatusOK, event)
}
