package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webmixgamer/trinity-timeline/internal/service"
)

// ListAgents returns the roster in row order.
// GET /v1/agents
func (h *Handler) ListAgents(c echo.Context) error {
	ctx := c.Request().Context()

	agents, err := h.service.ListAgents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"agents": agents})
}

// AutonomyRequest is the body for autonomy toggles.
type AutonomyRequest struct {
	Enabled bool `json:"enabled"`
}

// ToggleAutonomy flips an agent's autonomy flag.
// POST /v1/agents/:name/autonomy
func (h *Handler) ToggleAutonomy(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	var req AutonomyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	agent, err := h.service.ToggleAutonomy(ctx, name, req.Enabled)
	if err != nil {
		if errors.Is(err, service.ErrBlocked) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "autonomy toggle blocked for system agents"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if agent == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "agent not found"})
	}
	return c.JSON(http.StatusOK, agent)
}
