// Package internalapi provides the internal-facing HTTP handlers. The
// orchestration platform pushes its event feed and roster updates here;
// the endpoints are not exposed to dashboard clients.
package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/internal/events", h.IngestEvent)
	e.POST("/internal/agents", h.UpsertAgent)

	e.GET("/health", h.Health)
}

// IngestEvent accepts one feed event from the orchestration platform.
// POST /internal/events
func (h *Handler) IngestEvent(c echo.Context) error {
	ctx := c.Request().Context()

	var event domain.Event
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if event.SourceAgent == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "source_agent is required"})
	}

	if err := h.service.IngestEvent(ctx, &event); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, event)
}

// UpsertAgent registers or updates a roster row.
// POST /internal/agents
func (h *Handler) UpsertAgent(c echo.Context) error {
	ctx := c.Request().Context()

	var agent domain.Agent
	if err := c.Bind(&agent); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if agent.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	if err := h.service.UpsertAgent(ctx, &agent); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, agent)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
