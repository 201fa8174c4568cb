// Package v1 provides the dashboard-facing HTTP handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webmixgamer/trinity-timeline/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Timeline geometry
	e.GET("/v1/timeline", h.GetTimeline)

	// Feed data
	e.GET("/v1/agents", h.ListAgents)
	e.GET("/v1/events", h.ListEvents)
	e.GET("/v1/executions/:execution_id", h.GetExecution)

	// Playback control
	e.POST("/v1/playback/play", h.Play)
	e.POST("/v1/playback/pause", h.Pause)
	e.POST("/v1/playback/stop", h.Stop)
	e.POST("/v1/playback/speed", h.SetSpeed)
	e.POST("/v1/playback/seek", h.Seek)

	// Viewport control
	e.POST("/v1/viewport/scroll", h.Scroll)
	e.POST("/v1/viewport/jump", h.JumpToNow)
	e.POST("/v1/viewport/zoom", h.SetZoom)

	// Agent control
	e.POST("/v1/agents/:name/autonomy", h.ToggleAutonomy)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
