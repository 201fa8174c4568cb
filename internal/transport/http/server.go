// Package http provides the HTTP server implementation for the timeline
// service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/webmixgamer/trinity-timeline/internal/service"
	"github.com/webmixgamer/trinity-timeline/internal/transport/http/internalapi"
	v1 "github.com/webmixgamer/trinity-timeline/internal/transport/http/v1"
	"github.com/webmixgamer/trinity-timeline/internal/transport/ws"
)

// NewExternalServer creates and configures the dashboard-facing HTTP
// server: timeline frames, playback and viewport control, the roster and
// the WebSocket stream.
func NewExternalServer(svc *service.Service, stream *ws.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)
	e.GET("/v1/stream", stream.HandleStream)

	return e
}

// NewInternalServer creates and configures the internal-facing HTTP
// server. This server accepts the event and roster feed pushed by the
// orchestration platform.
func NewInternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Handlers
	internalHandler := internalapi.NewHandler(svc)
	internalHandler.RegisterRoutes(e)

	return e
}
