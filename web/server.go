// Package web exposes the engine's four operations over HTTP. It is thin
// glue: every error it maps to a response is a typed result from the
// engine, and auto-close never goes through this layer.
package web

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rustyeddy/levtrader/sim"
)

type Server struct {
	echo *echo.Echo
	eng  *sim.Engine
	log  *slog.Logger
}

func NewServer(eng *sim.Engine, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, eng: eng, log: log}

	e.GET("/health", s.health)
	api := e.Group("/api")
	api.GET("/state", s.getState)
	api.POST("/position/open", s.openPosition)
	api.POST("/position/close", s.closePosition)
	api.POST("/prices/update", s.updatePrices)

	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info("http server listening", "addr", addr)
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
