// Package server wires the HTTP surface and background runners together.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/server/middleware"
	apiv1 "github.com/hrygo/thermosense/server/router/api/v1"
	"github.com/hrygo/thermosense/server/runner/preference"
	"github.com/hrygo/thermosense/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	runner     *preference.Runner
}

func NewServer(profile *profile.Profile, st *store.Store) (*Server, error) {
	p, err := personalizer.New(profile.PersonalizerConfig())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create personalizer")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())

	s := &Server{
		Profile:    profile,
		Store:      st,
		echoServer: e,
		runner:     preference.NewRunner(st, p, profile),
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiv1.NewAPIV1Service(profile, st, s.runner).Register(e)
	return s, nil
}

// Start launches the precompute runner and the HTTP listener.
func (s *Server) Start(ctx context.Context) error {
	go s.runner.Run(ctx)

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "addr", addr, "version", s.Profile.Version)
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

// Shutdown stops the HTTP listener and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown")
}
