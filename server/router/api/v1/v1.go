// Package v1 exposes the REST surface: preference lookups, telemetry and
// dial-turn ingestion, and a manual precompute trigger. The scoring core
// itself has no network surface; everything here goes through the store
// or the runner.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/server/middleware"
	"github.com/hrygo/thermosense/server/runner/preference"
	"github.com/hrygo/thermosense/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	Runner  *preference.Runner

	limiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, runner *preference.Runner) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   store,
		Runner:  runner,
		// 10 requests per second with burst of 20, per client.
		limiter: middleware.NewRateLimiter(time.Second/10, 20),
	}
}

// Register mounts the v1 routes on the given echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1", s.limiter.Middleware())

	g.GET("/devices/:deviceId/preference", s.GetDevicePreference)
	g.POST("/preferences/batch-get", s.BatchGetDevicePreferences)
	g.POST("/telemetry", s.IngestTelemetry)
	g.POST("/dial-turns", s.IngestDialTurns)
	g.POST("/precompute", s.TriggerPrecompute)
}
