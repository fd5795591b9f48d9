// Package preference implements the background runner that precomputes
// per-device tolerance preferences and stores them.
package preference

import (
	"context"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
)

// confidenceSaturation is the event count at which confidence reaches 1.
// Confidence is a storage-level annotation; the scoring core never
// computes it.
const confidenceSaturation = 10

type Runner struct {
	store        *store.Store
	personalizer *personalizer.Personalizer
	interval     time.Duration
	workers      int
	lookbackDays int
}

// NewRunner creates a preference precompute runner. Inference is pure and
// per-device independent, so the fan-out is an embarrassingly parallel
// map bounded only by the worker limit.
func NewRunner(store *store.Store, p *personalizer.Personalizer, profile *profile.Profile) *Runner {
	return &Runner{
		store:        store,
		personalizer: p,
		interval:     profile.PrecomputeInterval,
		workers:      profile.Workers,
		lookbackDays: profile.LookbackDays,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	if err := r.RunOnce(ctx); err != nil {
		slog.Error("preference precompute failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				slog.Error("preference precompute failed", "error", err)
			}
		case <-ctx.Done():
			slog.Info("preference runner stopped")
			return
		}
	}
}

// RunOnce recomputes and stores preferences for every device with
// telemetry in the lookback window.
func (r *Runner) RunOnce(ctx context.Context) error {
	runID := shortuuid.New()
	started := time.Now()
	cutoff := started.AddDate(0, 0, -r.lookbackDays)

	deviceIDs, err := r.store.ListDeviceIDs(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(deviceIDs) == 0 {
		slog.Info("no devices to precompute", "run_id", runID)
		return nil
	}

	slog.Info("preference precompute started", "run_id", runID, "devices", len(deviceIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, deviceID := range deviceIDs {
		deviceID := deviceID
		g.Go(func() error {
			return r.computeDevice(ctx, deviceID, cutoff)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("preference precompute finished",
		"run_id", runID,
		"devices", len(deviceIDs),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func (r *Runner) computeDevice(ctx context.Context, deviceID string, cutoff time.Time) error {
	telemetry, err := r.store.ListTelemetry(ctx, &store.FindTelemetry{DeviceID: &deviceID, Since: &cutoff})
	if err != nil {
		return err
	}
	dialTurns, err := r.store.ListDialTurns(ctx, &store.FindDialTurn{DeviceID: &deviceID, Since: &cutoff})
	if err != nil {
		return err
	}

	// A zero asOf lets the core resolve "now" in the device's own
	// timezone.
	pref := r.personalizer.CalculatePreference(telemetry, dialTurns, time.Time{})

	if _, err := r.store.UpsertDevicePreference(ctx, &store.UpsertDevicePreference{
		DeviceID:   deviceID,
		Preference: pref,
		Confidence: confidence(pref.Metrics),
	}); err != nil {
		return err
	}

	slog.Debug("device preference updated",
		"device_id", deviceID,
		"label", string(pref.Label),
		"offset_celsius", pref.OffsetCelsius,
		"n_offset_events", pref.Metrics.NumOffsetEvents,
		"n_overrides", pref.Metrics.NumOverrides,
		"override_rate", pref.Metrics.OverrideRate,
	)
	return nil
}

// confidence grows with the amount of evidence behind a preference and
// saturates at 1.
func confidence(metrics personalizer.Metrics) float64 {
	c := float64(metrics.NumOffsetEvents) / confidenceSaturation
	if c > 1 {
		c = 1
	}
	return c
}
