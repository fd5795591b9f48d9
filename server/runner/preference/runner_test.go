package preference

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
	"github.com/hrygo/thermosense/store/db/memory"
)

func newTestRunner(t *testing.T) (*Runner, *store.Store) {
	t.Helper()
	prof := &profile.Profile{
		Mode:               "dev",
		Driver:             "memory",
		PrecomputeInterval: time.Hour,
		Workers:            2,
		LookbackDays:       personalizer.DefaultLookbackDays,
		HalfLifeDays:       personalizer.DefaultHalfLifeDays,
	}
	s := store.New(memory.NewDB(), prof)
	t.Cleanup(func() { _ = s.Close() })

	p, err := personalizer.New(prof.PersonalizerConfig())
	require.NoError(t, err)
	return NewRunner(s, p, prof), s
}

func seedDevice(t *testing.T, s *store.Store, deviceID string, overridden bool) {
	t.Helper()
	ctx := context.Background()
	start := time.Now().Add(-2 * time.Hour).Truncate(15 * time.Minute)

	require.NoError(t, s.UpsertTelemetry(ctx, []personalizer.TelemetrySample{
		{DeviceID: deviceID, IntervalStart: start, ScheduleOffsetCelsius: 0.5},
		{DeviceID: deviceID, IntervalStart: start.Add(15 * time.Minute), ScheduleOffsetCelsius: 0.5},
	}))
	if overridden {
		require.NoError(t, s.UpsertDialTurns(ctx, []personalizer.DialTurnEvent{
			{DeviceID: deviceID, TurnTime: start.Add(5 * time.Minute), InitialTargetCelsius: 22, FinalTargetCelsius: 21},
		}))
	}
}

func TestRunOnceStoresPreferencePerDevice(t *testing.T) {
	r, s := newTestRunner(t)
	ctx := context.Background()

	seedDevice(t, s, "dev1", true)  // overrides its only offset event
	seedDevice(t, s, "dev2", false) // never overrides

	require.NoError(t, r.RunOnce(ctx))

	pref1, err := s.GetDevicePreference(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, personalizer.ToleranceLow, pref1.ToleranceLabel)
	assert.Equal(t, personalizer.OffsetLow, pref1.OffsetCelsius)
	assert.False(t, pref1.LastUpdated.IsZero())
	assert.InDelta(t, 0.1, pref1.Confidence, 1e-9) // one event out of ten

	pref2, err := s.GetDevicePreference(ctx, "dev2")
	require.NoError(t, err)
	assert.Equal(t, personalizer.ToleranceHigh, pref2.ToleranceLabel)
	assert.Equal(t, personalizer.OffsetHigh, pref2.OffsetCelsius)
}

func TestRunOnceNoDevices(t *testing.T) {
	r, _ := newTestRunner(t)
	assert.NoError(t, r.RunOnce(context.Background()))
}

func TestRunOnceReplacesStalePreference(t *testing.T) {
	r, s := newTestRunner(t)
	ctx := context.Background()

	// Stored preference from an earlier run with different data.
	_, err := s.UpsertDevicePreference(ctx, &store.UpsertDevicePreference{
		DeviceID: "dev1",
		Preference: personalizer.Preference{
			Label:         personalizer.ToleranceMedium,
			OffsetCelsius: personalizer.OffsetMedium,
		},
		Confidence: 0.4,
	})
	require.NoError(t, err)

	seedDevice(t, s, "dev1", false)
	require.NoError(t, r.RunOnce(ctx))

	pref, err := s.GetDevicePreference(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, personalizer.ToleranceHigh, pref.ToleranceLabel)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
}

func TestConfidenceSaturates(t *testing.T) {
	assert.Zero(t, confidence(personalizer.Metrics{}))
	assert.InDelta(t, 0.5, confidence(personalizer.Metrics{NumOffsetEvents: 5}), 1e-9)
	assert.Equal(t, 1.0, confidence(personalizer.Metrics{NumOffsetEvents: 25}))
}
