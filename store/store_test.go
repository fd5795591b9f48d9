package store_test

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

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(memory.NewDB(), &profile.Profile{Mode: "dev", Driver: "memory"})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDevicePreferenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	stored, err := s.UpsertDevicePreference(ctx, &store.UpsertDevicePreference{
		DeviceID: "dev1",
		Preference: personalizer.Preference{
			Label:         personalizer.ToleranceMedium,
			OffsetCelsius: personalizer.OffsetMedium,
			Metrics:       personalizer.Metrics{NumOffsetEvents: 4, NumOverrides: 1, OverrideRate: 0.3},
		},
		Confidence: 0.9,
	})
	require.NoError(t, err)
	assert.False(t, stored.LastUpdated.IsZero())

	got, err := s.GetDevicePreference(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, personalizer.ToleranceMedium, got.ToleranceLabel)
	assert.Equal(t, personalizer.OffsetMedium, got.OffsetCelsius)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, stored.LastUpdated, got.LastUpdated)
}

func TestGetDevicePreferenceFallback(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.GetDevicePreference(ctx, "unknown")
	require.NoError(t, err)
	assert.Equal(t, "unknown", got.DeviceID)
	assert.Equal(t, personalizer.ToleranceLow, got.ToleranceLabel)
	assert.Equal(t, personalizer.OffsetLow, got.OffsetCelsius)
	assert.Zero(t, got.Confidence)
	assert.True(t, got.LastUpdated.IsZero())
}

func TestBatchGetNeverOmitsRequestedIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.UpsertDevicePreference(ctx, &store.UpsertDevicePreference{
		DeviceID: "dev1",
		Preference: personalizer.Preference{
			Label:         personalizer.ToleranceHigh,
			OffsetCelsius: personalizer.OffsetHigh,
		},
		Confidence: 1.0,
	})
	require.NoError(t, err)

	prefs, err := s.BatchGetDevicePreferences(ctx, []string{"dev1", "dev2"})
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	assert.Equal(t, "dev1", prefs[0].DeviceID)
	assert.Equal(t, personalizer.ToleranceHigh, prefs[0].ToleranceLabel)
	assert.False(t, prefs[0].LastUpdated.IsZero())

	// dev2 gets the fallback individually.
	assert.Equal(t, "dev2", prefs[1].DeviceID)
	assert.Equal(t, personalizer.ToleranceLow, prefs[1].ToleranceLabel)
	assert.Equal(t, personalizer.OffsetLow, prefs[1].OffsetCelsius)
	assert.Zero(t, prefs[1].Confidence)
	assert.True(t, prefs[1].LastUpdated.IsZero())
}

func TestUpsertReplacesPriorPreference(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, label := range []personalizer.ToleranceLabel{personalizer.ToleranceLow, personalizer.ToleranceHigh} {
		_, err := s.UpsertDevicePreference(ctx, &store.UpsertDevicePreference{
			DeviceID: "dev1",
			Preference: personalizer.Preference{
				Label:         label,
				OffsetCelsius: personalizer.OffsetForLabel(label),
			},
			Confidence: 0.5,
		})
		require.NoError(t, err)
	}

	got, err := s.GetDevicePreference(ctx, "dev1")
	require.NoError(t, err)
	assert.Equal(t, personalizer.ToleranceHigh, got.ToleranceLabel)
	assert.Equal(t, personalizer.OffsetHigh, got.OffsetCelsius)
}

func TestTelemetryAndDialTurnListing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertTelemetry(ctx, []personalizer.TelemetrySample{
		{DeviceID: "dev1", IntervalStart: base.Add(15 * time.Minute), ScheduleOffsetCelsius: 0.5},
		{DeviceID: "dev1", IntervalStart: base, ScheduleOffsetCelsius: 0.5},
		{DeviceID: "dev2", IntervalStart: base, ScheduleOffsetCelsius: 1.0},
	}))
	require.NoError(t, s.UpsertDialTurns(ctx, []personalizer.DialTurnEvent{
		{DeviceID: "dev1", TurnTime: base.Add(5 * time.Minute)},
	}))

	dev1 := "dev1"
	samples, err := s.ListTelemetry(ctx, &store.FindTelemetry{DeviceID: &dev1})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.True(t, samples[0].IntervalStart.Before(samples[1].IntervalStart))

	turns, err := s.ListDialTurns(ctx, &store.FindDialTurn{DeviceID: &dev1})
	require.NoError(t, err)
	assert.Len(t, turns, 1)

	ids, err := s.ListDeviceIDs(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev1", "dev2"}, ids)

	// Window filter excludes older samples.
	since := base.Add(10 * time.Minute)
	samples, err = s.ListTelemetry(ctx, &store.FindTelemetry{DeviceID: &dev1, Since: &since})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}
