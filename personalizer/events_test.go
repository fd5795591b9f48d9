package personalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(deviceID string, start time.Time, offset float64) TelemetrySample {
	return TelemetrySample{
		DeviceID:                  deviceID,
		IntervalStart:             start,
		CoolingTargetCelsius:      22.0,
		IndoorTemperatureCelsius:  23.0,
		OutdoorTemperatureCelsius: 30.0,
		DurationHomeSeconds:       900,
		DurationCoolingSeconds:    300,
		ScheduleOffsetCelsius:     offset,
	}
}

func TestExtractOffsetEventsMergesAdjacentIntervals(t *testing.T) {
	base := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	samples := []TelemetrySample{
		sample("dev1", base, 0.5),
		sample("dev1", base.Add(15*time.Minute), 0.5),
		// Zero offset, must not extend the event.
		sample("dev1", base.Add(time.Hour), 0.0),
	}

	events := ExtractOffsetEvents(samples)
	require.Len(t, events, 1)
	assert.Equal(t, "dev1", events[0].DeviceID)
	assert.Equal(t, base, events[0].OffsetStart)
	assert.Equal(t, base.Add(30*time.Minute), events[0].OffsetEnd)
	assert.Equal(t, 0.5, events[0].ScheduleOffsetCelsius)
}

func TestExtractOffsetEventsSplitsOnGap(t *testing.T) {
	base := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		gap        time.Duration
		wantEvents int
	}{
		{"exactly one interval", 15 * time.Minute, 1},
		{"sixteen minutes", 16 * time.Minute, 2},
		{"one hour", time.Hour, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := ExtractOffsetEvents([]TelemetrySample{
				sample("dev1", base, 0.5),
				sample("dev1", base.Add(tt.gap), 0.5),
			})
			assert.Len(t, events, tt.wantEvents)
		})
	}
}

func TestExtractOffsetEventsSortsUnorderedInput(t *testing.T) {
	base := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	events := ExtractOffsetEvents([]TelemetrySample{
		sample("dev1", base.Add(15*time.Minute), 0.5),
		sample("dev1", base, 0.5),
	})
	require.Len(t, events, 1)
	assert.Equal(t, base, events[0].OffsetStart)
	assert.Equal(t, base.Add(30*time.Minute), events[0].OffsetEnd)
}

func TestExtractOffsetEventsGroupsPerDevice(t *testing.T) {
	base := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	events := ExtractOffsetEvents([]TelemetrySample{
		sample("dev1", base, 0.5),
		sample("dev2", base.Add(15*time.Minute), 1.0),
		sample("dev1", base.Add(15*time.Minute), 0.5),
	})
	require.Len(t, events, 2)

	byDevice := map[string]OffsetEvent{}
	for _, ev := range events {
		byDevice[ev.DeviceID] = ev
	}
	assert.Equal(t, base.Add(30*time.Minute), byDevice["dev1"].OffsetEnd)
	assert.Equal(t, base.Add(30*time.Minute), byDevice["dev2"].OffsetEnd)
	assert.Equal(t, base.Add(15*time.Minute), byDevice["dev2"].OffsetStart)
}

func TestExtractOffsetEventsInvariants(t *testing.T) {
	base := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	var samples []TelemetrySample
	// Irregular sequence with gaps and zero-offset holes.
	for i := 0; i < 40; i++ {
		offset := 0.5
		if i%7 == 0 {
			offset = 0
		}
		samples = append(samples, sample("dev1", base.Add(time.Duration(i*17)*time.Minute), offset))
	}

	events := ExtractOffsetEvents(samples)
	require.NotEmpty(t, events)
	for i, ev := range events {
		assert.True(t, ev.OffsetEnd.After(ev.OffsetStart), "event end must be after start")
		if i > 0 {
			assert.False(t, ev.OffsetStart.Before(events[i-1].OffsetEnd),
				"events for the same device must not overlap")
		}
	}
}

func TestExtractOffsetEventsEdgeCases(t *testing.T) {
	assert.Empty(t, ExtractOffsetEvents(nil))
	assert.Empty(t, ExtractOffsetEvents([]TelemetrySample{
		sample("dev1", time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC), 0),
	}))

	// A single isolated sample yields one event of exactly one interval.
	start := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	events := ExtractOffsetEvents([]TelemetrySample{sample("dev1", start, 0.5)})
	require.Len(t, events, 1)
	assert.Equal(t, IntervalLength, events[0].OffsetEnd.Sub(events[0].OffsetStart))
}
