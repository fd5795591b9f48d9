package personalizer

import (
	"sort"
	"time"
)

// IntervalLength is the fixed telemetry reporting interval. Two samples
// whose starts are more than one interval apart belong to different
// offset events.
const IntervalLength = 15 * time.Minute

// ExtractOffsetEvents reconstructs discrete offset events from raw
// telemetry samples. Samples with a zero (or missing, which decodes to
// zero) schedule offset are skipped. Devices are grouped independently;
// within a device, samples are ordered by interval start and a gap larger
// than one interval starts a new event. An event's end is the start of
// its last sample plus one interval, so it reflects the end of the last
// covered interval.
func ExtractOffsetEvents(samples []TelemetrySample) []OffsetEvent {
	byDevice := make(map[string][]TelemetrySample)
	deviceOrder := []string{}
	for _, s := range samples {
		if s.ScheduleOffsetCelsius == 0 {
			continue
		}
		if _, ok := byDevice[s.DeviceID]; !ok {
			deviceOrder = append(deviceOrder, s.DeviceID)
		}
		byDevice[s.DeviceID] = append(byDevice[s.DeviceID], s)
	}

	var events []OffsetEvent
	for _, deviceID := range deviceOrder {
		rows := byDevice[deviceID]
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].IntervalStart.Before(rows[j].IntervalStart)
		})

		current := OffsetEvent{
			DeviceID:              deviceID,
			OffsetStart:           rows[0].IntervalStart,
			OffsetEnd:             rows[0].IntervalStart.Add(IntervalLength),
			ScheduleOffsetCelsius: rows[0].ScheduleOffsetCelsius,
		}
		for _, row := range rows[1:] {
			// Contiguous iff the gap to the previous covered interval's
			// end does not exceed zero, i.e. start <= prev start + interval.
			if row.IntervalStart.After(current.OffsetEnd) {
				events = append(events, current)
				current = OffsetEvent{
					DeviceID:              deviceID,
					OffsetStart:           row.IntervalStart,
					ScheduleOffsetCelsius: row.ScheduleOffsetCelsius,
				}
			}
			current.OffsetEnd = row.IntervalStart.Add(IntervalLength)
		}
		events = append(events, current)
	}
	return events
}
