package personalizer

import "sort"

// MarkOverrides flags offset events that were manually overridden and
// returns the number of dial turns that matched an event.
//
// A dial turn overrides the nearest preceding offset-event start for the
// same device, provided the turn happened no later than one interval
// length after that start. This is a backward-looking nearest match with
// tolerance, not an interval-containment test: a turn late inside a long
// event does not count. Multiple turns matching the same event still flag
// it only once, but each matching turn counts toward the returned total.
// Turns never match events of another device.
func MarkOverrides(events []OffsetEvent, dialTurns []DialTurnEvent) int {
	if len(events) == 0 || len(dialTurns) == 0 {
		return 0
	}

	startsByDevice := make(map[string][]int)
	for i, ev := range events {
		startsByDevice[ev.DeviceID] = append(startsByDevice[ev.DeviceID], i)
	}
	for _, idxs := range startsByDevice {
		sort.Slice(idxs, func(a, b int) bool {
			return events[idxs[a]].OffsetStart.Before(events[idxs[b]].OffsetStart)
		})
	}

	matched := 0
	for _, turn := range dialTurns {
		idxs, ok := startsByDevice[turn.DeviceID]
		if !ok {
			continue
		}
		// Nearest event start at or before the turn time.
		pos := sort.Search(len(idxs), func(i int) bool {
			return events[idxs[i]].OffsetStart.After(turn.TurnTime)
		})
		if pos == 0 {
			continue
		}
		ev := &events[idxs[pos-1]]
		if turn.TurnTime.Sub(ev.OffsetStart) <= IntervalLength {
			ev.WasOverridden = true
			matched++
		}
	}
	return matched
}
