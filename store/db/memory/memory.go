// Package memory provides an in-process store driver backed by plain
// maps. It keeps the same observable behavior as the SQL drivers
// (ordering, upsert-replace semantics) so it can stand in for them in
// tests and demo deployments.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
)

type telemetryKey struct {
	deviceID      string
	intervalStart int64
}

type dialTurnKey struct {
	deviceID string
	turnTime int64
}

type DB struct {
	mu          sync.RWMutex
	preferences map[string]store.DevicePreference
	telemetry   map[telemetryKey]personalizer.TelemetrySample
	dialTurns   map[dialTurnKey]personalizer.DialTurnEvent
}

func NewDB() *DB {
	return &DB{
		preferences: make(map[string]store.DevicePreference),
		telemetry:   make(map[telemetryKey]personalizer.TelemetrySample),
		dialTurns:   make(map[dialTurnKey]personalizer.DialTurnEvent),
	}
}

func (d *DB) GetDB() *sql.DB {
	return nil
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) IsInitialized(context.Context) (bool, error) {
	return true, nil
}

func (d *DB) UpsertDevicePreference(_ context.Context, preference *store.DevicePreference) (*store.DevicePreference, error) {
	d.mu.Lock()
	d.preferences[preference.DeviceID] = *preference
	d.mu.Unlock()
	return preference, nil
}

func (d *DB) GetDevicePreference(_ context.Context, find *store.FindDevicePreference) (*store.DevicePreference, error) {
	if find.DeviceID == nil {
		return nil, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if preference, ok := d.preferences[*find.DeviceID]; ok {
		result := preference
		return &result, nil
	}
	return nil, nil
}

func (d *DB) ListDevicePreferences(_ context.Context, find *store.FindDevicePreference) ([]*store.DevicePreference, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := []*store.DevicePreference{}
	for _, preference := range d.preferences {
		if find.DeviceID != nil && preference.DeviceID != *find.DeviceID {
			continue
		}
		result := preference
		list = append(list, &result)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].DeviceID < list[j].DeviceID })
	return list, nil
}

func (d *DB) UpsertTelemetry(_ context.Context, samples []personalizer.TelemetrySample) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range samples {
		d.telemetry[telemetryKey{s.DeviceID, s.IntervalStart.UnixNano()}] = s
	}
	return nil
}

func (d *DB) ListTelemetry(_ context.Context, find *store.FindTelemetry) ([]personalizer.TelemetrySample, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := []personalizer.TelemetrySample{}
	for _, s := range d.telemetry {
		if find.DeviceID != nil && s.DeviceID != *find.DeviceID {
			continue
		}
		if find.Since != nil && s.IntervalStart.Before(*find.Since) {
			continue
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].IntervalStart.Before(list[j].IntervalStart) })
	return list, nil
}

func (d *DB) UpsertDialTurns(_ context.Context, turns []personalizer.DialTurnEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range turns {
		d.dialTurns[dialTurnKey{t.DeviceID, t.TurnTime.UnixNano()}] = t
	}
	return nil
}

func (d *DB) ListDialTurns(_ context.Context, find *store.FindDialTurn) ([]personalizer.DialTurnEvent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := []personalizer.DialTurnEvent{}
	for _, t := range d.dialTurns {
		if find.DeviceID != nil && t.DeviceID != *find.DeviceID {
			continue
		}
		if find.Since != nil && t.TurnTime.Before(*find.Since) {
			continue
		}
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].TurnTime.Before(list[j].TurnTime) })
	return list, nil
}

func (d *DB) ListDeviceIDs(_ context.Context, since time.Time) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := map[string]bool{}
	for _, s := range d.telemetry {
		if s.IntervalStart.Before(since) {
			continue
		}
		seen[s.DeviceID] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
