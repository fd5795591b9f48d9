package store

import (
	"context"
	"time"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache for device preferences; invalidated on upsert.
	preferenceCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		preferenceCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        10000,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.preferenceCache.Close()
	return s.driver.Close()
}

// UpsertDevicePreference stores the preference produced by a scoring run,
// replacing any prior record for the device. The store attaches the
// last-updated timestamp; confidence comes from the caller.
func (s *Store) UpsertDevicePreference(ctx context.Context, upsert *UpsertDevicePreference) (*DevicePreference, error) {
	preference := &DevicePreference{
		DeviceID:       upsert.DeviceID,
		ToleranceLabel: upsert.Preference.Label,
		OffsetCelsius:  upsert.Preference.OffsetCelsius,
		Confidence:     upsert.Confidence,
		LastUpdated:    time.Now(),
	}
	stored, err := s.driver.UpsertDevicePreference(ctx, preference)
	if err != nil {
		return nil, err
	}
	s.preferenceCache.Set(ctx, stored.DeviceID, stored)
	return stored, nil
}

// GetDevicePreference returns the stored preference for a device. Unknown
// devices get the conservative fallback (low tolerance, confidence 0, no
// timestamp) rather than an error or a miss.
func (s *Store) GetDevicePreference(ctx context.Context, deviceID string) (*DevicePreference, error) {
	if v, ok := s.preferenceCache.Get(ctx, deviceID); ok {
		if preference, ok := v.(*DevicePreference); ok {
			return preference, nil
		}
	}

	preference, err := s.driver.GetDevicePreference(ctx, &FindDevicePreference{DeviceID: &deviceID})
	if err != nil {
		return nil, err
	}
	if preference == nil {
		return FallbackDevicePreference(deviceID), nil
	}
	s.preferenceCache.Set(ctx, deviceID, preference)
	return preference, nil
}

// BatchGetDevicePreferences resolves every requested id, in request
// order. Ids without a stored preference get the fallback individually;
// no requested id is ever omitted.
func (s *Store) BatchGetDevicePreferences(ctx context.Context, deviceIDs []string) ([]*DevicePreference, error) {
	preferences := make([]*DevicePreference, 0, len(deviceIDs))
	for _, deviceID := range deviceIDs {
		preference, err := s.GetDevicePreference(ctx, deviceID)
		if err != nil {
			return nil, err
		}
		preferences = append(preferences, preference)
	}
	return preferences, nil
}

func (s *Store) ListDevicePreferences(ctx context.Context, find *FindDevicePreference) ([]*DevicePreference, error) {
	return s.driver.ListDevicePreferences(ctx, find)
}

func (s *Store) UpsertTelemetry(ctx context.Context, samples []personalizer.TelemetrySample) error {
	return s.driver.UpsertTelemetry(ctx, samples)
}

func (s *Store) ListTelemetry(ctx context.Context, find *FindTelemetry) ([]personalizer.TelemetrySample, error) {
	return s.driver.ListTelemetry(ctx, find)
}

func (s *Store) UpsertDialTurns(ctx context.Context, turns []personalizer.DialTurnEvent) error {
	return s.driver.UpsertDialTurns(ctx, turns)
}

func (s *Store) ListDialTurns(ctx context.Context, find *FindDialTurn) ([]personalizer.DialTurnEvent, error) {
	return s.driver.ListDialTurns(ctx, find)
}

func (s *Store) ListDeviceIDs(ctx context.Context, since time.Time) ([]string, error) {
	return s.driver.ListDeviceIDs(ctx, since)
}
