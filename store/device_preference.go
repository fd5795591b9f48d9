package store

import (
	"time"

	"github.com/hrygo/thermosense/personalizer"
)

// DevicePreference is the persisted per-device tolerance preference.
// Subsequent scoring runs replace the prior record for the device.
type DevicePreference struct {
	DeviceID       string
	ToleranceLabel personalizer.ToleranceLabel
	OffsetCelsius  float64
	Confidence     float64
	// LastUpdated is zero for fallback preferences that were never stored.
	LastUpdated time.Time
}

// FindDevicePreference specifies the conditions for finding device
// preferences.
type FindDevicePreference struct {
	DeviceID *string
}

// UpsertDevicePreference specifies the data for upserting a device
// preference. Confidence is supplied by the caller; the scoring core
// never computes it.
type UpsertDevicePreference struct {
	DeviceID   string
	Preference personalizer.Preference
	Confidence float64
}

// FallbackDevicePreference is the documented default for devices with no
// stored preference: assume low tolerance to be conservative.
func FallbackDevicePreference(deviceID string) *DevicePreference {
	return &DevicePreference{
		DeviceID:       deviceID,
		ToleranceLabel: personalizer.ToleranceLow,
		OffsetCelsius:  personalizer.OffsetForLabel(personalizer.ToleranceLow),
		Confidence:     0,
	}
}
