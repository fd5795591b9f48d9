package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/hrygo/thermosense/personalizer"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	// GetDB returns the underlying sql.DB, or nil for drivers without one.
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// DevicePreference model related methods.
	UpsertDevicePreference(ctx context.Context, preference *DevicePreference) (*DevicePreference, error)
	GetDevicePreference(ctx context.Context, find *FindDevicePreference) (*DevicePreference, error)
	ListDevicePreferences(ctx context.Context, find *FindDevicePreference) ([]*DevicePreference, error)

	// Telemetry model related methods.
	UpsertTelemetry(ctx context.Context, samples []personalizer.TelemetrySample) error
	ListTelemetry(ctx context.Context, find *FindTelemetry) ([]personalizer.TelemetrySample, error)

	// DialTurn model related methods.
	UpsertDialTurns(ctx context.Context, turns []personalizer.DialTurnEvent) error
	ListDialTurns(ctx context.Context, find *FindDialTurn) ([]personalizer.DialTurnEvent, error)

	// ListDeviceIDs lists the ids of devices with telemetry at or after
	// the given instant.
	ListDeviceIDs(ctx context.Context, since time.Time) ([]string, error)
}
