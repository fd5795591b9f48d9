package store

import "time"

// FindTelemetry specifies the conditions for listing telemetry samples.
type FindTelemetry struct {
	DeviceID *string
	// Since bounds the listing to samples starting at or after this
	// instant.
	Since *time.Time
}

// FindDialTurn specifies the conditions for listing dial-turn events.
type FindDialTurn struct {
	DeviceID *string
	Since    *time.Time
}
