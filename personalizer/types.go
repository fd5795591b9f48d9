package personalizer

import "time"

// ToleranceLabel summarizes how much scheduled offset a user is inferred
// to accept.
type ToleranceLabel string

const (
	// ToleranceLow means the user frequently rejects offsets; apply the
	// smallest offset going forward.
	ToleranceLow ToleranceLabel = "LOW"
	// ToleranceMedium means occasional rejections.
	ToleranceMedium ToleranceLabel = "MEDIUM"
	// ToleranceHigh means the user rarely rejects offsets.
	ToleranceHigh ToleranceLabel = "HIGH"
)

// Offset magnitudes in degrees Celsius bound to each tolerance label.
// The mapping is intentionally inverse: the least tolerant users get the
// smallest corrective offset the system is willing to risk.
const (
	OffsetLow    = 0.5
	OffsetMedium = 0.7
	OffsetHigh   = 0.8
)

// TelemetrySample is one fixed-length telemetry interval reported by a
// device. IntervalStart is in the device's local timezone. A non-zero
// ScheduleOffsetCelsius means a scheduled offset was in effect during
// this interval.
type TelemetrySample struct {
	DeviceID                  string
	IntervalStart             time.Time
	CoolingTargetCelsius      float64
	IndoorTemperatureCelsius  float64
	OutdoorTemperatureCelsius float64
	DurationHomeSeconds       float64
	DurationCoolingSeconds    float64
	ScheduleOffsetCelsius     float64
}

// DialTurnEvent is a user-initiated thermostat adjustment. TurnTime is in
// the device's local timezone. ScheduleOffsetCelsius is 0 if the turn did
// not occur during an active offset.
type DialTurnEvent struct {
	DeviceID              string
	TurnTime              time.Time
	ScheduleOffsetCelsius float64
	InitialTargetCelsius  float64
	FinalTargetCelsius    float64
}

// OffsetEvent is a maximal contiguous time span during which a scheduled
// offset was active for a device. Derived from telemetry, never persisted.
type OffsetEvent struct {
	DeviceID              string
	OffsetStart           time.Time
	OffsetEnd             time.Time
	ScheduleOffsetCelsius float64

	// Populated during scoring.
	AgeInDays     float64
	DecayWeight   float64
	WasOverridden bool
}

// Metrics reports the raw counts alongside the decayed rate so callers can
// observe both.
type Metrics struct {
	NumOffsetEvents int     `json:"n_offset_events"`
	NumOverrides    int     `json:"n_overrides"`
	OverrideRate    float64 `json:"override_rate"`
}

// Preference is the outcome of a scoring run for one device. Confidence
// and the stored timestamp are attached by the preference store, not here.
type Preference struct {
	Label         ToleranceLabel `json:"label"`
	OffsetCelsius float64        `json:"offset_celsius"`
	Metrics       Metrics        `json:"metrics"`
}
