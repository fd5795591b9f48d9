// Package personalizer infers how much a user tolerates automatic
// schedule-driven temperature offsets, from historical telemetry and
// manual dial-turn events. It is pure and stateless per call: no I/O, no
// shared mutable state, so callers may fan out one inference per device
// across any number of workers.
package personalizer

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// Tolerance classification thresholds on the decay-weighted override
// rate, evaluated high to low with inclusive lower bounds.
const (
	LowToleranceRate    = 0.50
	MediumToleranceRate = 0.25
)

const (
	// DefaultLookbackDays bounds how far back telemetry and dial turns
	// are considered. Upstream queries should already filter to this
	// window; inputs are re-filtered defensively.
	DefaultLookbackDays = 14
	// DefaultHalfLifeDays is the age at which an offset event's influence
	// on the override rate drops to half.
	DefaultHalfLifeDays = 7
)

const hoursPerDay = 24

// Config controls the inference windows. The zero value is not usable;
// use DefaultConfig or fill every field.
type Config struct {
	LookbackDays int
	HalfLifeDays int
}

// DefaultConfig returns the standard production configuration.
func DefaultConfig() Config {
	return Config{
		LookbackDays: DefaultLookbackDays,
		HalfLifeDays: DefaultHalfLifeDays,
	}
}

// Validate rejects configurations that would silently produce nonsensical
// decay weights or windows.
func (c Config) Validate() error {
	if c.LookbackDays <= 0 {
		return errors.Errorf("lookback days must be positive, got %d", c.LookbackDays)
	}
	if c.HalfLifeDays <= 0 {
		return errors.Errorf("half-life days must be positive, got %d", c.HalfLifeDays)
	}
	return nil
}

// Personalizer computes per-device tolerance preferences.
type Personalizer struct {
	config Config
}

// New creates a Personalizer, validating the configuration eagerly.
func New(config Config) (*Personalizer, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid personalizer config")
	}
	return &Personalizer{config: config}, nil
}

// ComputeMetrics derives offset events from telemetry, correlates them
// against dial turns, and computes the decay-weighted override rate as of
// the given instant. A zero asOf defaults to the current instant in the
// telemetry's timezone (or the local timezone when telemetry is empty).
func (p *Personalizer) ComputeMetrics(telemetry []TelemetrySample, dialTurns []DialTurnEvent, asOf time.Time) Metrics {
	if asOf.IsZero() {
		asOf = now(telemetry)
	}

	// Upstream retrieval should already be window-bounded; re-filter just
	// to be safe, and drop malformed rows rather than failing the batch.
	cutoff := asOf.AddDate(0, 0, -p.config.LookbackDays)
	telemetry = filterTelemetry(telemetry, cutoff)
	dialTurns = filterDialTurns(dialTurns, cutoff)

	events := ExtractOffsetEvents(telemetry)
	metrics := Metrics{NumOffsetEvents: len(events)}
	if len(events) == 0 || len(dialTurns) == 0 {
		return metrics
	}

	metrics.NumOverrides = MarkOverrides(events, dialTurns)
	if metrics.NumOverrides == 0 {
		return metrics
	}

	metrics.OverrideRate = p.decayedOverrideRate(events, asOf)
	return metrics
}

// decayedOverrideRate computes the weighted fraction of overridden events,
// where an event half-life days old has half the influence of one from
// today.
func (p *Personalizer) decayedOverrideRate(events []OffsetEvent, asOf time.Time) float64 {
	var weightSum, overriddenSum float64
	for i := range events {
		ev := &events[i]
		ev.AgeInDays = asOf.Sub(ev.OffsetStart).Hours() / hoursPerDay
		if ev.AgeInDays < 0 {
			// Future-dated events are a caller error; clamp instead of
			// letting them dominate the rate.
			ev.AgeInDays = 0
		}
		ev.DecayWeight = math.Exp2(-ev.AgeInDays / float64(p.config.HalfLifeDays))
		weightSum += ev.DecayWeight
		if ev.WasOverridden {
			overriddenSum += ev.DecayWeight
		}
	}
	if weightSum == 0 {
		return 0
	}
	return overriddenSum / weightSum
}

// ScoreTolerance maps an override rate to a tolerance label. Frequent
// overriding signals low tolerance for temperature deviation.
func (p *Personalizer) ScoreTolerance(metrics Metrics) ToleranceLabel {
	switch {
	case metrics.OverrideRate >= LowToleranceRate:
		return ToleranceLow
	case metrics.OverrideRate >= MediumToleranceRate:
		return ToleranceMedium
	default:
		return ToleranceHigh
	}
}

// CalculatePreference runs the full pipeline for one device's data:
// compute metrics, classify, and package the result with the offset
// magnitude bound to the label.
func (p *Personalizer) CalculatePreference(telemetry []TelemetrySample, dialTurns []DialTurnEvent, asOf time.Time) Preference {
	metrics := p.ComputeMetrics(telemetry, dialTurns, asOf)
	label := p.ScoreTolerance(metrics)
	return Preference{
		Label:         label,
		OffsetCelsius: OffsetForLabel(label),
		Metrics:       metrics,
	}
}

// OffsetForLabel returns the offset magnitude bound to a tolerance label,
// falling back to the most conservative offset for unknown labels.
func OffsetForLabel(label ToleranceLabel) float64 {
	switch label {
	case ToleranceMedium:
		return OffsetMedium
	case ToleranceHigh:
		return OffsetHigh
	default:
		return OffsetLow
	}
}

// now resolves the reference instant in the same timezone the telemetry
// was recorded in. Intervals carry device-local timestamps, so "now" must
// be device-local too.
func now(telemetry []TelemetrySample) time.Time {
	if len(telemetry) > 0 {
		return time.Now().In(telemetry[0].IntervalStart.Location())
	}
	return time.Now()
}

func filterTelemetry(samples []TelemetrySample, cutoff time.Time) []TelemetrySample {
	kept := make([]TelemetrySample, 0, len(samples))
	for _, s := range samples {
		if s.DeviceID == "" || s.IntervalStart.IsZero() {
			continue
		}
		if s.IntervalStart.Before(cutoff) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func filterDialTurns(turns []DialTurnEvent, cutoff time.Time) []DialTurnEvent {
	kept := make([]DialTurnEvent, 0, len(turns))
	for _, t := range turns {
		if t.DeviceID == "" || t.TurnTime.IsZero() {
			continue
		}
		if t.TurnTime.Before(cutoff) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
