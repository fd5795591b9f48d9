package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
)

func (d *DB) UpsertTelemetry(ctx context.Context, samples []personalizer.TelemetrySample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO telemetry (
			device_id, interval_start_ts, interval_start,
			cooling_target_celsius, indoor_temperature_celsius, outdoor_temperature_celsius,
			duration_home_seconds, duration_cooling_seconds, schedule_offset_celsius
		)
		VALUES (` + placeholders(9) + `)
		ON CONFLICT (device_id, interval_start_ts) DO UPDATE SET
			interval_start = EXCLUDED.interval_start,
			cooling_target_celsius = EXCLUDED.cooling_target_celsius,
			indoor_temperature_celsius = EXCLUDED.indoor_temperature_celsius,
			outdoor_temperature_celsius = EXCLUDED.outdoor_temperature_celsius,
			duration_home_seconds = EXCLUDED.duration_home_seconds,
			duration_cooling_seconds = EXCLUDED.duration_cooling_seconds,
			schedule_offset_celsius = EXCLUDED.schedule_offset_celsius`
	for _, s := range samples {
		if _, err := tx.ExecContext(ctx, stmt,
			s.DeviceID,
			encodeTimestamp(s.IntervalStart),
			encodeTime(s.IntervalStart),
			s.CoolingTargetCelsius,
			s.IndoorTemperatureCelsius,
			s.OutdoorTemperatureCelsius,
			s.DurationHomeSeconds,
			s.DurationCoolingSeconds,
			s.ScheduleOffsetCelsius,
		); err != nil {
			return errors.Wrap(err, "failed to upsert telemetry sample")
		}
	}
	return tx.Commit()
}

func (d *DB) ListTelemetry(ctx context.Context, find *store.FindTelemetry) ([]personalizer.TelemetrySample, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DeviceID; v != nil {
		where, args = append(where, "device_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Since; v != nil {
		where, args = append(where, "interval_start_ts >= "+placeholder(len(args)+1)), append(args, encodeTimestamp(*v))
	}

	query := `
		SELECT
			device_id, interval_start,
			cooling_target_celsius, indoor_temperature_celsius, outdoor_temperature_celsius,
			duration_home_seconds, duration_cooling_seconds, schedule_offset_celsius
		FROM telemetry
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY interval_start_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list telemetry")
	}
	defer rows.Close()

	list := []personalizer.TelemetrySample{}
	for rows.Next() {
		var s personalizer.TelemetrySample
		var intervalStart string
		if err := rows.Scan(
			&s.DeviceID,
			&intervalStart,
			&s.CoolingTargetCelsius,
			&s.IndoorTemperatureCelsius,
			&s.OutdoorTemperatureCelsius,
			&s.DurationHomeSeconds,
			&s.DurationCoolingSeconds,
			&s.ScheduleOffsetCelsius,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan telemetry sample")
		}
		if s.IntervalStart, err = decodeTime(intervalStart); err != nil {
			return nil, errors.Wrap(err, "failed to decode interval start")
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) ListDeviceIDs(ctx context.Context, since time.Time) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		"SELECT DISTINCT device_id FROM telemetry WHERE interval_start_ts >= ? ORDER BY device_id ASC",
		encodeTimestamp(since),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list device ids")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
