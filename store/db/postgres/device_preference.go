package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
)

func (d *DB) UpsertDevicePreference(ctx context.Context, preference *store.DevicePreference) (*store.DevicePreference, error) {
	stmt := `
		INSERT INTO device_preference (device_id, tolerance_label, offset_celsius, confidence, last_updated)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (device_id) DO UPDATE SET
			tolerance_label = EXCLUDED.tolerance_label,
			offset_celsius = EXCLUDED.offset_celsius,
			confidence = EXCLUDED.confidence,
			last_updated = EXCLUDED.last_updated`
	if _, err := d.db.ExecContext(ctx, stmt,
		preference.DeviceID,
		string(preference.ToleranceLabel),
		preference.OffsetCelsius,
		preference.Confidence,
		encodeTime(preference.LastUpdated),
	); err != nil {
		return nil, errors.Wrap(err, "failed to upsert device preference")
	}
	return preference, nil
}

func (d *DB) GetDevicePreference(ctx context.Context, find *store.FindDevicePreference) (*store.DevicePreference, error) {
	list, err := d.ListDevicePreferences(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListDevicePreferences(ctx context.Context, find *store.FindDevicePreference) ([]*store.DevicePreference, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DeviceID; v != nil {
		where, args = append(where, "device_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT device_id, tolerance_label, offset_celsius, confidence, last_updated
		FROM device_preference
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY device_id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list device preferences")
	}
	defer rows.Close()

	list := []*store.DevicePreference{}
	for rows.Next() {
		preference := &store.DevicePreference{}
		var label string
		var lastUpdated string
		if err := rows.Scan(
			&preference.DeviceID,
			&label,
			&preference.OffsetCelsius,
			&preference.Confidence,
			&lastUpdated,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan device preference")
		}
		preference.ToleranceLabel = personalizer.ToleranceLabel(label)
		if preference.LastUpdated, err = decodeTime(lastUpdated); err != nil {
			return nil, errors.Wrap(err, "failed to decode last updated timestamp")
		}
		list = append(list, preference)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
