package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/personalizer"
	"github.com/hrygo/thermosense/store"
)

func (d *DB) UpsertDialTurns(ctx context.Context, turns []personalizer.DialTurnEvent) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO dial_turn (
			device_id, turn_time_ts, turn_time,
			schedule_offset_celsius, initial_target_celsius, final_target_celsius
		)
		VALUES (` + placeholders(6) + `)
		ON CONFLICT (device_id, turn_time_ts) DO UPDATE SET
			turn_time = EXCLUDED.turn_time,
			schedule_offset_celsius = EXCLUDED.schedule_offset_celsius,
			initial_target_celsius = EXCLUDED.initial_target_celsius,
			final_target_celsius = EXCLUDED.final_target_celsius`
	for _, t := range turns {
		if _, err := tx.ExecContext(ctx, stmt,
			t.DeviceID,
			encodeTimestamp(t.TurnTime),
			encodeTime(t.TurnTime),
			t.ScheduleOffsetCelsius,
			t.InitialTargetCelsius,
			t.FinalTargetCelsius,
		); err != nil {
			return errors.Wrap(err, "failed to upsert dial turn")
		}
	}
	return tx.Commit()
}

func (d *DB) ListDialTurns(ctx context.Context, find *store.FindDialTurn) ([]personalizer.DialTurnEvent, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DeviceID; v != nil {
		where, args = append(where, "device_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Since; v != nil {
		where, args = append(where, "turn_time_ts >= "+placeholder(len(args)+1)), append(args, encodeTimestamp(*v))
	}

	query := `
		SELECT device_id, turn_time, schedule_offset_celsius, initial_target_celsius, final_target_celsius
		FROM dial_turn
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY turn_time_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dial turns")
	}
	defer rows.Close()

	list := []personalizer.DialTurnEvent{}
	for rows.Next() {
		var t personalizer.DialTurnEvent
		var turnTime string
		if err := rows.Scan(
			&t.DeviceID,
			&turnTime,
			&t.ScheduleOffsetCelsius,
			&t.InitialTargetCelsius,
			&t.FinalTargetCelsius,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan dial turn")
		}
		if t.TurnTime, err = decodeTime(turnTime); err != nil {
			return nil, errors.Wrap(err, "failed to decode turn time")
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
