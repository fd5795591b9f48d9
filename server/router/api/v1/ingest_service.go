package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/thermosense/personalizer"
)

type TelemetryRow struct {
	DeviceID                  string    `json:"deviceId"`
	IntervalStart             time.Time `json:"intervalStart"`
	CoolingTargetCelsius      float64   `json:"coolingTargetCelsius"`
	IndoorTemperatureCelsius  float64   `json:"indoorTemperatureCelsius"`
	OutdoorTemperatureCelsius float64   `json:"outdoorTemperatureCelsius"`
	DurationHomeSeconds       float64   `json:"durationHomeSeconds"`
	DurationCoolingSeconds    float64   `json:"durationCoolingSeconds"`
	ScheduleOffsetCelsius     float64   `json:"scheduleOffsetCelsius"`
}

type DialTurnRow struct {
	DeviceID              string    `json:"deviceId"`
	TurnTime              time.Time `json:"turnTime"`
	ScheduleOffsetCelsius float64   `json:"scheduleOffsetCelsius"`
	InitialTargetCelsius  float64   `json:"initialTargetCelsius"`
	FinalTargetCelsius    float64   `json:"finalTargetCelsius"`
}

type IngestResponse struct {
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`
}

// IngestTelemetry accepts a batch of telemetry rows. Rows without a
// device id or timestamp are dropped rather than failing the batch.
func (s *APIV1Service) IngestTelemetry(c echo.Context) error {
	var rows []TelemetryRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	samples := make([]personalizer.TelemetrySample, 0, len(rows))
	for _, row := range rows {
		if row.DeviceID == "" || row.IntervalStart.IsZero() {
			continue
		}
		samples = append(samples, personalizer.TelemetrySample{
			DeviceID:                  row.DeviceID,
			IntervalStart:             row.IntervalStart,
			CoolingTargetCelsius:      row.CoolingTargetCelsius,
			IndoorTemperatureCelsius:  row.IndoorTemperatureCelsius,
			OutdoorTemperatureCelsius: row.OutdoorTemperatureCelsius,
			DurationHomeSeconds:       row.DurationHomeSeconds,
			DurationCoolingSeconds:    row.DurationCoolingSeconds,
			ScheduleOffsetCelsius:     row.ScheduleOffsetCelsius,
		})
	}

	if err := s.Store.UpsertTelemetry(c.Request().Context(), samples); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store telemetry").SetInternal(err)
	}
	return c.JSON(http.StatusOK, IngestResponse{Accepted: len(samples), Dropped: len(rows) - len(samples)})
}

// IngestDialTurns accepts a batch of dial-turn events with the same
// drop-don't-fail policy as telemetry.
func (s *APIV1Service) IngestDialTurns(c echo.Context) error {
	var rows []DialTurnRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}

	turns := make([]personalizer.DialTurnEvent, 0, len(rows))
	for _, row := range rows {
		if row.DeviceID == "" || row.TurnTime.IsZero() {
			continue
		}
		turns = append(turns, personalizer.DialTurnEvent{
			DeviceID:              row.DeviceID,
			TurnTime:              row.TurnTime,
			ScheduleOffsetCelsius: row.ScheduleOffsetCelsius,
			InitialTargetCelsius:  row.InitialTargetCelsius,
			FinalTargetCelsius:    row.FinalTargetCelsius,
		})
	}

	if err := s.Store.UpsertDialTurns(c.Request().Context(), turns); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store dial turns").SetInternal(err)
	}
	return c.JSON(http.StatusOK, IngestResponse{Accepted: len(turns), Dropped: len(rows) - len(turns)})
}
