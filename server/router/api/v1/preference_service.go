package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/thermosense/store"
)

type DevicePreferenceResponse struct {
	DeviceID       string  `json:"deviceId"`
	ToleranceLabel string  `json:"toleranceLabel"`
	OffsetCelsius  float64 `json:"offsetCelsius"`
	Confidence     float64 `json:"confidence"`
	// LastUpdated is null for fallback preferences that were never
	// computed.
	LastUpdated *time.Time `json:"lastUpdated"`
}

type BatchGetPreferencesRequest struct {
	DeviceIDs []string `json:"deviceIds"`
}

type BatchGetPreferencesResponse struct {
	Preferences []DevicePreferenceResponse `json:"preferences"`
}

func toPreferenceResponse(preference *store.DevicePreference) DevicePreferenceResponse {
	resp := DevicePreferenceResponse{
		DeviceID:       preference.DeviceID,
		ToleranceLabel: string(preference.ToleranceLabel),
		OffsetCelsius:  preference.OffsetCelsius,
		Confidence:     preference.Confidence,
	}
	if !preference.LastUpdated.IsZero() {
		lastUpdated := preference.LastUpdated
		resp.LastUpdated = &lastUpdated
	}
	return resp
}

// GetDevicePreference returns the stored preference for one device, or
// the conservative fallback when none has been computed.
func (s *APIV1Service) GetDevicePreference(c echo.Context) error {
	deviceID := c.Param("deviceId")
	if deviceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "device id is required")
	}

	preference, err := s.Store.GetDevicePreference(c.Request().Context(), deviceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get device preference").SetInternal(err)
	}
	return c.JSON(http.StatusOK, toPreferenceResponse(preference))
}

// BatchGetDevicePreferences resolves every requested id; unknown devices
// get the fallback rather than being omitted.
func (s *APIV1Service) BatchGetDevicePreferences(c echo.Context) error {
	var req BatchGetPreferencesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if len(req.DeviceIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "device ids are required")
	}

	preferences, err := s.Store.BatchGetDevicePreferences(c.Request().Context(), req.DeviceIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to batch get device preferences").SetInternal(err)
	}

	resp := BatchGetPreferencesResponse{Preferences: make([]DevicePreferenceResponse, 0, len(preferences))}
	for _, preference := range preferences {
		resp.Preferences = append(resp.Preferences, toPreferenceResponse(preference))
	}
	return c.JSON(http.StatusOK, resp)
}

// TriggerPrecompute runs one precompute pass synchronously.
func (s *APIV1Service) TriggerPrecompute(c echo.Context) error {
	if err := s.Runner.RunOnce(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "precompute failed").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
