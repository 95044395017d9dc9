package restapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/stationdb"
)

const (
	defaultPredictionHours = 3
	// Forecast quality degrades fast past a few hours; a day is the most
	// the API will extrapolate.
	maxPredictionHours = 24
)

// predictionHandler returns short-horizon congestion forecasts for one
// station, at 30-minute steps.
func (api *RestAPI) predictionHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	stationID := query.Get("station_id")
	if stationID == "" {
		api.validationErrorResponse(w, r, "station_id is required")
		return
	}

	durationHours := defaultPredictionHours
	if raw := query.Get("duration_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxPredictionHours {
			api.validationErrorResponse(w, r, "duration_hours must be between 1 and 24")
			return
		}
		durationHours = parsed
	}

	station, err := api.Stations.GetStation(stationID)
	if err != nil {
		if errors.Is(err, stationdb.ErrNotFound) {
			api.sendNotFound(w, r, "Station not found")
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	predictions := api.Generator.Predict(stationID, durationHours)

	// Cache write is best-effort; the forecast is regenerated per request.
	if err := api.Stations.RecordPredictions(stationID, predictions); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to cache predictions", err,
			"station_id", stationID)
	}

	api.sendData(w, r, map[string]any{
		"station_id":     stationID,
		"station_name":   station.Name,
		"predictions":    predictions,
		"model_accuracy": api.Generator.ModelAccuracy(),
		"prediction_params": map[string]any{
			"duration_hours": durationHours,
			"generated_at":   api.Clock.Now().Format(time.RFC3339),
		},
	})
}

// predictionAccuracyHandler returns the simulated model-performance
// breakdown. Accepts but does not require station_id.
func (api *RestAPI) predictionAccuracyHandler(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		stationID = "all"
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "30d"
	}

	api.sendData(w, r, map[string]any{
		"station_id":        stationID,
		"accuracy_stats":    api.Generator.AccuracyStats(),
		"evaluation_period": period,
	})
}
