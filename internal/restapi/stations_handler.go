package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"smarttransit.seoullab.org/internal/stationdb"
)

const defaultNearbyRadiusMeters = 1000

// stationsListHandler returns the station inventory, optionally filtered by
// line_id and station_type.
func (api *RestAPI) stationsListHandler(w http.ResponseWriter, r *http.Request) {
	filter := &stationdb.StationFilter{
		LineID:      r.URL.Query().Get("line_id"),
		StationType: r.URL.Query().Get("station_type"),
	}

	stations, err := api.Stations.ListStations(filter)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendData(w, r, map[string]any{
		"stations": stations,
		"total":    len(stations),
	})
}

// stationHandler returns a single station by ID.
func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	station, err := api.Stations.GetStation(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, stationdb.ErrNotFound) {
			api.sendNotFound(w, r, "Station not found")
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendData(w, r, map[string]any{
		"station": station,
	})
}

// nearbyStationsHandler finds stations within a radius of a coordinate,
// nearest first.
func (api *RestAPI) nearbyStationsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if query.Get("lat") == "" || query.Get("lng") == "" || latErr != nil || lngErr != nil {
		api.validationErrorResponse(w, r, "Latitude and longitude are required")
		return
	}

	radius := float64(defaultNearbyRadiusMeters)
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			api.validationErrorResponse(w, r, "radius must be a positive number")
			return
		}
		radius = parsed
	}

	stations := api.Stations.Nearby(lat, lng, radius)

	api.sendData(w, r, map[string]any{
		"stations": stations,
		"total":    len(stations),
		"search_params": map[string]any{
			"lat":    lat,
			"lng":    lng,
			"radius": radius,
		},
	})
}
