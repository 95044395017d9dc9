package restapi

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"smarttransit.seoullab.org/internal/congestion"
	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/models"
	"smarttransit.seoullab.org/internal/stationdb"
)

const (
	defaultHistoryHours = 24
	// History queries are bounded to a week so one request cannot pull an
	// unbounded window out of the readings table.
	maxHistoryHours = 168
)

// congestionRealtimeHandler returns the current congestion for one station.
// With use_real_api=true the upstream adapter is consulted; it degrades to
// the simulator internally, so this handler never sees an upstream error.
func (api *RestAPI) congestionRealtimeHandler(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		api.validationErrorResponse(w, r, "station_id is required")
		return
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

	var reading models.CongestionReading
	var vehicles []models.VehicleArrival
	if r.URL.Query().Get("use_real_api") == "true" {
		arrivals := api.Metro.RealtimeArrivals(r.Context(), station)
		reading = arrivals.Reading
		vehicles = arrivals.Vehicles
	} else {
		reading = api.Generator.Generate(stationID)
		vehicles = api.Generator.Vehicles(stationID, reading)
	}

	// Audit write is best-effort; a failure must not break the response.
	if err := api.Stations.RecordCongestion(reading); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to record congestion reading", err,
			"station_id", stationID)
	}

	api.sendData(w, r, map[string]any{
		"station_id":         stationID,
		"station_name":       station.Name,
		"line_id":            station.LineID,
		"current_congestion": reading.CongestionLevel,
		"congestion_level":   models.CongestionBand(reading.CongestionLevel),
		"passenger_count":    reading.PassengerCount,
		"vehicles":           vehicles,
		"updated_at":         reading.Timestamp,
		"data_source":        reading.DataSource,
	})
}

// congestionHistoryHandler returns raw audit-log readings for a station plus
// hourly means over the requested window.
func (api *RestAPI) congestionHistoryHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	stationID := query.Get("station_id")
	if stationID == "" {
		api.validationErrorResponse(w, r, "station_id is required")
		return
	}

	hours := defaultHistoryHours
	if raw := query.Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxHistoryHours {
			api.validationErrorResponse(w, r, "hours must be between 1 and 168")
			return
		}
		hours = parsed
	}

	since := api.Clock.Now().Add(-time.Duration(hours) * time.Hour)
	history, err := api.Stations.CongestionHistory(stationID, since)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	if history == nil {
		history = []stationdb.HistoryRow{}
	}

	api.sendData(w, r, map[string]any{
		"station_id":     stationID,
		"history":        history,
		"hourly_average": stationdb.HourlyAverages(history),
		"query_params": map[string]any{
			"hours": hours,
			"from":  since.Format(time.RFC3339),
		},
	})
}

type stationOverview struct {
	StationID         string                            `json:"station_id"`
	StationName       string                            `json:"station_name"`
	LineID            string                            `json:"line_id"`
	CurrentCongestion int                               `json:"current_congestion"`
	CongestionLevel   string                            `json:"congestion_level"`
	Characteristics   congestion.StationCharacteristics `json:"characteristics"`
	UpdatedAt         string                            `json:"updated_at"`
}

type lineStatistics struct {
	LineID        string `json:"line_id"`
	StationCount  int    `json:"station_count"`
	AvgCongestion int    `json:"avg_congestion"`
	MaxCongestion int    `json:"max_congestion"`
	MinCongestion int    `json:"min_congestion"`
}

// congestionOverviewHandler returns a current reading for every station,
// optionally filtered by line, with per-line aggregates.
func (api *RestAPI) congestionOverviewHandler(w http.ResponseWriter, r *http.Request) {
	filter := &stationdb.StationFilter{LineID: r.URL.Query().Get("line_id")}
	stations, err := api.Stations.ListStations(filter)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	overview := make([]stationOverview, 0, len(stations))
	lineStats := map[string]*lineStatistics{}
	lineTotals := map[string]int{}

	for _, station := range stations {
		reading := api.Generator.Generate(station.ID)

		overview = append(overview, stationOverview{
			StationID:         station.ID,
			StationName:       station.Name,
			LineID:            station.LineID,
			CurrentCongestion: reading.CongestionLevel,
			CongestionLevel:   models.CongestionBand(reading.CongestionLevel),
			Characteristics:   congestion.Characteristics(station.ID),
			UpdatedAt:         reading.Timestamp,
		})

		stat, ok := lineStats[station.LineID]
		if !ok {
			stat = &lineStatistics{LineID: station.LineID, MinCongestion: 100}
			lineStats[station.LineID] = stat
		}
		stat.StationCount++
		stat.MaxCongestion = max(stat.MaxCongestion, reading.CongestionLevel)
		stat.MinCongestion = min(stat.MinCongestion, reading.CongestionLevel)
		lineTotals[station.LineID] += reading.CongestionLevel
	}

	statistics := make([]lineStatistics, 0, len(lineStats))
	for lineID, stat := range lineStats {
		stat.AvgCongestion = int(math.Round(float64(lineTotals[lineID]) / float64(stat.StationCount)))
		statistics = append(statistics, *stat)
	}
	sort.Slice(statistics, func(i, j int) bool { return statistics[i].LineID < statistics[j].LineID })

	api.sendData(w, r, map[string]any{
		"stations":        overview,
		"line_statistics": statistics,
		"updated_at":      api.Clock.Now().Format(time.RFC3339),
	})
}
