package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"smarttransit.seoullab.org/internal/models"
)

type recommendationsRequest struct {
	UserID        string             `json:"user_id"`
	Origin        *models.Coordinate `json:"origin"`
	Destination   *models.Coordinate `json:"destination"`
	DepartureTime string             `json:"departure_time"`
	Preferences   models.Preferences `json:"preferences"`
}

// recommendationsHandler scores synthetic route alternatives between two
// coordinates against the caller's preference thresholds.
func (api *RestAPI) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	// Pre-filling defaults means a partial preferences object only
	// overrides the fields it names.
	req := recommendationsRequest{Preferences: models.DefaultPreferences()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, "request body must be valid JSON")
		return
	}

	if req.Origin == nil || req.Destination == nil {
		api.validationErrorResponse(w, r, "Origin and destination are required")
		return
	}
	if !req.Origin.Valid() || !req.Destination.Valid() {
		api.validationErrorResponse(w, r, "Origin and destination must include lat and lng coordinates")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	departureTime := req.DepartureTime
	if departureTime == "" {
		departureTime = api.Clock.Now().Format(time.RFC3339)
	}

	routes := api.Generator.Recommend(*req.Origin, *req.Destination, req.Preferences)

	api.sendData(w, r, map[string]any{
		"user_id":            userID,
		"recommended_routes": routes,
		"search_params": map[string]any{
			"origin":         req.Origin,
			"destination":    req.Destination,
			"departure_time": departureTime,
			"preferences":    req.Preferences,
		},
		"generated_at": api.Clock.Now().Format(time.RFC3339),
	})
}

type popularRoute struct {
	OriginName       string   `json:"origin_name"`
	DestinationName  string   `json:"destination_name"`
	UsageCount       int      `json:"usage_count"`
	AvgRating        float64  `json:"avg_rating"`
	AvgTimeMinutes   int      `json:"avg_time"`
	AvgCongestion    int      `json:"avg_congestion"`
	RecommendedTimes []string `json:"recommended_times"`
}

// Simulated usage ranking. A production build would aggregate saved
// journeys per user; the demo keeps a fixed leaderboard of busy corridors.
var popularRoutes = []popularRoute{
	{
		OriginName:       "강남역",
		DestinationName:  "홍대입구역",
		UsageCount:       1250,
		AvgRating:        4.3,
		AvgTimeMinutes:   48,
		AvgCongestion:    65,
		RecommendedTimes: []string{"07:30", "08:00", "18:30"},
	},
	{
		OriginName:       "잠실역",
		DestinationName:  "강남역",
		UsageCount:       980,
		AvgRating:        4.1,
		AvgTimeMinutes:   35,
		AvgCongestion:    70,
		RecommendedTimes: []string{"08:15", "18:00", "18:45"},
	},
	{
		OriginName:       "건대입구역",
		DestinationName:  "삼성역",
		UsageCount:       756,
		AvgRating:        4.0,
		AvgTimeMinutes:   42,
		AvgCongestion:    58,
		RecommendedTimes: []string{"07:45", "08:30", "18:15"},
	},
}

// popularRoutesHandler lists the most travelled corridors for a lookback
// window. Both parameters are optional: time_period defaults to "7d" and
// limit to the full list.
func (api *RestAPI) popularRoutesHandler(w http.ResponseWriter, r *http.Request) {
	timePeriod := r.URL.Query().Get("time_period")
	if timePeriod == "" {
		timePeriod = "7d"
	}

	limit := len(popularRoutes)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.validationErrorResponse(w, r, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	routes := popularRoutes
	if limit < len(routes) {
		routes = routes[:limit]
	}

	api.sendData(w, r, map[string]any{
		"popular_routes":  routes,
		"analysis_period": timePeriod,
		"updated_at":      api.Clock.Now().Format(time.RFC3339),
	})
}
