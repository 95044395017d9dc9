package restapi

import (
	"encoding/json"
	"net/http"

	"smarttransit.seoullab.org/internal/logging"
)

// HealthResponse represents the JSON response from the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// healthHandler verifies database connectivity and readiness.
// It returns 503 Service Unavailable until the station inventory is usable.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Liveness: is the basic infrastructure initialized?
	if api.Application == nil || api.Stations == nil || api.Stations.DB == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "station database not initialized",
		})
		return
	}

	// Connectivity: is the database actually reachable?
	if err := api.Stations.DB.PingContext(r.Context()); err != nil {
		logging.LogError(api.Logger, "station DB ping failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status: "unavailable",
			Detail: "database connection failed",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status: "ok",
	})
}
