package models

// DataSource tags where a congestion reading came from. Clients use it to
// surface "this is simulated" when the live upstream was unavailable.
const (
	DataSourceSimulated        = "simulated"
	DataSourceExternalLive     = "external_live"
	DataSourceExternalFallback = "external_fallback"
)

// CongestionReading is a single point-in-time congestion measurement for a
// station. Created fresh on every request; the optional history write is a
// side effect, never the record of truth.
type CongestionReading struct {
	StationID       string `json:"station_id"`
	VehicleID       string `json:"vehicle_id,omitempty"`
	CongestionLevel int    `json:"congestion_level"`
	PassengerCount  int    `json:"passenger_count"`
	Timestamp       string `json:"timestamp"`
	DataSource      string `json:"data_source"`
}

// CongestionBand buckets a 0-100 level into the three bands the client
// renders (low/medium/heavy).
func CongestionBand(level int) string {
	switch {
	case level <= 30:
		return "low"
	case level <= 70:
		return "medium"
	default:
		return "heavy"
	}
}

// VehicleArrival is one simulated or reshaped train serving a station.
// CarPositions holds one congestion value per physical car (10 cars); the
// values are independently jittered around the train-level congestion and
// deliberately not renormalized to average back to it.
type VehicleArrival struct {
	VehicleID    string `json:"vehicle_id"`
	Congestion   int    `json:"congestion"`
	ArrivalTime  string `json:"arrival_time"`
	CarPositions []int  `json:"car_positions"`
	Direction    string `json:"direction,omitempty"`
	Destination  string `json:"destination,omitempty"`
	TrainType    string `json:"train_type,omitempty"`
}

// CarsPerTrain is the simulated Seoul line 2 consist length.
const CarsPerTrain = 10

// HistoryPoint is one hourly congestion average from the audit log.
type HistoryPoint struct {
	Time          string `json:"time"`
	AvgCongestion int    `json:"avg_congestion"`
	DataPoints    int    `json:"data_points"`
}
