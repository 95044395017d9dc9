package models

// Impact grades how strongly weather or a nearby event is expected to push
// congestion away from the base pattern.
const (
	ImpactNone   = "none"
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// PredictionPoint is one forecast sample, 30 minutes apart from its
// neighbors. Confidence decays with horizon and never leaves [0.6, 0.95].
type PredictionPoint struct {
	Time          string  `json:"time"`
	Congestion    int     `json:"congestion"`
	Confidence    float64 `json:"confidence"`
	WeatherImpact string  `json:"weather_impact"`
	EventImpact   string  `json:"event_impact"`
}

// AccuracyStats is the simulated model-performance breakdown served by the
// prediction accuracy endpoint.
type AccuracyStats struct {
	OverallAccuracy   float64            `json:"overall_accuracy"`
	ByTimeRange       map[string]float64 `json:"by_time_range"`
	ByCongestionLevel map[string]float64 `json:"by_congestion_level"`
	ByDayType         map[string]float64 `json:"by_day_type"`
}
