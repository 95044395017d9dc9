package congestion

import (
	"math"
	"time"

	"smarttransit.seoullab.org/internal/models"
)

// predictionStep is the spacing between forecast samples.
const predictionStep = 30 * time.Minute

// Predict produces durationHours*2 forecast points at 30-minute steps. The
// first point is 30 minutes in the future, never the current instant.
// durationHours must already be validated as a positive integer by the
// caller; an empty station ID is likewise a request-validation concern.
func (g *Generator) Predict(stationID string, durationHours int) []models.PredictionPoint {
	return g.PredictAt(stationID, durationHours, g.clock.Now())
}

// PredictAt is Predict with an explicit "now" for deterministic tests.
func (g *Generator) PredictAt(stationID string, durationHours int, now time.Time) []models.PredictionPoint {
	steps := durationHours * 2
	points := make([]models.PredictionPoint, 0, steps)

	for i := 1; i <= steps; i++ {
		targetTime := now.Add(time.Duration(i) * predictionStep)
		adjusted := adjustedLevelAt(stationID, targetTime)

		// Further out, wider spread: uncertainty grows 2 points per step,
		// capped at 20.
		uncertainty := math.Min(20, float64(i)*2)
		predicted := clamp(adjusted+jitter(g.rand, uncertainty), 0, 100)

		// Confidence decays with horizon alone, not with the level.
		confidence := math.Max(0.6, 0.95-float64(i)*0.05)

		points = append(points, models.PredictionPoint{
			Time:          targetTime.Format(time.RFC3339),
			Congestion:    int(math.Round(predicted)),
			Confidence:    math.Round(confidence*100) / 100,
			WeatherImpact: g.weatherImpact(),
			EventImpact:   g.eventImpact(targetTime),
		})
	}
	return points
}

// weatherImpact draws one impact grade from a fixed categorical
// distribution via cumulative-weight sampling. Most of the time the weather
// does nothing.
func (g *Generator) weatherImpact() string {
	impacts := []string{models.ImpactNone, models.ImpactLow, models.ImpactMedium, models.ImpactHigh}
	weights := []float64{0.6, 0.25, 0.1, 0.05}

	v := g.rand.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if v <= cumulative {
			return impacts[i]
		}
	}
	return models.ImpactNone
}

// eventImpact models weekend-evening events (concerts, ball games): medium
// with probability 0.3, otherwise low. Any other time slot has none.
func (g *Generator) eventImpact(targetTime time.Time) string {
	hour := targetTime.Hour()
	if isWeekend(targetTime) && hour >= 19 && hour <= 22 {
		if g.rand.Float64() > 0.7 {
			return models.ImpactMedium
		}
		return models.ImpactLow
	}
	return models.ImpactNone
}

// ModelAccuracy returns a simulated overall accuracy figure in [0.85, 0.95),
// rounded to two decimals. The demo has no trained model behind it.
func (g *Generator) ModelAccuracy() float64 {
	return math.Round((0.85+g.rand.Float64()*0.1)*100) / 100
}

// AccuracyStats simulates a model-performance breakdown. Accuracy falls as
// the horizon grows and as crowding rises, mirroring how a real forecaster
// degrades, with a small random draw on top of each base figure.
func (g *Generator) AccuracyStats() models.AccuracyStats {
	sample := func(base float64) float64 {
		return math.Round((base+g.rand.Float64()*0.05)*100) / 100
	}

	return models.AccuracyStats{
		OverallAccuracy: math.Round((0.87+g.rand.Float64()*0.08)*100) / 100,
		ByTimeRange: map[string]float64{
			"1_hour":  sample(0.92),
			"2_hours": sample(0.88),
			"3_hours": sample(0.84),
			"6_hours": sample(0.79),
		},
		ByCongestionLevel: map[string]float64{
			"low":    sample(0.91),
			"medium": sample(0.86),
			"heavy":  sample(0.83),
		},
		ByDayType: map[string]float64{
			"weekday": sample(0.89),
			"weekend": sample(0.85),
			"holiday": sample(0.78),
		},
	}
}
