package congestion

import (
	"fmt"
	"math"
	"time"

	"smarttransit.seoullab.org/internal/clock"
	"smarttransit.seoullab.org/internal/models"
)

// MaxPassengersPerReading scales a 0-100 level to a headcount.
const MaxPassengersPerReading = 150

// TrainsPerStation is how many upcoming trains a realtime response carries.
const TrainsPerStation = 3

// Generator produces simulated congestion data. It is stateless apart from
// the injected clock and random source, so a single instance is shared by
// all handlers.
type Generator struct {
	clock clock.Clock
	rand  Rand
}

// NewGenerator creates a Generator. Pass clock.RealClock{} and a seeded
// NewLockedRand in production; tests inject MockClock and fixed sources.
func NewGenerator(c clock.Clock, r Rand) *Generator {
	return &Generator{clock: c, rand: r}
}

// Generate computes a current congestion reading for the station at the
// generator's clock time.
func (g *Generator) Generate(stationID string) models.CongestionReading {
	return g.GenerateAt(stationID, g.clock.Now())
}

// GenerateAt computes a congestion reading for the station at time t:
// pattern level for t's hour and day type, scaled by the station multiplier
// (capped at 100), plus uniform jitter in [-15, +15), clamped to [0, 100].
func (g *Generator) GenerateAt(stationID string, t time.Time) models.CongestionReading {
	adjusted := adjustedLevelAt(stationID, t)
	level := int(math.Round(clamp(adjusted+jitter(g.rand, 30), 0, 100)))

	return models.CongestionReading{
		StationID:       stationID,
		VehicleID:       fmt.Sprintf("%s_%d", stationID, uniformInt(g.rand, 10)+1),
		CongestionLevel: level,
		PassengerCount:  int(math.Round(float64(level) / 100 * MaxPassengersPerReading)),
		Timestamp:       t.Format(time.RFC3339),
		DataSource:      models.DataSourceSimulated,
	}
}

// Vehicles expands a station-level reading into TrainsPerStation upcoming
// trains. Train congestion is the reading ±10; each of the 10 cars is the
// train ±20, clamped independently. Cars are not renormalized to average
// back to the train value: uneven car loading is the point.
func (g *Generator) Vehicles(stationID string, base models.CongestionReading) []models.VehicleArrival {
	vehicles := make([]models.VehicleArrival, 0, TrainsPerStation)
	for i := 1; i <= TrainsPerStation; i++ {
		trainLevel := float64(base.CongestionLevel) + jitter(g.rand, 20)

		cars := make([]int, 0, models.CarsPerTrain)
		for car := 0; car < models.CarsPerTrain; car++ {
			cars = append(cars, int(math.Round(clamp(trainLevel+jitter(g.rand, 40), 0, 100))))
		}

		vehicles = append(vehicles, models.VehicleArrival{
			VehicleID:    fmt.Sprintf("%s_train_%d", stationID, i),
			Congestion:   int(math.Round(clamp(trainLevel, 0, 100))),
			ArrivalTime:  fmt.Sprintf("%d분 후", i*2),
			CarPositions: cars,
		})
	}
	return vehicles
}
