package congestion

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/twpayne/go-polyline"
	"smarttransit.seoullab.org/internal/models"
)

// RouteCount is the fixed number of candidates a recommendation returns.
const RouteCount = 3

const (
	baseRouteMinutes = 45
	baseFareWon      = 1500
	// Transit averages ~30 km/h, so minutes*0.5 approximates km; emissions
	// are estimated at 0.04 kg CO2 per km.
	kmPerMinute  = 0.5
	co2KgPerKm   = 0.04
	transferFare = 0
)

// Recommend generates RouteCount synthetic route candidates between origin
// and destination, scores them against the preferences, and sorts them
// satisfied-constraints-first, then by total time. Candidate i has exactly
// i transfers: direct subway, one transfer via line 9, and bus+subway.
//
// Validation of origin/destination coordinates belongs to the HTTP layer;
// this function is total over valid inputs.
func (g *Generator) Recommend(origin, destination models.Coordinate, prefs models.Preferences) []models.RouteCandidate {
	return g.RecommendAt(origin, destination, prefs, g.clock.Now())
}

// RecommendAt is Recommend with an explicit "now" for deterministic tests.
func (g *Generator) RecommendAt(origin, destination models.Coordinate, prefs models.Preferences, now time.Time) []models.RouteCandidate {
	shape := encodeShape(origin, destination)

	routes := make([]models.RouteCandidate, 0, RouteCount)
	for i := 0; i < RouteCount; i++ {
		variation := i * 5
		totalTime := baseRouteMinutes + variation + uniformInt(g.rand, 10)
		walkingTime := 5 + uniformInt(g.rand, 10)
		avgCongestion := int(math.Round(clamp(50+jitter(g.rand, 40), 20, 90)))

		route := models.RouteCandidate{
			RouteID:       fmt.Sprintf("route_%d", i+1),
			TotalTime:     totalTime,
			WalkingTime:   walkingTime,
			Transfers:     i,
			AvgCongestion: avgCongestion,
			DepartureTime: now.Add(time.Duration(5+i*10) * time.Minute).Format("15:04"),
			ArrivalTime:   now.Add(time.Duration(baseRouteMinutes+variation+5+i*10) * time.Minute).Format("15:04"),
			Steps:         g.routeSteps(i),
			Polyline:      shape,
		}
		route.RecommendationScore = scoreRoute(route, prefs)
		route.Reasons = routeReasons(route, prefs)
		route.EstimatedCost = baseFareWon + route.Transfers*transferFare
		route.CarbonFootprint = math.Round(float64(totalTime)*kmPerMinute*co2KgPerKm*100) / 100
		routes = append(routes, route)
	}

	sort.SliceStable(routes, func(a, b int) bool {
		ra, rb := routes[a], routes[b]
		sa := satisfiesConstraints(ra, prefs)
		sb := satisfiesConstraints(rb, prefs)
		if sa != sb {
			return sa
		}
		return ra.TotalTime < rb.TotalTime
	})

	// The first result is labeled fastest unconditionally, without comparing
	// jittered times. Known quirk, kept for client compatibility.
	routes[0].Reasons = append(routes[0].Reasons, "가장 빠른 경로")
	return routes
}

// routeSteps builds the fixed step sequence for an archetype, with jittered
// leg durations and congestion estimates.
func (g *Generator) routeSteps(archetype int) []models.RouteStep {
	steps := []models.RouteStep{{
		Type:        models.StepWalk,
		Duration:    3 + uniformInt(g.rand, 5),
		Description: "출발지에서 지하철역까지 도보",
	}}

	switch archetype {
	case 0:
		steps = append(steps, models.RouteStep{
			Type: models.StepSubway, Line: "2호선",
			Duration:   35 + uniformInt(g.rand, 10),
			Congestion: 50 + uniformInt(g.rand, 30),
		})
	case 1:
		steps = append(steps,
			models.RouteStep{
				Type: models.StepSubway, Line: "2호선",
				Duration:   20 + uniformInt(g.rand, 5),
				Congestion: 45 + uniformInt(g.rand, 20),
			},
			models.RouteStep{
				Type: models.StepTransfer, Duration: 3,
				Description: "9호선으로 환승",
			},
			models.RouteStep{
				Type: models.StepSubway, Line: "9호선",
				Duration:   15 + uniformInt(g.rand, 5),
				Congestion: 60 + uniformInt(g.rand, 25),
			})
	default:
		steps = append(steps,
			models.RouteStep{
				Type: models.StepBus, Line: "간선버스",
				Duration:   25 + uniformInt(g.rand, 10),
				Congestion: 40 + uniformInt(g.rand, 30),
			},
			models.RouteStep{
				Type: models.StepTransfer, Duration: 2,
				Description: "지하철로 환승",
			},
			models.RouteStep{
				Type: models.StepSubway, Line: "2호선",
				Duration:   20 + uniformInt(g.rand, 8),
				Congestion: 55 + uniformInt(g.rand, 25),
			})
	}

	steps = append(steps, models.RouteStep{
		Type:        models.StepWalk,
		Duration:    2 + uniformInt(g.rand, 3),
		Description: "지하철역에서 목적지까지 도보",
	})
	return steps
}

// scoreRoute starts at 100 and penalizes time, threshold overages, and
// transfers. Never negative.
func scoreRoute(route models.RouteCandidate, prefs models.Preferences) float64 {
	score := 100.0
	score -= float64(route.TotalTime) * 0.5
	if route.AvgCongestion > prefs.MaxCongestion {
		score -= float64(route.AvgCongestion-prefs.MaxCongestion) * 0.8
	}
	if route.WalkingTime > prefs.MaxWalkingTime {
		score -= float64(route.WalkingTime-prefs.MaxWalkingTime) * 1.2
	}
	score -= float64(route.Transfers) * 5
	return math.Max(0, math.Round(score))
}

// routeReasons tags each satisfied preference threshold.
func routeReasons(route models.RouteCandidate, prefs models.Preferences) []string {
	reasons := []string{}
	if route.AvgCongestion <= prefs.MaxCongestion {
		reasons = append(reasons, "선호하는 혼잡도 수준 이내")
	}
	if route.WalkingTime <= prefs.MaxWalkingTime {
		reasons = append(reasons, "도보 시간이 적음")
	}
	if route.Transfers <= prefs.MaxTransfers {
		reasons = append(reasons, "환승 횟수가 적음")
	}
	return reasons
}

func satisfiesConstraints(route models.RouteCandidate, prefs models.Preferences) bool {
	return route.AvgCongestion <= prefs.MaxCongestion && route.WalkingTime <= prefs.MaxWalkingTime
}

// encodeShape encodes the straight segment from origin to destination as a
// Google polyline for map rendering. Route geometry is synthetic anyway.
func encodeShape(origin, destination models.Coordinate) string {
	if !origin.Valid() || !destination.Valid() {
		return ""
	}
	coords := [][]float64{
		{*origin.Lat, *origin.Lng},
		{*destination.Lat, *destination.Lng},
	}
	return string(polyline.EncodeCoords(coords))
}
