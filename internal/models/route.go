package models

// Coordinate is a WGS84 point supplied by the caller for route searches.
// Pointers distinguish "missing" from zero for request validation.
type Coordinate struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// Valid reports whether both coordinate fields were supplied.
func (c *Coordinate) Valid() bool {
	return c != nil && c.Lat != nil && c.Lng != nil
}

// Preferences are the caller-supplied thresholds routes are scored against.
type Preferences struct {
	MaxCongestion  int  `json:"max_congestion"`
	MaxWalkingTime int  `json:"max_walking_time"`
	MaxTransfers   int  `json:"max_transfers"`
	PreferSpeed    bool `json:"prefer_speed"`
	AvoidStairs    bool `json:"avoid_stairs"`
}

// DefaultPreferences are applied for any threshold the caller omits.
func DefaultPreferences() Preferences {
	return Preferences{
		MaxCongestion:  80,
		MaxWalkingTime: 15,
		MaxTransfers:   2,
		PreferSpeed:    true,
	}
}

// Step types within a route candidate.
const (
	StepWalk     = "walk"
	StepSubway   = "subway"
	StepBus      = "bus"
	StepTransfer = "transfer"
)

// RouteStep is one leg of a route candidate. Transit legs carry a line name
// and a congestion estimate; walk and transfer legs carry a description.
type RouteStep struct {
	Type        string `json:"type"`
	Line        string `json:"line,omitempty"`
	Duration    int    `json:"duration"`
	Congestion  int    `json:"congestion,omitempty"`
	Description string `json:"description,omitempty"`
}

// RouteCandidate is one synthetic route option. Exactly three are generated
// per request, one per archetype: direct, one transfer via line 9, and
// bus+subway.
type RouteCandidate struct {
	RouteID             string      `json:"route_id"`
	TotalTime           int         `json:"total_time"`
	WalkingTime         int         `json:"walking_time"`
	Transfers           int         `json:"transfers"`
	AvgCongestion       int         `json:"avg_congestion"`
	DepartureTime       string      `json:"departure_time"`
	ArrivalTime         string      `json:"arrival_time"`
	Steps               []RouteStep `json:"steps"`
	RecommendationScore float64     `json:"recommendation_score"`
	Reasons             []string    `json:"reasons"`
	EstimatedCost       int         `json:"estimated_cost"`
	CarbonFootprint     float64     `json:"carbon_footprint"`
	Polyline            string      `json:"polyline,omitempty"`
}
