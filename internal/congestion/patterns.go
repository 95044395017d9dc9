// Package congestion implements the simulated congestion model: hourly
// pattern tables, the realtime reading generator, per-train expansion,
// short-horizon prediction, and route recommendation.
//
// Nothing here is learned from data. Levels come from fixed design-constant
// tables shaped like observed Seoul line 2 ridership, scaled per station and
// jittered. The model is total over valid inputs: no generator returns an
// error.
package congestion

import "time"

// hourlyPattern maps hour-of-day (0-23) to a base congestion level (0-100).
// Every hour must be present.
type hourlyPattern [24]int

// Base patterns: weekday has sharp commute peaks (08h, 18h), weekend a broad
// afternoon plateau.
var (
	weekdayPattern = hourlyPattern{
		15, 10, 8, 5, 8, 12,
		25, 65, 90, 75, 45, 50,
		60, 55, 50, 55, 65, 85,
		95, 80, 65, 55, 40, 25,
	}
	weekendPattern = hourlyPattern{
		12, 8, 5, 3, 5, 8,
		15, 20, 30, 40, 55, 65,
		70, 75, 80, 75, 70, 65,
		60, 55, 50, 45, 35, 20,
	}
)

// StationCharacteristics captures what makes a station deviate from the base
// pattern: a congestion multiplier and a rough district classification.
type StationCharacteristics struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	District   string  `json:"district,omitempty"`
}

// DefaultMultiplier applies to stations without an entry in the
// characteristics table.
const DefaultMultiplier = 0.85

// stationCharacteristics lists the stations whose crowding is notably above
// or below the line average. Keys are station IDs from the inventory.
var stationCharacteristics = map[string]StationCharacteristics{
	"221": {Name: "강남역", Multiplier: 1.3, District: "business"},
	"220": {Name: "역삼역", Multiplier: 1.1, District: "business"},
	"219": {Name: "선릉역", Multiplier: 1.0, District: "business"},
	"218": {Name: "삼성역", Multiplier: 1.05, District: "business"},
	"101": {Name: "서울역", Multiplier: 1.25, District: "main_station"},
	"252": {Name: "홍대입구역", Multiplier: 1.2, District: "entertainment"},
	"211": {Name: "건대입구역", Multiplier: 1.1, District: "university"},
	"216": {Name: "잠실역", Multiplier: 1.15, District: "shopping"},
	"238": {Name: "서초역", Multiplier: 0.9, District: "residential"},
}

// Characteristics returns the station's characteristics, or a default entry
// with DefaultMultiplier if the station is not in the table.
func Characteristics(stationID string) StationCharacteristics {
	if c, ok := stationCharacteristics[stationID]; ok {
		return c
	}
	return StationCharacteristics{Multiplier: DefaultMultiplier}
}

// AllCharacteristics exposes the table for the debug dump.
func AllCharacteristics() map[string]StationCharacteristics {
	return stationCharacteristics
}

// Patterns exposes both hourly tables for the debug dump.
func Patterns() map[string][24]int {
	return map[string][24]int{
		"weekday": weekdayPattern,
		"weekend": weekendPattern,
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// baseLevelAt returns the pattern level for t's hour and day type. The
// tables cover every hour, so the <0 guard only defends against a malformed
// Time; it mirrors the contract's "default to 30" rule.
func baseLevelAt(t time.Time) int {
	hour := t.Hour()
	if hour < 0 || hour > 23 {
		return 30
	}
	if isWeekend(t) {
		return weekendPattern[hour]
	}
	return weekdayPattern[hour]
}

// adjustedLevelAt applies the station multiplier to the base level, capped
// at 100 before jitter.
func adjustedLevelAt(stationID string, t time.Time) float64 {
	adjusted := float64(baseLevelAt(t)) * Characteristics(stationID).Multiplier
	if adjusted > 100 {
		adjusted = 100
	}
	return adjusted
}
