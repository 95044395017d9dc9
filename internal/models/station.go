// Package models defines the wire-format types served by the REST API.
// Field names mirror the public SmartTransit JSON contract (snake_case).
package models

// StationType distinguishes subway stations from bus stops in the inventory.
const (
	StationTypeSubway = "subway"
	StationTypeBus    = "bus"
)

// Station is one row of the static station inventory.
type Station struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	LineID      string  `json:"line_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	StationType string  `json:"station_type"`
}

// NearbyStation is a Station annotated with the distance from the search
// center, in meters.
type NearbyStation struct {
	Station
	DistanceMeters float64 `json:"distance"`
}
