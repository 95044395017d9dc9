package stationdb

import (
	"database/sql"
	"errors"
	"sort"

	"smarttransit.seoullab.org/internal/models"
	"smarttransit.seoullab.org/internal/utils"
)

// ErrNotFound is returned when a station lookup matches no row.
var ErrNotFound = errors.New("station not found")

// StationFilter narrows ListStations. Zero values match everything.
type StationFilter struct {
	LineID      string
	StationType string
}

// ListStations returns the inventory ordered by name, optionally filtered
// by line and station type.
func (c *Client) ListStations(filter *StationFilter) ([]models.Station, error) {
	query := `SELECT id, name, line_id, latitude, longitude, station_type FROM stations`
	args := []any{}
	where := ""

	if filter != nil {
		if filter.LineID != "" {
			where = " WHERE line_id = ?"
			args = append(args, filter.LineID)
		}
		if filter.StationType != "" {
			if where == "" {
				where = " WHERE station_type = ?"
			} else {
				where += " AND station_type = ?"
			}
			args = append(args, filter.StationType)
		}
	}

	rows, err := c.DB.Query(query+where+" ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.LineID, &s.Latitude, &s.Longitude, &s.StationType); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// GetStation looks up one station by ID. Returns ErrNotFound for unknown IDs.
func (c *Client) GetStation(id string) (models.Station, error) {
	var s models.Station
	err := c.DB.QueryRow(
		`SELECT id, name, line_id, latitude, longitude, station_type FROM stations WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.LineID, &s.Latitude, &s.Longitude, &s.StationType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Station{}, ErrNotFound
	}
	if err != nil {
		return models.Station{}, err
	}
	return s, nil
}

// nearbyLimit caps the nearby result set, matching the original API.
const nearbyLimit = 10

// Nearby returns stations within radiusMeters of the point, closest first.
// The r-tree narrows candidates to a bounding box; the exact distance
// filter runs on that handful.
func (c *Client) Nearby(lat, lng, radiusMeters float64) []models.NearbyStation {
	bounds := utils.CalculateBounds(lat, lng, radiusMeters)

	var found []models.NearbyStation
	c.index.Search(
		[2]float64{bounds.MinLon, bounds.MinLat},
		[2]float64{bounds.MaxLon, bounds.MaxLat},
		func(_, _ [2]float64, data interface{}) bool {
			station := data.(models.Station)
			d := utils.Distance(lat, lng, station.Latitude, station.Longitude)
			if d <= radiusMeters {
				found = append(found, models.NearbyStation{Station: station, DistanceMeters: d})
			}
			return true
		},
	)

	sort.Slice(found, func(i, j int) bool {
		return found[i].DistanceMeters < found[j].DistanceMeters
	})
	if len(found) > nearbyLimit {
		found = found[:nearbyLimit]
	}
	return found
}
