// Package stationdb owns the sqlite database behind the API: the static
// station inventory, the best-effort congestion audit log, and the
// prediction cache. Correctness of API responses never depends on writes
// here succeeding.
package stationdb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver
	"github.com/tidwall/rtree"
	"smarttransit.seoullab.org/internal/models"
)

// Client is the entry point for all database access. The spatial index is
// built once from the seeded inventory and never mutated afterwards, so it
// needs no locking.
type Client struct {
	DB    *sql.DB
	index rtree.RTree
}

// NewClient opens (or creates) the database at dbPath, runs migrations,
// seeds the station inventory, and builds the spatial index.
// Pass ":memory:" in tests.
func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to set busy timeout: %w", err)
	}

	c := &Client{DB: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to migrate: %w", err)
	}
	if err := c.seedStations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to seed stations: %w", err)
	}
	if err := c.buildSpatialIndex(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to build spatial index: %w", err)
	}
	return c, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			line_id TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			station_type TEXT NOT NULL CHECK (station_type IN ('subway', 'bus'))
		)`,
		`CREATE TABLE IF NOT EXISTS congestion_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station_id TEXT NOT NULL,
			vehicle_id TEXT,
			congestion_level INTEGER NOT NULL CHECK (congestion_level BETWEEN 0 AND 100),
			passenger_count INTEGER,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			data_source TEXT NOT NULL,
			FOREIGN KEY (station_id) REFERENCES stations (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_congestion_station_time
			ON congestion_data (station_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS prediction_cache (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			station_id TEXT NOT NULL,
			prediction_time DATETIME NOT NULL,
			predicted_congestion INTEGER NOT NULL,
			confidence REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (station_id) REFERENCES stations (id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := c.DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedStations inserts the line 2 demo inventory. Idempotent: existing rows
// are left untouched.
func (c *Client) seedStations() error {
	for _, s := range seedStations {
		_, err := c.DB.Exec(
			`INSERT OR IGNORE INTO stations (id, name, line_id, latitude, longitude, station_type)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.LineID, s.Latitude, s.Longitude, s.StationType,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) buildSpatialIndex() error {
	stations, err := c.ListStations(nil)
	if err != nil {
		return err
	}
	for _, s := range stations {
		point := [2]float64{s.Longitude, s.Latitude}
		c.index.Insert(point, point, s)
	}
	return nil
}

// seedStations is the Seoul line 2 demo inventory from the original dataset.
var seedStations = []models.Station{
	{ID: "221", Name: "강남역", LineID: "2", Latitude: 37.4979, Longitude: 127.0276, StationType: models.StationTypeSubway},
	{ID: "220", Name: "역삼역", LineID: "2", Latitude: 37.5000, Longitude: 127.0364, StationType: models.StationTypeSubway},
	{ID: "219", Name: "선릉역", LineID: "2", Latitude: 37.5044, Longitude: 127.0490, StationType: models.StationTypeSubway},
	{ID: "218", Name: "삼성역", LineID: "2", Latitude: 37.5087, Longitude: 127.0633, StationType: models.StationTypeSubway},
	{ID: "101", Name: "서울역", LineID: "1", Latitude: 37.5547, Longitude: 126.9706, StationType: models.StationTypeSubway},
	{ID: "216", Name: "잠실역", LineID: "2", Latitude: 37.5133, Longitude: 127.1000, StationType: models.StationTypeSubway},
	{ID: "211", Name: "건대입구역", LineID: "2", Latitude: 37.5405, Longitude: 127.0700, StationType: models.StationTypeSubway},
	{ID: "252", Name: "홍대입구역", LineID: "2", Latitude: 37.5565, Longitude: 126.9240, StationType: models.StationTypeSubway},
	{ID: "238", Name: "서초역", LineID: "2", Latitude: 37.4837, Longitude: 127.0057, StationType: models.StationTypeSubway},
}
