package stationdb

import (
	"sort"
	"time"

	"smarttransit.seoullab.org/internal/models"
)

// RecordCongestion appends a reading to the audit log. Callers treat the
// result as best-effort: failures are logged and swallowed, never returned
// to the API client.
func (c *Client) RecordCongestion(reading models.CongestionReading) error {
	_, err := c.DB.Exec(
		`INSERT INTO congestion_data (station_id, vehicle_id, congestion_level, passenger_count, timestamp, data_source)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reading.StationID, reading.VehicleID, reading.CongestionLevel,
		reading.PassengerCount, reading.Timestamp, reading.DataSource,
	)
	return err
}

// RecordPredictions caches a prediction run. Best-effort, same as
// RecordCongestion.
func (c *Client) RecordPredictions(stationID string, points []models.PredictionPoint) error {
	for _, p := range points {
		_, err := c.DB.Exec(
			`INSERT INTO prediction_cache (station_id, prediction_time, predicted_congestion, confidence)
			 VALUES (?, ?, ?, ?)`,
			stationID, p.Time, p.Congestion, p.Confidence,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// historyLimit caps how many raw readings a history query returns.
const historyLimit = 100

// HistoryRow is one raw reading from the audit log.
type HistoryRow struct {
	CongestionLevel int    `json:"congestion_level"`
	PassengerCount  int    `json:"passenger_count"`
	Timestamp       string `json:"timestamp"`
	DataSource      string `json:"data_source"`
}

// CongestionHistory returns raw readings for the station since the cutoff,
// newest first.
func (c *Client) CongestionHistory(stationID string, since time.Time) ([]HistoryRow, error) {
	rows, err := c.DB.Query(
		`SELECT congestion_level, passenger_count, timestamp, data_source
		 FROM congestion_data
		 WHERE station_id = ? AND timestamp >= ?
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		stationID, since.Format(time.RFC3339), historyLimit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var history []HistoryRow
	for rows.Next() {
		var row HistoryRow
		if err := rows.Scan(&row.CongestionLevel, &row.PassengerCount, &row.Timestamp, &row.DataSource); err != nil {
			return nil, err
		}
		history = append(history, row)
	}
	return history, rows.Err()
}

// HourlyAverages buckets raw history rows into per-hour means, ordered by
// hour label. Rows with unparseable timestamps are skipped.
func HourlyAverages(history []HistoryRow) []models.HistoryPoint {
	type bucket struct {
		total int
		count int
	}
	buckets := map[string]*bucket{}

	for _, row := range history {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			continue
		}
		hour := ts.Format("15:00")
		b, ok := buckets[hour]
		if !ok {
			b = &bucket{}
			buckets[hour] = b
		}
		b.total += row.CongestionLevel
		b.count++
	}

	points := make([]models.HistoryPoint, 0, len(buckets))
	for hour, b := range buckets {
		points = append(points, models.HistoryPoint{
			Time:          hour,
			AvgCongestion: int(float64(b.total)/float64(b.count) + 0.5),
			DataPoints:    b.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points
}
