package seoulmetro

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttransit.seoullab.org/internal/clock"
	"smarttransit.seoullab.org/internal/congestion"
	"smarttransit.seoullab.org/internal/logging"
	"smarttransit.seoullab.org/internal/models"
)

// stubRand returns a fixed value, zeroing the centered jitter terms so the
// estimates become exact.
type stubRand struct{ v float64 }

func (s stubRand) Float64() float64 { return s.v }

var gangnam = models.Station{
	ID:          "221",
	Name:        "강남역",
	LineID:      "2",
	Latitude:    37.4979,
	Longitude:   127.0276,
	StationType: models.StationTypeSubway,
}

// 08:00 on a Monday, inside the morning commute band.
var morningRush = time.Date(2024, 6, 17, 8, 0, 0, 0, time.UTC)

const liveResponse = `{
	"RESULT": {"CODE": "INFO-000", "MESSAGE": "정상 처리되었습니다."},
	"realtimeArrivalList": [
		{"subwayId": "1002", "statnNm": "강남", "trainLineNm": "외선순환",
		 "bstatnNm": "성수", "barvlDt": "120", "arvlMsg2": "2분 후 도착",
		 "btrainSttus": "0"},
		{"subwayId": "1002", "statnNm": "강남", "trainLineNm": "내선순환",
		 "bstatnNm": "성수", "barvlDt": "300", "arvlMsg2": "5분 후 도착",
		 "btrainSttus": "1"}
	]
}`

func newTestClient(t *testing.T, baseURL string, ttl time.Duration) (*Client, *clock.MockClock) {
	t.Helper()
	mockClock := clock.NewMockClock(morningRush)
	r := stubRand{v: 0.5}
	gen := congestion.NewGenerator(mockClock, r)
	cfg := Config{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		CacheTTL: ttl,
		Timeout:  time.Second,
	}
	return NewClient(cfg, gen, r, mockClock, logging.NewLogger(false), nil), mockClock
}

func TestRealtimeArrivalsReshapesLiveData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/test-key/json/realtimeStationArrival/1/10/")
		// The inventory's 역 suffix must be stripped before querying.
		assert.Contains(t, r.URL.EscapedPath(), "%EA%B0%95%EB%82%A8")
		_, _ = w.Write([]byte(liveResponse))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 30*time.Second)
	arrivals := client.RealtimeArrivals(context.Background(), gangnam)

	assert.Equal(t, models.DataSourceExternalLive, arrivals.DataSource)
	assert.Equal(t, "강남역", arrivals.StationName)
	require.Len(t, arrivals.Vehicles, 2)

	// Commute base 75, zero jitter. First train arrives in 120s, earning a
	// (300-120)/300*20 = 12 point bonus; the second gets none.
	assert.Equal(t, 87, arrivals.Vehicles[0].Congestion)
	assert.Equal(t, 75, arrivals.Vehicles[1].Congestion)
	assert.Equal(t, "2분 후 도착", arrivals.Vehicles[0].ArrivalTime)
	assert.Equal(t, "성수", arrivals.Vehicles[0].Destination)
	assert.Equal(t, "일반", arrivals.Vehicles[0].TrainType)
	assert.Equal(t, "급행", arrivals.Vehicles[1].TrainType)

	for _, vehicle := range arrivals.Vehicles {
		assert.Len(t, vehicle.CarPositions, models.CarsPerTrain)
		for _, car := range vehicle.CarPositions {
			assert.Equal(t, vehicle.Congestion, car)
		}
	}

	// Station-level reading averages the trains: (87+75)/2 = 81.
	assert.Equal(t, 81, arrivals.Reading.CongestionLevel)
	assert.Equal(t, 122, arrivals.Reading.PassengerCount)
	assert.Equal(t, models.DataSourceExternalLive, arrivals.Reading.DataSource)
}

func TestRealtimeArrivalsCapsTrainCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"RESULT": {"CODE": "INFO-000", "MESSAGE": "ok"}, "realtimeArrivalList": [`
		for i := 0; i < 7; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"barvlDt": "60", "arvlMsg2": "1분 후 도착", "btrainSttus": "0"}`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 30*time.Second)
	arrivals := client.RealtimeArrivals(context.Background(), gangnam)

	assert.Equal(t, models.DataSourceExternalLive, arrivals.DataSource)
	assert.Len(t, arrivals.Vehicles, 4)
}

func TestRealtimeArrivalsFallsBackOnUpstreamError(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
		},
		{
			name: "error result code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"RESULT": {"CODE": "INFO-200", "MESSAGE": "해당하는 데이터가 없습니다."}}`))
			},
		},
		{
			name: "empty train list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"RESULT": {"CODE": "INFO-000", "MESSAGE": "ok"}, "realtimeArrivalList": []}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client, _ := newTestClient(t, server.URL, 30*time.Second)
			arrivals := client.RealtimeArrivals(context.Background(), gangnam)

			require.NotNil(t, arrivals)
			assert.Equal(t, models.DataSourceExternalFallback, arrivals.DataSource)
			assert.Equal(t, models.DataSourceExternalFallback, arrivals.Reading.DataSource)
			assert.Equal(t, "221", arrivals.Reading.StationID)
			assert.Len(t, arrivals.Vehicles, congestion.TrainsPerStation)
		})
	}
}

func TestRealtimeArrivalsFallsBackWhenUnreachable(t *testing.T) {
	// A closed server rejects the connection immediately.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, _ := newTestClient(t, server.URL, 30*time.Second)
	arrivals := client.RealtimeArrivals(context.Background(), gangnam)

	require.NotNil(t, arrivals)
	assert.Equal(t, models.DataSourceExternalFallback, arrivals.DataSource)
}

func TestRealtimeArrivalsCachesWithinTTL(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(liveResponse))
	}))
	defer server.Close()

	client, mockClock := newTestClient(t, server.URL, 30*time.Second)

	first := client.RealtimeArrivals(context.Background(), gangnam)
	second := client.RealtimeArrivals(context.Background(), gangnam)
	assert.Equal(t, int64(1), requests.Load())
	assert.Same(t, first, second)

	// Inside the window the cache still answers.
	mockClock.Advance(29 * time.Second)
	client.RealtimeArrivals(context.Background(), gangnam)
	assert.Equal(t, int64(1), requests.Load())

	// Past the TTL the upstream is consulted again.
	mockClock.Advance(2 * time.Second)
	client.RealtimeArrivals(context.Background(), gangnam)
	assert.Equal(t, int64(2), requests.Load())
}

func TestRealtimeArrivalsDoesNotCacheFallback(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 30*time.Second)

	client.RealtimeArrivals(context.Background(), gangnam)
	client.RealtimeArrivals(context.Background(), gangnam)
	assert.Equal(t, int64(2), requests.Load())
}

func TestCacheSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(liveResponse))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 30*time.Second)
	assert.Empty(t, client.CacheSnapshot())

	client.RealtimeArrivals(context.Background(), gangnam)
	snapshot := client.CacheSnapshot()
	require.Len(t, snapshot, 1)
	assert.Contains(t, snapshot, "강남")
}

func TestUpstreamStationName(t *testing.T) {
	assert.Equal(t, "강남", upstreamStationName("강남역"))
	assert.Equal(t, "서울역", upstreamStationName("서울역"))
	assert.Equal(t, "홍대입구", upstreamStationName("홍대입구"))
}
