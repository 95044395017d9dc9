package metrics

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"database/sql"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.UpstreamResultsTotal)
	assert.NotNil(t, m.DBConnectionsOpen)
	assert.NotNil(t, m.DBConnectionsInUse)
	assert.NotNil(t, m.DBConnectionsIdle)
	assert.NotNil(t, m.DBWaitSecondsTotal)
}

func TestRecordUpstreamResult(t *testing.T) {
	m := New()

	m.RecordUpstreamResult(UpstreamResultLive)
	m.RecordUpstreamResult(UpstreamResultFallback)
	m.RecordUpstreamResult(UpstreamResultFallback)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamResultsTotal.WithLabelValues(UpstreamResultLive)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamResultsTotal.WithLabelValues(UpstreamResultFallback)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.UpstreamResultsTotal.WithLabelValues(UpstreamResultCacheHit)))
}

func TestRecordUpstreamResult_NilReceiver(t *testing.T) {
	var m *Metrics
	// Must not panic: the adapter runs without metrics in unit tests.
	m.RecordUpstreamResult(UpstreamResultFallback)
}

func TestStartDBStatsCollector_NilDB(t *testing.T) {
	m := New()
	// Should not panic with nil DB
	m.StartDBStatsCollector(nil, time.Second)
	assert.False(t, m.collectorStarted.Load())
}

func TestStartDBStatsCollector_Idempotent(t *testing.T) {
	m := New()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	m.StartDBStatsCollector(db, 10*time.Millisecond)
	m.StartDBStatsCollector(db, 10*time.Millisecond)
	assert.True(t, m.collectorStarted.Load())

	m.Shutdown()
}

func TestShutdown_SafeWithoutCollector(t *testing.T) {
	m := New()
	m.Shutdown()
	m.Shutdown()
}
