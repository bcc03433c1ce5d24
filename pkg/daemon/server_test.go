package daemon

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tonicv1 "github.com/jamesainslie/tonic/pkg/api/tonic/v1"
	"github.com/jamesainslie/tonic/pkg/daemon/broadcaster"
	"github.com/jamesainslie/tonic/pkg/daemon/sampler"
	"github.com/jamesainslie/tonic/pkg/daemon/store"
	"github.com/jamesainslie/tonic/pkg/toolkit/sysinfo"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// newTestServer builds a Server with in-memory dependencies and one
// completed sample, without binding a socket.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	b := broadcaster.New()
	t.Cleanup(b.Close)

	collector := sysinfo.New(sysinfo.Config{GPUEnabled: false})
	smp := sampler.New(sampler.Config{Interval: time.Second}, collector, st, b)

	// Run takes one sample immediately, then exits when the context
	// expires before the next tick.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	smp.Run(ctx)
	require.NotNil(t, smp.Last(), "sampler should have taken one sample")

	return &Server{
		collector:   collector,
		sampler:     smp,
		store:       st,
		broadcaster: b,
		startTime:   time.Now(),
		shutdown:    make(chan struct{}),
	}
}

func TestServer_Status(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/status", nil))

	require.Equal(t, 200, rec.Code)

	var status tonicv1.DaemonStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Running)
	assert.NotZero(t, status.PID)
	assert.Equal(t, 1, status.HistoryEntries)
}

func TestServer_Snapshot(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/snapshot", nil))

	require.Equal(t, 200, rec.Code)

	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.False(t, snap.Timestamp.IsZero())
	assert.NotZero(t, snap.Memory.Total)
}

func TestServer_Snapshot_BeforeFirstSample(t *testing.T) {
	s := newTestServer(t)
	s.sampler = sampler.New(sampler.Config{}, sysinfo.New(sysinfo.Config{}), nil, nil)
	s.store = nil

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/snapshot", nil))

	assert.Equal(t, 503, rec.Code)
}

func TestServer_Snapshot_StoreFallback(t *testing.T) {
	s := newTestServer(t)
	// Fresh sampler with no sample yet; the persisted history entry
	// should still satisfy the request.
	s.sampler = sampler.New(sampler.Config{}, sysinfo.New(sysinfo.Config{}), nil, nil)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/snapshot", nil))

	require.Equal(t, 200, rec.Code)

	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.False(t, snap.Timestamp.IsZero())
}

func TestServer_Info(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/info", nil))

	require.Equal(t, 200, rec.Code)

	var info types.SystemInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.Host.Hostname)
}

func TestServer_History(t *testing.T) {
	s := newTestServer(t)

	t.Run("returns stored snapshots", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/history", nil))

		require.Equal(t, 200, rec.Code)

		var resp tonicv1.HistoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Snapshots, 1)
	})

	t.Run("rejects bad since", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/history?since=yesterday", nil))
		assert.Equal(t, 400, rec.Code)
	})

	t.Run("rejects bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest("GET", "/v1/history?limit=-3", nil))
		assert.Equal(t, 400, rec.Code)
	})
}

func TestServer_Shutdown(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("POST", "/v1/shutdown", nil))

	require.Equal(t, 200, rec.Code)

	select {
	case <-s.ShutdownRequested():
	default:
		t.Fatal("shutdown channel not closed")
	}

	// A second request must not panic on the closed channel.
	rec = httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest("POST", "/v1/shutdown", nil))
	assert.Equal(t, 200, rec.Code)
}
