package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
)

func TestHealthEndpoint(t *testing.T) {
	srv := NewServer(0, harvest.NewTracker(), zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	tracker := harvest.NewTracker()
	tracker.Begin(5)
	tracker.ChannelDone(harvest.ChannelResult{
		Channel: "mospolytech",
		Stats:   harvest.ChannelStats{Total: 20, Events: 3, Skipped: 17},
	})
	tracker.ChannelDone(harvest.ChannelResult{
		Channel: "broken",
		Err:     http.ErrHandlerTimeout,
	})

	srv := NewServer(0, tracker, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap harvest.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.True(t, snap.Running)
	require.Equal(t, 5, snap.TotalChannels)
	require.Equal(t, 2, snap.ChannelsDone)
	require.Equal(t, 1, snap.ChannelsFailed)
	require.Equal(t, 20, snap.Messages)
	require.Equal(t, 3, snap.Events)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(0, harvest.NewTracker(), zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
