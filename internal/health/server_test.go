package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(context.Context) error { return f.err }

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	s := NewServer(Config{ServiceName: "esports-edge", Version: "1.0.0", Port: "0"})

	rec, body := get(t, s.Router(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "esports-edge", body["service"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		ready    bool
		runErr   error
		recorded bool
		db       DatabasePinger
		want     int
	}{
		{name: "not marked ready", ready: false, want: http.StatusServiceUnavailable},
		{name: "ready before first run", ready: true, want: http.StatusOK},
		{name: "ready after good run", ready: true, recorded: true, want: http.StatusOK},
		{name: "last run failed", ready: true, recorded: true, runErr: errors.New("history missing"), want: http.StatusServiceUnavailable},
		{name: "database down", ready: true, db: fakeDB{err: errors.New("refused")}, want: http.StatusServiceUnavailable},
		{name: "database up", ready: true, db: fakeDB{}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{ServiceName: "esports-edge", Port: "0", DB: tt.db})
			s.SetReady(tt.ready)
			if tt.recorded {
				s.RecordRun(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), tt.runErr)
			}

			rec, body := get(t, s.Router(), "/ready")
			assert.Equal(t, tt.want, rec.Code)
			if tt.recorded {
				assert.Equal(t, "2026-10-19T12:00:00Z", body["last_run"])
			}
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("esports_edge_runs_total 1\n"))
	})
	s := NewServer(Config{Port: "0", Metrics: metrics, MetricsPath: "/prom"})

	rec, _ := get(t, s.Router(), "/prom")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "esports_edge_runs_total")

	rec, _ = get(t, s.Router(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
