package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

func serveTimed(collector *perf.Collector, method, path string, h http.HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Timing(collector, time.Second)(h).ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

// TestTiming_RecordsRequest verifies method, path and status reach the collector.
func TestTiming_RecordsRequest(t *testing.T) {
	collector := perf.NewCollector(1)
	rr := serveTimed(collector, "POST", "/api/classes", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "POST /api/classes" {
		t.Fatalf("unexpected paths: %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].AvgMs < 0 {
		t.Errorf("AvgMs = %v, want >= 0", snap.SlowestPaths[0].AvgMs)
	}
}

// TestTiming_SkipsStatic verifies static assets are excluded.
func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := serveTimed(collector, "GET", "/static/app.css", func(w http.ResponseWriter, r *http.Request) {})
	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTiming_NilCollector verifies middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	rr := serveTimed(nil, "GET", "/api/session", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rr.Code)
	}
}

// TestTiming_HandlerPanic verifies the deferred recording still runs when a handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	serveTimed(collector, "GET", "/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
}

// TestTiming_ImplicitStatus verifies a handler that only writes a body is recorded as 200.
func TestTiming_ImplicitStatus(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := serveTimed(collector, "GET", "/api/sales/export.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a,b\n"))
	})
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "GET /api/sales/export.csv" {
		t.Errorf("paths = %+v, want the export route", snap.SlowestPaths)
	}
}

// TestTiming_GroupsIDSegments verifies per-entry routes share one path.
func TestTiming_GroupsIDSegments(t *testing.T) {
	collector := perf.NewCollector(100)
	for _, id := range []string{"7d3c1a52-0c2b-4a8e-9b6f-1f2e3d4c5b6a", "0f9e8d7c-6b5a-4c3d-8e2f-1a0b9c8d7e6f"} {
		serveTimed(collector, "POST", "/admin/outbox/"+id+"/retry", func(w http.ResponseWriter, r *http.Request) {})
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "POST /admin/outbox/{id}/retry" {
		t.Fatalf("unexpected paths: %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].Count != 2 {
		t.Errorf("count = %d, want 2", snap.SlowestPaths[0].Count)
	}
}

func TestRouteKey(t *testing.T) {
	tests := []struct{ method, path, want string }{
		{"GET", "/api/classes", "GET /api/classes"},
		{"POST", "/admin/outbox/not-an-id/abandon", "POST /admin/outbox/not-an-id/abandon"},
		{"POST", "/admin/outbox/7d3c1a52-0c2b-4a8e-9b6f-1f2e3d4c5b6a/abandon", "POST /admin/outbox/{id}/abandon"},
	}
	for _, tt := range tests {
		if got := routeKey(tt.method, tt.path); got != tt.want {
			t.Errorf("routeKey(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/bench", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
