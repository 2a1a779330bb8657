package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/adapters/http/perf"
)

// DefaultSlowRequest is used when Timing is given a non-positive threshold.
const DefaultSlowRequest = 500 * time.Millisecond

var requestSeq atomic.Uint64

// recorder captures the status and body size a handler sent.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rec *recorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }

// routeKey groups requests by route: id segments such as outbox entry ids collapse to {id}.
func routeKey(method, path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if _, err := uuid.Parse(s); err == nil {
			segs[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

// Timing logs request duration and records it to collector when non-nil.
// Requests under /static/ are skipped. Requests at or above slow log at WARN, the rest at DEBUG.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			seq := requestSeq.Add(1)
			rec := &recorder{ResponseWriter: w}
			defer func() {
				elapsed := time.Since(start)
				if rec.status == 0 {
					rec.status = http.StatusOK
				}
				level, msg := slog.LevelDebug, "request"
				if elapsed >= slow {
					level, msg = slog.LevelWarn, "slow_request"
				}
				route := routeKey(r.Method, r.URL.Path)
				slog.Log(r.Context(), level, msg,
					"request_seq", seq,
					"route", route,
					"status", rec.status,
					"bytes", rec.bytes,
					"duration_ms", elapsed.Milliseconds(),
				)
				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Path:       route,
						StatusCode: rec.status,
						DurationMs: float64(elapsed.Microseconds()) / 1000.0,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
