package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/adapters/http/perf"
)

// SQLDB is the handle every store is built on. *sql.DB and *TimedDB both satisfy it.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQuery applies when GYMDESK_SLOW_QUERY is unset or not positive.
const DefaultSlowQuery = 50 * time.Millisecond

// labelWidth bounds the query text kept in log lines and perf paths.
const labelWidth = 80

// TimedDB measures every statement the stores issue. Slow ones are logged at warn.
// Every statement is recorded in the perf collector when one is attached.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	slow      time.Duration
}

// NewTimedDB wraps db. collector may be nil.
func NewTimedDB(db *sql.DB, collector *perf.Collector, slow time.Duration) *TimedDB {
	if slow <= 0 {
		slow = DefaultSlowQuery
	}
	return &TimedDB{db: db, collector: collector, slow: slow}
}

// RawDB exposes the pool for migrations.
func (t *TimedDB) RawDB() *sql.DB { return t.db }

func (t *TimedDB) Close() error { return t.db.Close() }

func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer t.track("exec", query, time.Now())
	return t.db.ExecContext(ctx, query, args...)
}

func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer t.track("query", query, time.Now())
	return t.db.QueryContext(ctx, query, args...)
}

func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer t.track("query_row", query, time.Now())
	return t.db.QueryRowContext(ctx, query, args...)
}

func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	defer t.track("begin", "", time.Now())
	return t.db.BeginTx(ctx, opts)
}

// track logs and records one statement that started at start.
func (t *TimedDB) track(op, query string, start time.Time) {
	elapsed := time.Since(start)
	ms := float64(elapsed.Microseconds()) / 1000
	label := queryLabel(query)

	level := slog.LevelDebug
	event := "query"
	if elapsed >= t.slow {
		level, event = slog.LevelWarn, "slow_query"
	}
	slog.Log(context.Background(), level, event, "op", op, "query", label, "duration_ms", ms)

	if t.collector == nil {
		return
	}
	path := op
	if label != "" {
		path += " " + label
	}
	t.collector.Record(perf.Entry{Kind: perf.KindQuery, Path: path, DurationMs: ms, Timestamp: start})
}

// WithTx commits fn's statements when fn returns nil and rolls them all back otherwise.
// PRE: fn issues statements through tx only
func WithTx(ctx context.Context, db SQLDB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("tx_rollback_failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// queryLabel keeps the first line of q, trimmed of indentation and cut at labelWidth.
func queryLabel(q string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(q), "\n")
	line = strings.TrimSpace(line)
	if len(line) > labelWidth {
		line = line[:labelWidth]
	}
	return line
}
