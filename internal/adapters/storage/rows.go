package storage

import (
	"context"
	"database/sql"
)

// ScanFunc is the Scan method of a *sql.Row or *sql.Rows.
type ScanFunc = func(dest ...any) error

// QueryAll runs q and decodes every row with scan.
// POST: the slice is non-nil, so an empty result encodes as []
func QueryAll[T any](ctx context.Context, db SQLDB, scan func(ScanFunc) (T, error), q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountBy runs a query selecting (key, COUNT(*)) pairs and returns them as a map.
func CountBy(ctx context.Context, db SQLDB, q string, args ...any) (map[string]int, error) {
	pairs, err := QueryAll(ctx, db, func(scan ScanFunc) (keyCount, error) {
		var kc keyCount
		var key sql.NullString
		err := scan(&key, &kc.n)
		kc.key = key.String
		return kc, err
	}, q, args...)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(pairs))
	for _, p := range pairs {
		counts[p.key] += p.n
	}
	return counts, nil
}

type keyCount struct {
	key string
	n   int
}
