package access

import (
	"context"

	domain "gymdesk/internal/domain/access"
)

// LogStore records door scans.
type LogStore interface {
	Record(ctx context.Context, entry domain.LogEntry) error
	List(ctx context.Context, limit int) ([]domain.LogEntry, error)
}
