package orchestrators

import (
	"context"
	"log/slog"

	"gymdesk/internal/adapters/partner/classpass"
	"gymdesk/internal/domain/class"
)

// ClassLister lists stored classes.
type ClassLister interface {
	List(ctx context.Context) ([]class.Class, error)
}

// BookingSyncer fetches partner bookings for a batch of classes.
type BookingSyncer interface {
	SyncAll(ctx context.Context, itemIDs []string) (classpass.SyncResult, error)
}

// ExecuteSyncBookings pulls partner bookings for every scheduled class.
// POST: cancelled classes are not synced
// INVARIANT: stored enrolment counts are never changed
func ExecuteSyncBookings(ctx context.Context, classes ClassLister, partner BookingSyncer) (classpass.SyncResult, error) {
	list, err := classes.List(ctx)
	if err != nil {
		return classpass.SyncResult{}, err
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		if c.Status != class.StatusCancelled {
			ids = append(ids, c.ID)
		}
	}
	res, err := partner.SyncAll(ctx, ids)
	if err != nil {
		slog.Error("partner_event", "event", "sync_failed", "classes", len(ids), "error", err)
		return classpass.SyncResult{}, err
	}
	slog.Info("partner_event", "event", "sync_complete", "skipped", res.Skipped, "total", res.Total)
	return res, nil
}
