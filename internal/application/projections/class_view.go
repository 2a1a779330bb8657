package projections

import (
	"context"
	"log/slog"

	"gymdesk/internal/domain/booking"
	"gymdesk/internal/domain/class"
)

// BookingFetcher returns partner bookings for one class.
type BookingFetcher interface {
	FetchBookings(ctx context.Context, itemID string) ([]booking.Record, error)
}

// ClassView is a class as shown on the timetable.
type ClassView struct {
	class.Class
	PartnerBookings int  `json:"classPassBookings"`
	DisplayEnrolled int  `json:"displayEnrolled"`
	SpotsLeft       int  `json:"spotsLeft"`
	Full            bool `json:"full"`
}

// QueryClassViews merges partner booking counts into classes.
// POST: DisplayEnrolled = Enrolled + partner count; order is preserved
// INVARIANT: a failed fetch shows the class with zero partner bookings rather than failing the list
func QueryClassViews(ctx context.Context, classes []class.Class, partner BookingFetcher) []ClassView {
	out := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		n := 0
		if partner != nil {
			records, err := partner.FetchBookings(ctx, c.ID)
			if err != nil {
				slog.Warn("partner_event", "event", "bookings_unavailable", "class_id", c.ID, "error", err)
			}
			n = len(records)
		}
		left := c.SpotsLeft(n)
		out = append(out, ClassView{
			Class:           c,
			PartnerBookings: n,
			DisplayEnrolled: c.Enrolled + n,
			SpotsLeft:       left,
			Full:            left == 0,
		})
	}
	return out
}
