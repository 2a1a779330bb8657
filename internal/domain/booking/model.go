package booking

import "time"

// Status constants
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Record is a single booking made through the booking partner.
// Records are regenerated on every fetch and never persisted.
type Record struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"classId"`
	ExternalUserID string    `json:"classPassUserId"`
	UserName       string    `json:"userName"`
	Timestamp      time.Time `json:"bookingTime"`
	Status         string    `json:"status"`
}
