package model

import "time"

// PromotionEvent records a queued booking becoming active after a vacancy.
// The engine returns it instead of performing I/O; the shell decides how to
// dispatch it (kafka topic, log line).
type PromotionEvent struct {
	ResourceID string    `json:"resource_id"`
	BookingID  string    `json:"booking_id"`
	Position   int       `json:"position"`
	PromotedAt time.Time `json:"promoted_at"`
}
