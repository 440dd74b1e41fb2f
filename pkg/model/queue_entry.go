package model

import "time"

// QueueEntry pairs one queued booking with its place in the per-resource
// wait queue. Position is a strictly increasing arrival marker: unique per
// resource, never renumbered after removals, so readers order by position
// rather than by count.
type QueueEntry struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	ResourceID string    `json:"resource_id" bson:"resource_id"`
	BookingID  string    `json:"booking_id" bson:"booking_id"`
	Position   int       `json:"position" bson:"position"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
