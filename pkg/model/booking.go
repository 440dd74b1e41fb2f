package model

import "time"

const (
	StatusActive    = "active"
	StatusQueued    = "queued"
	StatusCompleted = "completed"
)

// Booking holds a resource for the half-open interval [StartTime, EndTime).
// Status moves monotonically along queued -> active -> completed; queued
// bookings may also be completed directly by cancellation.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID     string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=100"`
	ResourceID string    `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=active queued completed"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the inbound shape of a booking attempt. Start and end
// arrive as ISO-8601 strings; parsing and timezone normalization happen in
// the admission pipeline so that malformed input yields a typed rejection.
type BookingRequest struct {
	ResourceID string `json:"resource_id" validate:"required,mongodb"`
	UserID     string `json:"user_id" validate:"required,min=1,max=100"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
}

// BookingStatusUpdate carries an explicit status mutation from the shell.
type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=active queued completed"`
}
