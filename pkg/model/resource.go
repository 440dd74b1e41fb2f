package model

import "time"

// Resource is a shared, capacity-limited asset. MaxSlots bounds how many
// bookings may hold it at overlapping times; MaxDurationHours bounds the
// length of a single booking. Resources are immutable after creation.
type Resource struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	MaxSlots         int       `json:"max_slots" bson:"max_slots" validate:"required,min=1,max=500"`
	MaxDurationHours int       `json:"max_duration_hours" bson:"max_duration_hours" validate:"required,min=1,max=168"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
