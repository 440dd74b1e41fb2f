package model

import "time"

// ResourceLock is an advisory lock document serializing all admission, queue
// and promotion mutations for one resource. The lock id is derived from the
// resource id, so a duplicate-key insert means another request owns the
// critical section. ExpiresAt lets a TTL index reap locks left by crashes.
type ResourceLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
