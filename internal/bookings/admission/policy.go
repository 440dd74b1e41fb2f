// Package admission decides whether a booking request is admitted
// immediately, queued for later capacity, or rejected outright.
package admission

import (
	"context"
	"fmt"
	"time"

	"slotline/pkg/model"
)

// Rejection reasons surfaced verbatim to callers. The duration reason is
// built per resource via DurationReason.
const (
	ReasonInvalidDatetime = "invalid datetime format"
	ReasonStartNotFuture  = "start time must be in the future"
	ReasonEndNotAfter     = "end time must be after start time"
	ReasonDailyLimit      = "one booking per resource per 24h"
)

func DurationReason(maxHours int) string {
	return fmt.Sprintf("duration exceeds maximum of %d hours", maxHours)
}

// dailyLimitWindow is how far back the one-booking-per-resource rule looks.
const dailyLimitWindow = 24 * time.Hour

type Outcome int

const (
	// Admit: capacity is available, create the booking as active.
	Admit Outcome = iota
	// Queue: the resource is full for the requested interval, append to
	// the wait queue.
	Queue
	// Reject: a validation rule failed; Reason carries the cause.
	Reject
)

// Decision is the result of evaluating a request. Start and End hold the
// parsed, zone-aware instants so callers persist exactly what was checked.
type Decision struct {
	Outcome Outcome
	Reason  string
	Start   time.Time
	End     time.Time
}

func rejected(reason string) Decision {
	return Decision{Outcome: Reject, Reason: reason}
}

// OverlapIndex reports how many active bookings overlap an interval on a
// resource. Backed by the booking store in production, by a fake in tests.
type OverlapIndex interface {
	CountOverlapping(ctx context.Context, resourceID string, start, end time.Time) (int64, error)
}

// BookingHistory answers the one-booking-per-24h rule.
type BookingHistory interface {
	CountRecentByUser(ctx context.Context, userID, resourceID string, since time.Time) (int64, error)
}

type Policy struct {
	overlaps OverlapIndex
	history  BookingHistory
	// location resolves naive timestamps; instants with an explicit
	// offset keep it.
	location *time.Location
}

func NewPolicy(overlaps OverlapIndex, history BookingHistory, location *time.Location) *Policy {
	if location == nil {
		location = time.UTC
	}
	return &Policy{
		overlaps: overlaps,
		history:  history,
		location: location,
	}
}

// Evaluate runs the validation rules in order, cheapest first, and returns
// the first failure. Only the final capacity check touches the store; the
// caller must run Evaluate and the subsequent insert inside the resource's
// critical section so that count-and-decide is atomic.
func (p *Policy) Evaluate(ctx context.Context, resource *model.Resource, req *model.BookingRequest, now time.Time) (Decision, error) {
	start, err := p.parseInstant(req.StartTime)
	if err != nil {
		return rejected(ReasonInvalidDatetime), nil
	}
	end, err := p.parseInstant(req.EndTime)
	if err != nil {
		return rejected(ReasonInvalidDatetime), nil
	}

	if !start.After(now) {
		return rejected(ReasonStartNotFuture), nil
	}

	if !end.After(start) {
		return rejected(ReasonEndNotAfter), nil
	}

	maxDuration := time.Duration(resource.MaxDurationHours) * time.Hour
	if end.Sub(start) > maxDuration {
		return rejected(DurationReason(resource.MaxDurationHours)), nil
	}

	recent, err := p.history.CountRecentByUser(ctx, req.UserID, resource.ID, now.Add(-dailyLimitWindow))
	if err != nil {
		return Decision{}, err
	}
	if recent > 0 {
		return rejected(ReasonDailyLimit), nil
	}

	overlapping, err := p.overlaps.CountOverlapping(ctx, resource.ID, start, end)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{Start: start, End: end}
	if overlapping < int64(resource.MaxSlots) {
		decision.Outcome = Admit
	} else {
		decision.Outcome = Queue
	}
	return decision, nil
}

// parseInstant accepts RFC3339 instants and naive local timestamps; the
// latter are interpreted in the policy's default location.
func (p *Policy) parseInstant(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, p.location)
}
