// Package queue maintains the per-resource FIFO of bookings waiting for
// capacity.
package queue

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "slotline/internal/bookings/errors"
	"slotline/internal/bookings/repository"
	"slotline/pkg/model"
)

// WaitQueue orders queued bookings by a strictly increasing per-resource
// position. Positions are arrival markers: assigned once, never renumbered,
// so a removal leaves a gap rather than shifting later entries.
type WaitQueue struct {
	entries repository.QueueEntryRepository
}

func NewWaitQueue(entries repository.QueueEntryRepository) *WaitQueue {
	return &WaitQueue{entries: entries}
}

// Enqueue appends the booking at the tail. The caller must hold the
// resource's admission lock: max-position-read and insert are two store
// operations and only the lock makes them atomic.
func (q *WaitQueue) Enqueue(ctx context.Context, resourceID, bookingID string) (int, error) {
	maxPos, err := q.entries.MaxPosition(ctx, resourceID)
	if err != nil {
		return 0, err
	}

	entry := &model.QueueEntry{
		ResourceID: resourceID,
		BookingID:  bookingID,
		Position:   maxPos + 1,
	}
	if err := q.entries.Insert(ctx, entry); err != nil {
		return 0, err
	}

	return entry.Position, nil
}

// PeekNext returns the head of the queue without removing it, or nil for an
// empty queue. A duplicate position among the first two entries means the
// serialization layer was bypassed; that is surfaced, never repaired.
func (q *WaitQueue) PeekNext(ctx context.Context, resourceID string) (*model.QueueEntry, error) {
	head, err := q.entries.FindFirst(ctx, resourceID, 2)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, nil
	}
	if len(head) == 2 && head[0].Position == head[1].Position {
		return nil, fmt.Errorf("%w: resource %s position %d", bookingserrors.ErrQueueCorrupted, resourceID, head[0].Position)
	}
	return head[0], nil
}

// Remove deletes the entry. Remaining positions are untouched.
func (q *WaitQueue) Remove(ctx context.Context, entry *model.QueueEntry) error {
	return q.entries.Delete(ctx, entry.ID)
}

// RemoveByBooking drops the booking's queue entry if one exists. Returns
// the removed entry, or nil if the booking was not queued.
func (q *WaitQueue) RemoveByBooking(ctx context.Context, bookingID string) (*model.QueueEntry, error) {
	entry, err := q.entries.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrQueueEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := q.entries.Delete(ctx, entry.ID); err != nil {
		return nil, err
	}
	return entry, nil
}

// Snapshot lists the queue in promotion order. Lock-free: reads for display
// tolerate being slightly stale.
func (q *WaitQueue) Snapshot(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
	return q.entries.ListByResource(ctx, resourceID)
}
