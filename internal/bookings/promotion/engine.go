// Package promotion reacts to vacancies by moving the head of the wait
// queue into the active set.
package promotion

import (
	"context"
	"time"

	"slotline/internal/bookings/queue"
	"slotline/pkg/logger"
	"slotline/pkg/model"
)

// BookingActivator flips a booking's status; implemented by the booking
// repository.
type BookingActivator interface {
	UpdateStatus(ctx context.Context, id string, status string) error
}

type Engine struct {
	queue    *queue.WaitQueue
	bookings BookingActivator
	log      *logger.Logger
}

func NewEngine(waitQueue *queue.WaitQueue, bookings BookingActivator, log *logger.Logger) *Engine {
	return &Engine{
		queue:    waitQueue,
		bookings: bookings,
		log:      log,
	}
}

// OnBookingVacated promotes at most one queued booking for the resource.
// Strictly FIFO: only the head is considered, even when the freed capacity
// could fit a shorter booking further back. Returns nil when the queue is
// empty. The caller must hold the resource's lock so two vacancies cannot
// race over one head entry.
func (e *Engine) OnBookingVacated(ctx context.Context, resourceID string) (*model.PromotionEvent, error) {
	entry, err := e.queue.PeekNext(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	if err := e.bookings.UpdateStatus(ctx, entry.BookingID, model.StatusActive); err != nil {
		return nil, err
	}
	if err := e.queue.Remove(ctx, entry); err != nil {
		return nil, err
	}

	e.log.Info("Promoted booking from queue",
		"resource_id", resourceID,
		"booking_id", entry.BookingID,
		"position", entry.Position,
	)

	return &model.PromotionEvent{
		ResourceID: resourceID,
		BookingID:  entry.BookingID,
		Position:   entry.Position,
		PromotedAt: time.Now().UTC(),
	}, nil
}
