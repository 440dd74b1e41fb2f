package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"slotline/internal/bookings/admission"
	bookingserrors "slotline/internal/bookings/errors"
	"slotline/internal/bookings/promotion"
	"slotline/internal/bookings/queue"
	"slotline/internal/bookings/repository"
	"slotline/internal/bookings/validator"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/model"
	"slotline/pkg/sanitizer"
)

// ResourceCatalog looks up capacity rules for a resource. Read-only.
type ResourceCatalog interface {
	GetResource(ctx context.Context, id string) (*model.Resource, error)
}

// RequestResult is the outcome of an admitted or queued booking request.
// Rejections are reported as errors, never as a partial result.
type RequestResult struct {
	Booking  *model.Booking `json:"booking"`
	Queued   bool           `json:"queued"`
	Position int            `json:"position,omitempty"`
}

// BookingService orchestrates admission, queueing and promotion. It is the
// only entry point the HTTP shell calls; all state transitions for a
// resource are serialized behind its advisory lock.
type BookingService interface {
	RequestBooking(ctx context.Context, req *model.BookingRequest) (*RequestResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	CompleteBooking(ctx context.Context, id string) (*model.PromotionEvent, error)
	CancelBooking(ctx context.Context, id string) (*model.PromotionEvent, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.PromotionEvent, error)
	QueueSnapshot(ctx context.Context, resourceID string) ([]*model.QueueEntry, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.ResourceLockRepository
	catalog   ResourceCatalog
	policy    *admission.Policy
	waitQueue *queue.WaitQueue
	promoter  *promotion.Engine
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.ResourceLockRepository,
	catalog ResourceCatalog,
	policy *admission.Policy,
	waitQueue *queue.WaitQueue,
	promoter *promotion.Engine,
	bookingValidator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		catalog:   catalog,
		policy:    policy,
		waitQueue: waitQueue,
		promoter:  promoter,
		validator: bookingValidator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) RequestBooking(ctx context.Context, req *model.BookingRequest) (*RequestResult, error) {
	req.UserID = sanitizer.NormalizeUserID(req.UserID)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	resource, err := s.catalog.GetResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	lockID, err := s.acquireResourceLock(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	defer s.releaseResourceLock(ctx, lockID)

	var result *RequestResult
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		decision, err := s.policy.Evaluate(txCtx, resource, req, s.now())
		if err != nil {
			return apperrors.Internal("Failed to evaluate booking request", err)
		}

		switch decision.Outcome {
		case admission.Reject:
			return apperrors.Validation(decision.Reason, map[string]any{"reason": decision.Reason})

		case admission.Admit:
			booking := s.newBooking(req, decision, model.StatusActive)
			if err := s.repo.Create(txCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			result = &RequestResult{Booking: booking}

		case admission.Queue:
			booking := s.newBooking(req, decision, model.StatusQueued)
			if err := s.repo.Create(txCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			position, err := s.waitQueue.Enqueue(txCtx, resource.ID, booking.ID)
			if err != nil {
				return apperrors.Internal("Failed to enqueue booking", err)
			}
			result = &RequestResult{Booking: booking, Queued: true, Position: position}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking request handled",
		"booking_id", result.Booking.ID,
		"resource_id", resource.ID,
		"user_id", req.UserID,
		"queued", result.Queued,
		"position", result.Position,
	)
	return result, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// CompleteBooking marks the booking completed and, if it held capacity,
// promotes the head of the wait queue. Repeated calls are no-ops.
func (s *bookingService) CompleteBooking(ctx context.Context, id string) (*model.PromotionEvent, error) {
	return s.vacate(ctx, id, "complete")
}

// CancelBooking frees a booking before its natural completion. Cancelling
// an active booking behaves exactly like completing it; cancelling a queued
// booking only drops its queue entry, since no capacity was held.
func (s *bookingService) CancelBooking(ctx context.Context, id string) (*model.PromotionEvent, error) {
	return s.vacate(ctx, id, "cancel")
}

func (s *bookingService) vacate(ctx context.Context, id string, operation string) (*model.PromotionEvent, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if booking.Status == model.StatusCompleted {
		return nil, nil
	}

	lockID, err := s.acquireResourceLock(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}
	defer s.releaseResourceLock(ctx, lockID)

	var event *model.PromotionEvent
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// Re-read under the lock: a concurrent call may have completed
		// the booking between our first read and lock acquisition.
		current, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if current.Status == model.StatusCompleted {
			return nil
		}

		if err := s.repo.UpdateStatus(txCtx, id, model.StatusCompleted); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		if current.Status == model.StatusQueued {
			if _, err := s.waitQueue.RemoveByBooking(txCtx, id); err != nil {
				return apperrors.Internal("Failed to remove queue entry", err)
			}
			// No capacity was held, so no vacancy to fill.
			return nil
		}

		event, err = s.promoter.OnBookingVacated(txCtx, booking.ResourceID)
		if err != nil {
			return s.mapPromotionError(err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to vacate booking", "id", id, "operation", operation, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking vacated",
		"id", id,
		"operation", operation,
		"resource_id", booking.ResourceID,
		"promoted", event != nil,
	)
	return event, nil
}

// UpdateStatus applies an explicit status mutation. Transitions must follow
// queued -> active -> completed; a transition landing on completed from
// active fills the vacancy exactly once.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.PromotionEvent, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid status update", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	if booking.Status == update.Status {
		return nil, nil
	}
	if !validTransition(booking.Status, update.Status) {
		return nil, apperrors.Validation("Invalid status transition", map[string]any{
			"from": booking.Status,
			"to":   update.Status,
		})
	}

	lockID, err := s.acquireResourceLock(ctx, booking.ResourceID)
	if err != nil {
		return nil, err
	}
	defer s.releaseResourceLock(ctx, lockID)

	var event *model.PromotionEvent
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if current.Status == update.Status {
			return nil
		}
		if !validTransition(current.Status, update.Status) {
			return apperrors.Validation("Invalid status transition", map[string]any{
				"from": current.Status,
				"to":   update.Status,
			})
		}

		if err := s.repo.UpdateStatus(txCtx, id, update.Status); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		// Leaving the queued state always retires the queue entry, both
		// for manual activation and for direct completion.
		if current.Status == model.StatusQueued {
			if _, err := s.waitQueue.RemoveByBooking(txCtx, id); err != nil {
				return apperrors.Internal("Failed to remove queue entry", err)
			}
		}

		if update.Status == model.StatusCompleted && current.Status == model.StatusActive {
			event, err = s.promoter.OnBookingVacated(txCtx, booking.ResourceID)
			if err != nil {
				return s.mapPromotionError(err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", update.Status, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"from", booking.Status,
		"to", update.Status,
		"promoted", event != nil,
	)
	return event, nil
}

// QueueSnapshot lists a resource's wait queue in promotion order. Lock-free
// read for display.
func (s *bookingService) QueueSnapshot(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if _, err := s.catalog.GetResource(ctx, resourceID); err != nil {
		return nil, err
	}

	entries, err := s.waitQueue.Snapshot(ctx, resourceID)
	if err != nil {
		return nil, apperrors.Internal("Failed to read wait queue", err)
	}
	return entries, nil
}

// --- Helpers ---

func (s *bookingService) newBooking(req *model.BookingRequest, decision admission.Decision, status string) *model.Booking {
	return &model.Booking{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		StartTime:  decision.Start,
		EndTime:    decision.End,
		Status:     status,
	}
}

func validTransition(from, to string) bool {
	switch from {
	case model.StatusQueued:
		return to == model.StatusActive || to == model.StatusCompleted
	case model.StatusActive:
		return to == model.StatusCompleted
	default:
		return false
	}
}

// acquireResourceLock is the per-resource serialization point. Contention is
// a ConcurrencyConflict: retried a bounded number of times with backoff,
// then surfaced as a conflict the caller may retry.
func (s *bookingService) acquireResourceLock(ctx context.Context, resourceID string) (string, error) {
	for attempt := 0; ; attempt++ {
		lockID, err := s.locks.Acquire(ctx, resourceID, s.cfg.LockTTL)
		if err == nil {
			return lockID, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Internal("Failed to acquire resource lock", err)
		}
		if attempt >= s.cfg.AdmissionRetries {
			return "", apperrors.Conflict("This resource is busy handling another booking request. Please retry.")
		}

		select {
		case <-ctx.Done():
			return "", apperrors.Timeout("Timed out waiting for resource lock")
		case <-time.After(s.cfg.AdmissionRetryBackoff):
		}
	}
}

func (s *bookingService) releaseResourceLock(ctx context.Context, lockID string) {
	if err := s.locks.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release resource lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

// mapPromotionError keeps queue corruption loud: it indicates the
// serialization layer was bypassed and must never be swallowed.
func (s *bookingService) mapPromotionError(err error) error {
	if errors.Is(err, bookingserrors.ErrQueueCorrupted) {
		s.cfg.Log.Error("Wait queue invariant violated", "error", err)
		return apperrors.Internal("Wait queue is in an inconsistent state", err)
	}
	return apperrors.Internal("Failed to promote queued booking", err)
}
