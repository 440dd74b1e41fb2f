package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"slotline/internal/bookings/admission"
	bookingserrors "slotline/internal/bookings/errors"
	"slotline/internal/bookings/promotion"
	"slotline/internal/bookings/queue"
	"slotline/internal/bookings/validator"
	"slotline/pkg/config"
	mongotx "slotline/pkg/db/mongo"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/logger"
	"slotline/pkg/model"
)

// ────────────────────────────────────────────────
// In-memory fakes
// ────────────────────────────────────────────────

type memoryBookingRepository struct {
	bookings map[string]*model.Booking
	nextID   int
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: make(map[string]*model.Booking)}
}

func (m *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.nextID++
	booking.ID = fmt.Sprintf("booking-%d", m.nextID)
	booking.CreatedAt = time.Now().UTC()
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memoryBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	var all []*model.Booking
	for _, booking := range m.bookings {
		copied := *booking
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartTime.Before(all[j].StartTime) })
	return all, nil
}

func (m *memoryBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *memoryBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	booking, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	booking.Status = status
	return nil
}

func (m *memoryBookingRepository) CountOverlapping(ctx context.Context, resourceID string, start, end time.Time) (int64, error) {
	count := int64(0)
	for _, booking := range m.bookings {
		if booking.ResourceID != resourceID || booking.Status != model.StatusActive {
			continue
		}
		if booking.StartTime.Before(end) && booking.EndTime.After(start) {
			count++
		}
	}
	return count, nil
}

func (m *memoryBookingRepository) CountRecentByUser(ctx context.Context, userID, resourceID string, since time.Time) (int64, error) {
	count := int64(0)
	for _, booking := range m.bookings {
		if booking.UserID != userID || booking.ResourceID != resourceID {
			continue
		}
		if booking.Status == model.StatusQueued {
			continue
		}
		if !booking.StartTime.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type memoryQueueEntryRepository struct {
	entries []*model.QueueEntry
	nextID  int
}

func (m *memoryQueueEntryRepository) Insert(ctx context.Context, entry *model.QueueEntry) error {
	for _, existing := range m.entries {
		if existing.ResourceID == entry.ResourceID && existing.Position == entry.Position {
			return fmt.Errorf("%w: resource %s position %d", bookingserrors.ErrQueueCorrupted, entry.ResourceID, entry.Position)
		}
	}
	m.nextID++
	entry.ID = fmt.Sprintf("entry-%d", m.nextID)
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *memoryQueueEntryRepository) FindFirst(ctx context.Context, resourceID string, n int) ([]*model.QueueEntry, error) {
	matched, _ := m.ListByResource(ctx, resourceID)
	if len(matched) > n {
		matched = matched[:n]
	}
	return matched, nil
}

func (m *memoryQueueEntryRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.QueueEntry, error) {
	for _, entry := range m.entries {
		if entry.BookingID == bookingID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, bookingserrors.ErrQueueEntryNotFound
}

func (m *memoryQueueEntryRepository) MaxPosition(ctx context.Context, resourceID string) (int, error) {
	max := 0
	for _, entry := range m.entries {
		if entry.ResourceID == resourceID && entry.Position > max {
			max = entry.Position
		}
	}
	return max, nil
}

func (m *memoryQueueEntryRepository) CountByResource(ctx context.Context, resourceID string) (int64, error) {
	matched, _ := m.ListByResource(ctx, resourceID)
	return int64(len(matched)), nil
}

func (m *memoryQueueEntryRepository) ListByResource(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
	var matched []*model.QueueEntry
	for _, entry := range m.entries {
		if entry.ResourceID == resourceID {
			copied := *entry
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Position < matched[j].Position })
	return matched, nil
}

func (m *memoryQueueEntryRepository) Delete(ctx context.Context, id string) error {
	for i, entry := range m.entries {
		if entry.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return bookingserrors.ErrQueueEntryNotFound
}

type memoryLockRepository struct {
	held       map[string]bool
	acquires   int
	alwaysHeld bool
}

func newMemoryLockRepository() *memoryLockRepository {
	return &memoryLockRepository{held: make(map[string]bool)}
}

func (m *memoryLockRepository) Acquire(ctx context.Context, resourceID string, ttl time.Duration) (string, error) {
	m.acquires++
	lockID := "admission_" + resourceID
	if m.alwaysHeld || m.held[lockID] {
		return "", bookingserrors.ErrLockHeld
	}
	m.held[lockID] = true
	return lockID, nil
}

func (m *memoryLockRepository) Release(ctx context.Context, lockID string) error {
	delete(m.held, lockID)
	return nil
}

type stubCatalog struct {
	resources map[string]*model.Resource
}

func (s *stubCatalog) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	resource, ok := s.resources[id]
	if !ok {
		return nil, apperrors.NotFoundWithID("Resource", id)
	}
	return resource, nil
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

const testResourceID = "65f000000000000000000001"

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *bookingService
	bookings  *memoryBookingRepository
	queueRepo *memoryQueueEntryRepository
	locks     *memoryLockRepository
}

func newFixture(maxSlots int) *fixture {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{
		Log:                   log,
		LockTTL:               time.Second,
		AdmissionRetries:      2,
		AdmissionRetryBackoff: time.Millisecond,
		DefaultLocation:       time.UTC,
	}

	bookings := newMemoryBookingRepository()
	queueRepo := &memoryQueueEntryRepository{}
	locks := newMemoryLockRepository()
	catalog := &stubCatalog{resources: map[string]*model.Resource{
		testResourceID: {
			ID:               testResourceID,
			Name:             "GPU Cluster",
			MaxSlots:         maxSlots,
			MaxDurationHours: 4,
		},
	}}

	waitQueue := queue.NewWaitQueue(queueRepo)
	svc := NewBookingService(
		bookings,
		locks,
		catalog,
		admission.NewPolicy(bookings, bookings, time.UTC),
		waitQueue,
		promotion.NewEngine(waitQueue, bookings, log),
		validator.NewBookingValidator(log),
		cfg,
	).(*bookingService)
	svc.now = func() time.Time { return fixedNow }

	return &fixture{svc: svc, bookings: bookings, queueRepo: queueRepo, locks: locks}
}

func request(userID, start, end string) *model.BookingRequest {
	return &model.BookingRequest{
		ResourceID: testResourceID,
		UserID:     userID,
		StartTime:  start,
		EndTime:    end,
	}
}

func assertCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// ────────────────────────────────────────────────
// RequestBooking
// ────────────────────────────────────────────────

func TestRequestBooking_AdmitsWhenCapacityAvailable(t *testing.T) {
	f := newFixture(1)

	result, err := f.svc.RequestBooking(context.Background(), request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Queued {
		t.Error("expected immediate admission, got queued")
	}
	if result.Booking.Status != model.StatusActive {
		t.Errorf("expected active status, got %s", result.Booking.Status)
	}
	if result.Position != 0 {
		t.Errorf("admitted bookings carry no queue position, got %d", result.Position)
	}
	if len(f.locks.held) != 0 {
		t.Error("lock must be released after the request")
	}
}

func TestRequestBooking_QueuesWhenFull(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	if _, err := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	result, err := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:30:00Z", "2026-03-10T14:30:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Queued {
		t.Fatal("expected the second overlapping booking to queue")
	}
	if result.Position != 1 {
		t.Errorf("expected queue position 1, got %d", result.Position)
	}
	if result.Booking.Status != model.StatusQueued {
		t.Errorf("expected queued status, got %s", result.Booking.Status)
	}
}

func TestRequestBooking_NonOverlappingIntervalsShareSlot(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	if _, err := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	// [13,14) and [14,15) touch but do not overlap.
	result, err := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T14:00:00Z", "2026-03-10T15:00:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Queued {
		t.Error("back-to-back intervals must both be admitted")
	}
}

func TestRequestBooking_RejectsWithReason(t *testing.T) {
	f := newFixture(1)

	cases := []struct {
		name   string
		start  string
		end    string
		reason string
	}{
		{"malformed start", "not-a-date", "2026-03-10T14:00:00Z", "invalid datetime format"},
		{"past start", "2026-03-10T11:00:00Z", "2026-03-10T14:00:00Z", "start time must be in the future"},
		{"inverted interval", "2026-03-10T14:00:00Z", "2026-03-10T13:00:00Z", "end time must be after start time"},
		{"too long", "2026-03-10T13:00:00Z", "2026-03-10T18:00:00Z", "duration exceeds maximum of 4 hours"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.RequestBooking(context.Background(), request("carol", tc.start, tc.end))
			appErr := assertCode(t, err, apperrors.CodeValidation)
			if appErr.Message != tc.reason {
				t.Errorf("expected reason %q, got %q", tc.reason, appErr.Message)
			}
		})
	}

	count, _ := f.bookings.Count(context.Background())
	if count != 0 {
		t.Errorf("rejected requests must not persist bookings, found %d", count)
	}
}

func TestRequestBooking_DailyLimit(t *testing.T) {
	f := newFixture(5)
	ctx := context.Background()

	if _, err := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z")); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T15:00:00Z", "2026-03-10T16:00:00Z"))
	appErr := assertCode(t, err, apperrors.CodeValidation)
	if appErr.Message != "one booking per resource per 24h" {
		t.Errorf("expected daily-limit reason, got %q", appErr.Message)
	}
}

func TestRequestBooking_UnknownResource(t *testing.T) {
	f := newFixture(1)

	req := request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z")
	req.ResourceID = "65f0000000000000000000ff"

	_, err := f.svc.RequestBooking(context.Background(), req)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestRequestBooking_MissingFields(t *testing.T) {
	f := newFixture(1)

	req := request("", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z")
	_, err := f.svc.RequestBooking(context.Background(), req)
	assertCode(t, err, apperrors.CodeValidation)

	if f.locks.acquires != 0 {
		t.Error("structural validation must fail before any lock is taken")
	}
}

func TestRequestBooking_LockContention(t *testing.T) {
	f := newFixture(1)
	f.locks.alwaysHeld = true

	_, err := f.svc.RequestBooking(context.Background(), request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	assertCode(t, err, apperrors.CodeConflict)

	// Initial attempt plus the configured retries.
	if f.locks.acquires != 3 {
		t.Errorf("expected 3 lock attempts, got %d", f.locks.acquires)
	}
}

// ────────────────────────────────────────────────
// Completion, cancellation and promotion
// ────────────────────────────────────────────────

// The canonical single-slot lifecycle: admit, queue, complete, promote.
func TestCompleteBooking_PromotesQueueHead(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	first, err := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	second, err := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if !second.Queued || second.Position != 1 {
		t.Fatalf("expected bob queued at position 1, got %+v", second)
	}

	event, err := f.svc.CompleteBooking(ctx, first.Booking.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if event == nil {
		t.Fatal("expected a promotion event")
	}
	if event.BookingID != second.Booking.ID || event.Position != 1 {
		t.Errorf("unexpected promotion event %+v", event)
	}

	promoted, _ := f.bookings.FindByID(ctx, second.Booking.ID)
	if promoted.Status != model.StatusActive {
		t.Errorf("expected bob active after promotion, got %s", promoted.Status)
	}
	completed, _ := f.bookings.FindByID(ctx, first.Booking.ID)
	if completed.Status != model.StatusCompleted {
		t.Errorf("expected alice completed, got %s", completed.Status)
	}
	if len(f.queueRepo.entries) != 0 {
		t.Errorf("expected empty queue after promotion, got %d entries", len(f.queueRepo.entries))
	}
}

func TestCompleteBooking_Idempotent(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	first, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	f.svc.RequestBooking(ctx, request("carol", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.CompleteBooking(ctx, first.Booking.ID)
	if err != nil || event == nil {
		t.Fatalf("first complete: event=%v err=%v", event, err)
	}

	// The repeat must not consume another vacancy: carol stays queued.
	event, err = f.svc.CompleteBooking(ctx, first.Booking.ID)
	if err != nil {
		t.Fatalf("repeated complete failed: %v", err)
	}
	if event != nil {
		t.Errorf("repeated completion must not promote, got %+v", event)
	}
	if len(f.queueRepo.entries) != 1 {
		t.Errorf("expected exactly one entry left in queue, got %d", len(f.queueRepo.entries))
	}
}

func TestCompleteBooking_EmptyQueue(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	first, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.CompleteBooking(ctx, first.Booking.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if event != nil {
		t.Errorf("expected no promotion with an empty queue, got %+v", event)
	}
}

func TestCompleteBooking_NotFound(t *testing.T) {
	f := newFixture(1)

	_, err := f.svc.CompleteBooking(context.Background(), "booking-404")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCancelBooking_QueuedSkipsPromotion(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	queued, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	waiting, _ := f.svc.RequestBooking(ctx, request("carol", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.CancelBooking(ctx, queued.Booking.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if event != nil {
		t.Errorf("cancelling a queued booking held no capacity, got event %+v", event)
	}

	cancelled, _ := f.bookings.FindByID(ctx, queued.Booking.ID)
	if cancelled.Status != model.StatusCompleted {
		t.Errorf("expected cancelled booking completed, got %s", cancelled.Status)
	}

	// Carol keeps her original position; nobody is renumbered or promoted.
	entries, _ := f.queueRepo.ListByResource(ctx, testResourceID)
	if len(entries) != 1 || entries[0].BookingID != waiting.Booking.ID || entries[0].Position != 2 {
		t.Errorf("expected carol alone at position 2, got %+v", entries)
	}
	stillQueued, _ := f.bookings.FindByID(ctx, waiting.Booking.ID)
	if stillQueued.Status != model.StatusQueued {
		t.Errorf("expected carol still queued, got %s", stillQueued.Status)
	}
}

func TestCancelBooking_ActivePromotesLikeCompletion(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	active, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	queued, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.CancelBooking(ctx, active.Booking.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if event == nil || event.BookingID != queued.Booking.ID {
		t.Errorf("expected bob promoted on cancellation, got %+v", event)
	}
}

// ────────────────────────────────────────────────
// UpdateStatus
// ────────────────────────────────────────────────

func TestUpdateStatus_ActiveToCompletedPromotes(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	active, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	queued, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.UpdateStatus(ctx, active.Booking.ID, &model.BookingStatusUpdate{Status: model.StatusCompleted})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if event == nil || event.BookingID != queued.Booking.ID {
		t.Errorf("expected promotion of bob, got %+v", event)
	}
}

func TestUpdateStatus_QueuedToCompletedSkipsPromotion(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	queued, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.UpdateStatus(ctx, queued.Booking.ID, &model.BookingStatusUpdate{Status: model.StatusCompleted})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if event != nil {
		t.Errorf("expected no promotion, got %+v", event)
	}
	if len(f.queueRepo.entries) != 0 {
		t.Errorf("expected bob's queue entry removed, got %d entries", len(f.queueRepo.entries))
	}
}

func TestUpdateStatus_InvalidTransitions(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	active, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	if _, err := f.svc.CompleteBooking(ctx, active.Booking.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	// Completed is terminal.
	_, err := f.svc.UpdateStatus(ctx, active.Booking.ID, &model.BookingStatusUpdate{Status: model.StatusActive})
	assertCode(t, err, apperrors.CodeValidation)

	// Active cannot be demoted back to queued.
	other, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	_, err = f.svc.UpdateStatus(ctx, other.Booking.ID, &model.BookingStatusUpdate{Status: model.StatusQueued})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	active, _ := f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	event, err := f.svc.UpdateStatus(ctx, active.Booking.ID, &model.BookingStatusUpdate{Status: model.StatusActive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event != nil {
		t.Errorf("no-op update must not promote, got %+v", event)
	}
	if f.locks.acquires != 1 {
		t.Errorf("no-op update must not take the lock, got %d acquisitions", f.locks.acquires)
	}
}

// ────────────────────────────────────────────────
// Queue snapshot
// ────────────────────────────────────────────────

func TestQueueSnapshot(t *testing.T) {
	f := newFixture(1)
	ctx := context.Background()

	f.svc.RequestBooking(ctx, request("alice", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	second, _ := f.svc.RequestBooking(ctx, request("bob", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))
	third, _ := f.svc.RequestBooking(ctx, request("carol", "2026-03-10T13:00:00Z", "2026-03-10T14:00:00Z"))

	entries, err := f.svc.QueueSnapshot(ctx, testResourceID)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 queued entries, got %d", len(entries))
	}
	if entries[0].BookingID != second.Booking.ID || entries[1].BookingID != third.Booking.ID {
		t.Errorf("snapshot out of order: %+v", entries)
	}

	_, err = f.svc.QueueSnapshot(ctx, "65f0000000000000000000ff")
	assertCode(t, err, apperrors.CodeNotFound)
}
