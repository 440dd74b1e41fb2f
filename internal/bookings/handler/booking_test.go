package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slotline/internal/bookings/service"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/logger"
	"slotline/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockBookingService struct {
	requestFunc  func(ctx context.Context, req *model.BookingRequest) (*service.RequestResult, error)
	completeFunc func(ctx context.Context, id string) (*model.PromotionEvent, error)
	cancelFunc   func(ctx context.Context, id string) (*model.PromotionEvent, error)
	queueFunc    func(ctx context.Context, resourceID string) ([]*model.QueueEntry, error)
}

func (m *mockBookingService) RequestBooking(ctx context.Context, req *model.BookingRequest) (*service.RequestResult, error) {
	if m.requestFunc != nil {
		return m.requestFunc(ctx, req)
	}
	return &service.RequestResult{Booking: &model.Booking{ID: "booking-1", Status: model.StatusActive}}, nil
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) CompleteBooking(ctx context.Context, id string) (*model.PromotionEvent, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingService) CancelBooking(ctx context.Context, id string) (*model.PromotionEvent, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) (*model.PromotionEvent, error) {
	return nil, nil
}

func (m *mockBookingService) QueueSnapshot(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
	if m.queueFunc != nil {
		return m.queueFunc(ctx, resourceID)
	}
	return []*model.QueueEntry{}, nil
}

type recordingPublisher struct {
	events []*model.PromotionEvent
}

func (p *recordingPublisher) PublishPromotion(ctx context.Context, event *model.PromotionEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestHandler(svc *mockBookingService) (*BookingHandler, *recordingPublisher) {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	publisher := &recordingPublisher{}
	return NewBookingHandler(svc, publisher, log), publisher
}

func TestRequest_AdmittedReturns201(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{})

	body, _ := json.Marshal(model.BookingRequest{
		ResourceID: "65f000000000000000000001",
		UserID:     "alice",
		StartTime:  "2026-03-10T13:00:00Z",
		EndTime:    "2026-03-10T14:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Request(rec, req, nil)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequest_QueuedReturns202WithPosition(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{
		requestFunc: func(ctx context.Context, req *model.BookingRequest) (*service.RequestResult, error) {
			return &service.RequestResult{
				Booking:  &model.Booking{ID: "booking-2", Status: model.StatusQueued},
				Queued:   true,
				Position: 3,
			}, nil
		},
	})

	body, _ := json.Marshal(model.BookingRequest{
		ResourceID: "65f000000000000000000001",
		UserID:     "bob",
		StartTime:  "2026-03-10T13:00:00Z",
		EndTime:    "2026-03-10T14:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Request(rec, req, nil)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data service.RequestResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !envelope.Data.Queued || envelope.Data.Position != 3 {
		t.Errorf("expected queued result with position 3, got %+v", envelope.Data)
	}
}

func TestRequest_RejectionReturnsReason(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{
		requestFunc: func(ctx context.Context, req *model.BookingRequest) (*service.RequestResult, error) {
			return nil, apperrors.Validation("start time must be in the future", nil)
		},
	})

	body, _ := json.Marshal(model.BookingRequest{
		ResourceID: "65f000000000000000000001",
		UserID:     "alice",
		StartTime:  "2020-01-01T00:00:00Z",
		EndTime:    "2020-01-01T01:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Request(rec, req, nil)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Error != "start time must be in the future" {
		t.Errorf("expected rejection reason in error field, got %q", envelope.Error)
	}
}

func TestRequest_MalformedBody(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	handler.Request(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestRequest_UserIDFallsBackToHeader(t *testing.T) {
	var gotUserID string
	handler, _ := newTestHandler(&mockBookingService{
		requestFunc: func(ctx context.Context, req *model.BookingRequest) (*service.RequestResult, error) {
			gotUserID = req.UserID
			return &service.RequestResult{Booking: &model.Booking{ID: "booking-1"}}, nil
		},
	})

	body, _ := json.Marshal(map[string]string{
		"resource_id": "65f000000000000000000001",
		"start_time":  "2026-03-10T13:00:00Z",
		"end_time":    "2026-03-10T14:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "header-user")
	rec := httptest.NewRecorder()

	handler.Request(rec, req, nil)

	if gotUserID != "header-user" {
		t.Errorf("expected user id from header, got %q", gotUserID)
	}
}

func TestComplete_PublishesPromotionEvent(t *testing.T) {
	event := &model.PromotionEvent{
		ResourceID: "65f000000000000000000001",
		BookingID:  "booking-2",
		Position:   1,
		PromotedAt: time.Now().UTC(),
	}
	handler, publisher := newTestHandler(&mockBookingService{
		completeFunc: func(ctx context.Context, id string) (*model.PromotionEvent, error) {
			return event, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/booking-1/complete", nil)
	rec := httptest.NewRecorder()

	handler.Complete(rec, req, httprouter.Params{{Key: "id", Value: "booking-1"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(publisher.events) != 1 || publisher.events[0] != event {
		t.Errorf("expected exactly the promotion event to be published, got %v", publisher.events)
	}
}

func TestComplete_NoPromotionNoEvent(t *testing.T) {
	handler, publisher := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/id/booking-1/complete", nil)
	rec := httptest.NewRecorder()

	handler.Complete(rec, req, httprouter.Params{{Key: "id", Value: "booking-1"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(publisher.events) != 0 {
		t.Errorf("expected no events without a promotion, got %v", publisher.events)
	}
}

func TestCancel_Returns204(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/bookings/id/booking-1", nil)
	rec := httptest.NewRecorder()

	handler.Cancel(rec, req, httprouter.Params{{Key: "id", Value: "booking-1"}})

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestQueue_RequiresResourceID(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/queue", nil)
	rec := httptest.NewRecorder()

	handler.Queue(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without resource_id, got %d", rec.Code)
	}
}

func TestQueue_ReturnsEntriesInOrder(t *testing.T) {
	handler, _ := newTestHandler(&mockBookingService{
		queueFunc: func(ctx context.Context, resourceID string) ([]*model.QueueEntry, error) {
			return []*model.QueueEntry{
				{BookingID: "booking-2", Position: 2},
				{BookingID: "booking-5", Position: 5},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/queue?resource_id=65f000000000000000000001", nil)
	rec := httptest.NewRecorder()

	handler.Queue(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data []*model.QueueEntry `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].Position != 2 || envelope.Data[1].Position != 5 {
		t.Errorf("unexpected queue payload: %+v", envelope.Data)
	}
}
