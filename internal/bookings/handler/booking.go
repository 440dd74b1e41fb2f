package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"slotline/internal/bookings/service"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/events"
	httputil "slotline/pkg/http"
	"slotline/pkg/logger"
	"slotline/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service   service.BookingService
	publisher events.Publisher
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, publisher events.Publisher, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		publisher: publisher,
		log:       log,
	}
}

// Request admits a booking immediately (201) or parks it on the wait queue
// (202 with its position). Policy rejections come back as 400 with the
// rejection reason.
func (h *BookingHandler) Request(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}
	if req.UserID == "" {
		req.UserID = r.Header.Get("X-User-ID")
	}

	result, err := h.service.RequestBooking(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if result.Queued {
		httputil.WriteAccepted(w, result)
		return
	}
	httputil.WriteCreated(w, result)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WritePaginated(w, bookings, total, limit, offset)
}

// UpdateStatus applies an explicit status transition, e.g. an operator
// moving a queued booking straight to completed.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	event, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.dispatch(r.Context(), event)

	httputil.WriteSuccess(w, map[string]any{
		"id":     ps.ByName("id"),
		"status": update.Status,
	})
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.CompleteBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.dispatch(r.Context(), event)

	httputil.WriteSuccess(w, map[string]any{
		"id":     ps.ByName("id"),
		"status": model.StatusCompleted,
	})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.CancelBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.dispatch(r.Context(), event)

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Queue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resourceID := r.URL.Query().Get("resource_id")
	if resourceID == "" {
		httputil.WriteError(w, apperrors.InvalidInput("resource_id query parameter is required"))
		return
	}

	entries, err := h.service.QueueSnapshot(r.Context(), resourceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, entries)
}

// dispatch publishes a promotion event after the state change has been
// committed. Publish failures are logged, not surfaced: the promotion
// itself already happened.
func (h *BookingHandler) dispatch(ctx context.Context, event *model.PromotionEvent) {
	if event == nil {
		return
	}
	if err := h.publisher.PublishPromotion(ctx, event); err != nil {
		h.log.Error("failed to publish promotion event",
			"resource_id", event.ResourceID,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Request)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/queue", h.Queue)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.UpdateStatus)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/complete", h.Complete)
}
