package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/services"
)

type BookingHandler struct {
	bookings *services.BookingService
	refunds  *services.RefundService
}

func CreateBookingHandler(bookings *services.BookingService, refunds *services.RefundService) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		refunds:  refunds,
	}
}

func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.CustomerID == "" || req.ProviderID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "customer_id and provider_id are required"})
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.BookingResponse{Booking: booking})
}

func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BookingResponse{Booking: booking})
}

func (h *BookingHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if !req.TargetStatus.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown target status"})
		return
	}

	actorID := r.Header.Get("X-Actor-ID")
	if actorID == "" {
		actorID = "anonymous"
	}

	booking, err := h.bookings.RequestTransition(r.Context(), id, req.TargetStatus, actorID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.BookingResponse{Booking: booking})
}

func (h *BookingHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.ProcessRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	refund, err := h.refunds.ProcessRefund(r.Context(), id, req.Amount, req.Reason, "")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.RefundResponse{Refund: refund})
}
