package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/hireloop/marketplace/providers"
	"github.com/hireloop/marketplace/services"
)

type WebhookHandler struct {
	processor providers.PaymentProcessor
	events    *services.ProcessorEventService
}

func CreateWebhookHandler(processor providers.PaymentProcessor, events *services.ProcessorEventService) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		events:    events,
	}
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read webhook payload", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		http.Error(w, "Missing Stripe signature", http.StatusUnauthorized)
		return
	}

	event, err := h.processor.VerifyAndParseEvent(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrInvalidSignature):
			http.Error(w, "Invalid webhook signature", http.StatusUnauthorized)
		case errors.Is(err, providers.ErrUnhandledEvent):
			// Acknowledge event types we do not consume so the processor
			// stops redelivering them.
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"received": true,
				"ignored":  true,
			})
		default:
			http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		}
		return
	}

	if err := h.events.HandleEvent(r.Context(), event); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := map[string]interface{}{
		"received":   true,
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"timestamp":  time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
