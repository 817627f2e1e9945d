package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hireloop/marketplace/providers"
)

func TestWebhookHandler_HandleStripeWebhook_MissingSignature(t *testing.T) {
	processor := providers.NewStripeProvider("sk_test_123", "whsec_test123")
	handler := CreateWebhookHandler(processor, nil)

	payload := []byte(`{"type": "payment_intent.succeeded"}`)

	req := httptest.NewRequest("POST", "/webhooks/stripe", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()

	handler.HandleStripeWebhook(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("HandleStripeWebhook() status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	body := w.Body.String()
	if body != "Missing Stripe signature\n" {
		t.Errorf("HandleStripeWebhook() body = %q, want %q", body, "Missing Stripe signature\n")
	}
}

func TestWebhookHandler_HandleStripeWebhook_InvalidSignature(t *testing.T) {
	processor := providers.NewStripeProvider("sk_test_123", "whsec_test123")
	handler := CreateWebhookHandler(processor, nil)

	payload := []byte(`{"type": "payment_intent.succeeded"}`)

	req := httptest.NewRequest("POST", "/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", "invalid_signature")
	w := httptest.NewRecorder()

	handler.HandleStripeWebhook(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("HandleStripeWebhook() status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
