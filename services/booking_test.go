package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/security"
)

func TestRequestTransition_UnknownStatusRejected(t *testing.T) {
	svc := CreateBookingService(nil, nil, nil, nil, security.RateLimitConfig{})

	_, err := svc.RequestTransition(context.Background(), "b1", models.BookingStatus("shipped"), "actor")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("error = %v, want ErrUnknownStatus", err)
	}
	if !strings.Contains(err.Error(), "shipped") {
		t.Errorf("error %q should name the rejected status", err.Error())
	}
}
