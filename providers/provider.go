package providers

import (
	"context"
	"errors"

	"github.com/hireloop/marketplace/models"
)

var (
	ErrNotSupported      = errors.New("operation not supported by provider")
	ErrUnhandledEvent    = errors.New("event type not handled")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrMalformedEvent    = errors.New("malformed webhook event")
	ErrMissingBookingRef = errors.New("event carries no booking reference")
)

// PaymentProcessor abstracts the payment processor the ledger consumes
// events from. The engine never initiates charges or payouts; it verifies
// notifications and reads payout state.
type PaymentProcessor interface {
	// VerifyAndParseEvent checks the webhook signature and maps the payload
	// to a processor-neutral event. Returns ErrUnhandledEvent for event
	// types the ledger does not consume.
	VerifyAndParseEvent(payload []byte, signature string) (*models.ProcessorEvent, error)

	// ListPayouts reads recent payouts from the processor, for
	// reconciliation against local payout rows.
	ListPayouts(ctx context.Context, limit int64) ([]*models.Payout, error)
}
