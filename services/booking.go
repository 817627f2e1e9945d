package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hireloop/marketplace/models"
	"github.com/hireloop/marketplace/security"
	"github.com/hireloop/marketplace/stores"
	"github.com/hireloop/marketplace/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidBookingPrice = errors.New("booking price must be positive")
	ErrUnknownStatus       = errors.New("unknown booking status")
)

type BookingService struct {
	bookings  *stores.BookingRepository
	providers *stores.ProviderRepository
	earnings  *EarningService
	limiter   *security.RateLimiter
	limit     security.RateLimitConfig
}

func CreateBookingService(bookings *stores.BookingRepository, providers *stores.ProviderRepository, earnings *EarningService, limiter *security.RateLimiter, limit security.RateLimitConfig) *BookingService {
	return &BookingService{
		bookings:  bookings,
		providers: providers,
		earnings:  earnings,
		limiter:   limiter,
		limit:     limit,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if req.PriceCents <= 0 {
		return nil, ErrInvalidBookingPrice
	}

	if _, err := s.providers.GetByID(ctx, req.ProviderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "AUD"
	}

	booking := &models.Booking{
		ID:          uuid.NewString(),
		CustomerID:  req.CustomerID,
		ProviderID:  req.ProviderID,
		ServiceName: req.ServiceName,
		Status:      models.BookingStatusPending,
		PriceCents:  req.PriceCents,
		Currency:    currency,
		ScheduledAt: req.ScheduledAt,
		Metadata:    req.Metadata,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// RequestTransition moves a booking to the target status if the state
// machine allows it. User-initiated writes are rate limited per actor and
// booking; re-requesting the current status is a no-op success.
func (s *BookingService) RequestTransition(ctx context.Context, bookingID string, target models.BookingStatus, actorID string) (*models.Booking, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}

	if s.limiter != nil {
		key := fmt.Sprintf("transition:%s:%s", actorID, bookingID)
		if result := s.limiter.Allow(ctx, key, s.limit); !result.Allowed {
			return nil, &security.RateLimitedError{RetryAfter: result.RetryAfter}
		}
	}

	var booking *models.Booking
	err := s.bookings.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookings.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		next, err := models.AssertTransition(booking.Status, target)
		if err != nil {
			return err
		}
		if next == booking.Status {
			return nil
		}

		booking.Status = next
		return s.bookings.Update(txCtx, booking)
	})
	if err != nil {
		return nil, err
	}

	if err := s.applyTransitionEffects(ctx, booking); err != nil {
		return nil, err
	}

	utils.Info(ctx, "booking transition applied", map[string]interface{}{
		"booking_id": booking.ID,
		"status":     string(booking.Status),
		"actor":      actorID,
	})

	return booking, nil
}

// applyTransitionEffects runs the money-affecting side of a transition.
// Both effects are idempotent, so a crash between the status write and this
// point is repaired by the next retry of the same event.
func (s *BookingService) applyTransitionEffects(ctx context.Context, booking *models.Booking) error {
	if s.earnings == nil {
		return nil
	}

	switch booking.Status {
	case models.BookingStatusPaid:
		_, err := s.earnings.RecordEarning(ctx, booking.ID)
		return err
	case models.BookingStatusCompleted:
		if _, err := s.earnings.RecordEarning(ctx, booking.ID); err != nil {
			return err
		}
		return s.earnings.ReleaseEarning(ctx, booking.ID)
	}
	return nil
}
