package ports

import (
	"context"
	"errors"
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
)

// ErrVersionConflict is returned by FlightRepository.Update when the stored
// flight no longer has the expected version.
var ErrVersionConflict = errors.New("optimistic lock failed: flight was modified by another transaction")

// FlightRepository persists flights as whole documents guarded by a version.
//
// Create and Update apply the given booking links in the same transaction as
// the flight write. A link fails with domain.ErrBookingNotFound or
// domain.ErrBookingAlreadyLinked and rolls the whole write back.
type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight, links ...domain.BookingLink) error
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	GetByGroupID(ctx context.Context, flightGroupID string) (*domain.Flight, error)
	ListByOperator(ctx context.Context, operatorUserCode string) ([]domain.Flight, error)
	ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error)
	ListAll(ctx context.Context) ([]domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight, expectedVersion int, links ...domain.BookingLink) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
}

type QuoteRepository interface {
	CreateQuoteRequest(ctx context.Context, quote *domain.QuoteRequest) error
	GetQuoteRequest(ctx context.Context, quoteRequestID string) (*domain.QuoteRequest, error)
	AddOffer(ctx context.Context, offer *domain.Offer) error
	// AcceptOffer closes the quote request, accepts offerID, rejects the
	// remaining pending offers and inserts booking, all in one transaction.
	AcceptOffer(ctx context.Context, quoteRequestID, offerID string, booking *domain.Booking, now time.Time) error
}
