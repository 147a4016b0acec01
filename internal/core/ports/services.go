package ports

import (
	"context"
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
)

// FlightService is the flight lifecycle API consumed by the HTTP layer.
type FlightService interface {
	CreateFlightFromBooking(ctx context.Context, booking *domain.Booking, data domain.CreateFlightData) (*domain.Flight, error)
	CreateFlightForBooking(ctx context.Context, bookingID string, data domain.CreateFlightData) (*domain.Flight, error)
	AddBookingToFlightLeg(ctx context.Context, flightID string, legNumber int, bookingID string) error
	FindAvailableEmptyLegs(ctx context.Context, departureAirport, arrivalAirport string, start, end time.Time) ([]domain.ScheduledLeg, error)
	GetFlightByID(ctx context.Context, flightID string) (*domain.Flight, error)
	GetFlightsByOperator(ctx context.Context, operatorUserCode string) ([]domain.Flight, error)
	GetAllFlights(ctx context.Context) ([]domain.Flight, error)
	GetFlightByNumber(ctx context.Context, flightNumber string) (*domain.ScheduledLeg, error)
	UpdateFlightStatus(ctx context.Context, flightID string, status domain.FlightStatus) error
	UpdateLegStatus(ctx context.Context, flightID string, legNumber int, status domain.LegStatus) error
	RecordActualTimes(ctx context.Context, flightID string, legNumber int, departure, arrival *time.Time) error
}

// QuoteService drives the quote request -> offer -> booking pipeline.
type QuoteService interface {
	SubmitQuoteRequest(ctx context.Context, clientID string, routing domain.Routing, passengers int) (*domain.QuoteRequest, error)
	GetQuoteRequest(ctx context.Context, quoteRequestID string) (*domain.QuoteRequest, error)
	SubmitOffer(ctx context.Context, quoteRequestID string, offer domain.Offer) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, quoteRequestID, offerID string) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
}
