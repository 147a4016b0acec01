package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/charter_flights/internal/adapter/repository/gormstore"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/services"
	"github.com/srgjo27/charter_flights/internal/platform/database"
	"github.com/srgjo27/charter_flights/internal/platform/logging"
)

type stack struct {
	flights  *services.FlightService
	quotes   *services.QuoteService
	bookings *gormstore.BookingRepository
	clock    *domain.MockClock
}

func newStack(t *testing.T, maxAttempts int) *stack {
	t.Helper()
	db, err := database.NewTestSQLiteDB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	clock := domain.NewMockClock(now)
	flightRepo := gormstore.NewFlightRepository(db)
	bookingRepo := gormstore.NewBookingRepository(db)
	quoteRepo := gormstore.NewQuoteRepository(db)
	logger := logging.Discard()

	return &stack{
		flights: services.NewFlightService(flightRepo, bookingRepo, nil, nil, services.FlightServiceConfig{
			MaxWriteAttempts: maxAttempts,
			Clock:            clock,
		}, logger),
		quotes:   services.NewQuoteService(quoteRepo, bookingRepo, nil, clock, logger),
		bookings: bookingRepo,
		clock:    clock,
	}
}

func (s *stack) seedBooking(t *testing.T, id string) *domain.Booking {
	t.Helper()
	booking := &domain.Booking{
		ID:               id,
		ClientID:         "client-1",
		OperatorUserCode: "OP1",
		Routing: domain.Routing{
			DepartureAirport: "KTEB",
			ArrivalAirport:   "KMIA",
			DepartureTime:    now.Add(24 * time.Hour),
		},
		Passengers:  1,
		TotalAmount: 1000,
		Currency:    "USD",
		Status:      domain.BookingConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.bookings.Create(context.Background(), booking))
	return booking
}

func TestIntegration_CreateFlightLinksBooking(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()
	s.seedBooking(t, "booking-1")

	flight, err := s.flights.CreateFlightForBooking(ctx, "booking-1", flightData(true))
	require.NoError(t, err)
	assert.Equal(t, 1, flight.Version)

	stored, err := s.bookings.GetByID(ctx, "booking-1")
	require.NoError(t, err)
	require.NotNil(t, stored.FlightID)
	assert.Equal(t, flight.ID, *stored.FlightID)
	require.NotNil(t, stored.FlightDetails)
	assert.Equal(t, flight.Legs[0].FlightNumber, stored.FlightDetails.FlightNumber)

	_, err = s.flights.CreateFlightForBooking(ctx, "booking-1", flightData(false))
	assert.ErrorIs(t, err, domain.ErrBookingAlreadyLinked)

	found, err := s.flights.GetFlightByNumber(ctx, flight.Legs[1].FlightNumber)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, flight.ID, found.Flight.ID)
	assert.Equal(t, 2, found.Leg.LegNumber)
}

func TestIntegration_EmptyLegSearchSkipsCancelledFlights(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()
	s.seedBooking(t, "booking-1")
	s.seedBooking(t, "booking-2")

	open, err := s.flights.CreateFlightForBooking(ctx, "booking-1", flightData(true))
	require.NoError(t, err)

	later := flightData(true)
	later.ReturnLeg.ScheduledDepartureTime = later.ReturnLeg.ScheduledDepartureTime.Add(-time.Hour)
	later.ReturnLeg.ScheduledArrivalTime = later.ReturnLeg.ScheduledArrivalTime.Add(-time.Hour)
	cancelled, err := s.flights.CreateFlightForBooking(ctx, "booking-2", later)
	require.NoError(t, err)
	require.NoError(t, s.flights.UpdateFlightStatus(ctx, cancelled.ID, domain.FlightCancelled))

	legs, err := s.flights.FindAvailableEmptyLegs(ctx, "kmia", "kteb", now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, open.ID, legs[0].Flight.ID)
	assert.Equal(t, 2, legs[0].Leg.LegNumber)

	legs, err = s.flights.FindAvailableEmptyLegs(ctx, "KTEB", "KMIA", now, now.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, legs, "passenger legs are never offered")
}

func TestIntegration_EmptyLegTakenOffMarketOnceBooked(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()
	s.seedBooking(t, "booking-1")
	s.seedBooking(t, "booking-2")

	flight, err := s.flights.CreateFlightForBooking(ctx, "booking-1", flightData(true))
	require.NoError(t, err)

	require.NoError(t, s.flights.AddBookingToFlightLeg(ctx, flight.ID, 2, "booking-2"))

	stored, err := s.flights.GetFlightByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
	assert.Equal(t, domain.LegTypePassenger, stored.Legs[1].LegType)
	assert.Equal(t, 3, stored.Legs[1].AvailableSeats)

	booking, err := s.bookings.GetByID(ctx, "booking-2")
	require.NoError(t, err)
	assert.Equal(t, flight.Legs[1].FlightNumber, booking.FlightDetails.FlightNumber)

	legs, err := s.flights.FindAvailableEmptyLegs(ctx, "KMIA", "KTEB", now, now.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, legs)
}

func TestIntegration_ConcurrentBookingsNeverOversell(t *testing.T) {
	s := newStack(t, 20)
	ctx := context.Background()
	s.seedBooking(t, "booking-0")

	data := flightData(true)
	flight, err := s.flights.CreateFlightForBooking(ctx, "booking-0", data)
	require.NoError(t, err)

	const attempts = 10
	for i := 1; i <= attempts; i++ {
		s.seedBooking(t, fmt.Sprintf("booking-%d", i))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	for i := 1; i <= attempts; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := s.flights.AddBookingToFlightLeg(ctx, flight.ID, 2, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domain.ErrNoAvailableSeats):
				full++
			default:
				t.Errorf("unexpected error for %s: %v", id, err)
			}
		}(fmt.Sprintf("booking-%d", i))
	}
	wg.Wait()

	assert.Equal(t, data.ReturnLeg.MaxSeats, success)
	assert.Equal(t, attempts-data.ReturnLeg.MaxSeats, full)

	stored, err := s.flights.GetFlightByID(ctx, flight.ID)
	require.NoError(t, err)
	leg := stored.Legs[1]
	assert.Len(t, leg.BookingIDs, data.ReturnLeg.MaxSeats)
	assert.Equal(t, 0, leg.AvailableSeats)
	assert.Equal(t, 1+data.ReturnLeg.MaxSeats, stored.Version)
}

func TestIntegration_AcceptOfferOnce(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()

	quote, err := s.quotes.SubmitQuoteRequest(ctx, "client-1", domain.Routing{
		DepartureAirport: "KTEB",
		ArrivalAirport:   "KMIA",
		DepartureTime:    now.Add(24 * time.Hour),
	}, 2)
	require.NoError(t, err)

	first, err := s.quotes.SubmitOffer(ctx, quote.ID, domain.Offer{OperatorUserCode: "OP1", AircraftID: "N1", TotalAmount: 30000})
	require.NoError(t, err)
	s.clock.Advance(time.Minute)
	second, err := s.quotes.SubmitOffer(ctx, quote.ID, domain.Offer{OperatorUserCode: "OP2", AircraftID: "N2", TotalAmount: 28000})
	require.NoError(t, err)

	booking, err := s.quotes.AcceptOffer(ctx, quote.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "OP2", booking.OperatorUserCode)

	_, err = s.quotes.AcceptOffer(ctx, quote.ID, first.ID)
	assert.ErrorIs(t, err, domain.ErrQuoteNotOpen)

	_, err = s.quotes.SubmitOffer(ctx, quote.ID, domain.Offer{OperatorUserCode: "OP3", AircraftID: "N3", TotalAmount: 1})
	assert.ErrorIs(t, err, domain.ErrQuoteNotOpen)

	stored, err := s.quotes.GetQuoteRequest(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteAccepted, stored.Status)
	require.Len(t, stored.Offers, 2)
	assert.Equal(t, domain.OfferRejected, stored.Offers[0].Status)
	assert.Equal(t, domain.OfferAccepted, stored.Offers[1].Status)

	fetched, err := s.quotes.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, fetched.QuoteRequestID)

	flight, err := s.flights.CreateFlightForBooking(ctx, booking.ID, flightData(false))
	require.NoError(t, err)
	assert.Equal(t, "OP2", flight.OperatorUserCode)
}

func TestIntegration_InvalidFlightNumberReturnsNothing(t *testing.T) {
	s := newStack(t, 3)

	found, err := s.flights.GetFlightByNumber(context.Background(), "INVALID")

	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestIntegration_CreateFlightLinksEveryPrimaryBooking(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()
	s.seedBooking(t, "booking-1")
	s.seedBooking(t, "booking-2")

	data := flightData(false)
	data.PrimaryLeg.BookingIDs = []string{"booking-1", "booking-2"}
	flight, err := s.flights.CreateFlightForBooking(ctx, "booking-1", data)
	require.NoError(t, err)
	assert.Equal(t, 2, flight.Legs[0].AvailableSeats)

	extra, err := s.bookings.GetByID(ctx, "booking-2")
	require.NoError(t, err)
	require.NotNil(t, extra.FlightID)
	assert.Equal(t, flight.ID, *extra.FlightID)
}

func TestIntegration_CreateFlightRollsBackOnUnknownBooking(t *testing.T) {
	s := newStack(t, 3)
	ctx := context.Background()
	s.seedBooking(t, "booking-1")

	data := flightData(false)
	data.PrimaryLeg.BookingIDs = []string{"booking-1", "ghost"}
	_, err := s.flights.CreateFlightForBooking(ctx, "booking-1", data)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	stored, err := s.bookings.GetByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.False(t, stored.IsLinked())

	all, err := s.flights.GetAllFlights(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
