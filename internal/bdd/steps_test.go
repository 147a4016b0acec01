package bdd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/srgjo27/charter_flights/internal/adapter/repository/gormstore"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/services"
	"github.com/srgjo27/charter_flights/internal/platform/database"
	"github.com/srgjo27/charter_flights/internal/platform/logging"
)

var scenarioStart = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type flightContext struct {
	db       *gorm.DB
	flights  *services.FlightService
	quotes   *services.QuoteService
	bookings map[string]*domain.Booking
	flight   *domain.Flight
	found    *domain.ScheduledLeg
	err      error
}

func (c *flightContext) reset() error {
	db, err := database.NewTestSQLiteDB()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	c.db = db

	logger := logging.Discard()
	clock := domain.NewMockClock(scenarioStart)
	bookingRepo := gormstore.NewBookingRepository(db)
	c.flights = services.NewFlightService(gormstore.NewFlightRepository(db), bookingRepo, nil, nil, services.FlightServiceConfig{Clock: clock}, logger)
	c.quotes = services.NewQuoteService(gormstore.NewQuoteRepository(db), bookingRepo, nil, clock, logger)
	c.bookings = make(map[string]*domain.Booking)
	c.flight = nil
	c.found = nil
	c.err = nil
	return nil
}

func (c *flightContext) close() {
	if c.db == nil {
		return
	}
	if sqlDB, err := c.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Given steps

func (c *flightContext) anAcceptedBooking(name, operator, from, to string) error {
	ctx := context.Background()
	quote, err := c.quotes.SubmitQuoteRequest(ctx, "client-"+name, domain.Routing{
		DepartureAirport: from,
		ArrivalAirport:   to,
		DepartureTime:    scenarioStart.Add(24 * time.Hour),
	}, 1)
	if err != nil {
		return err
	}
	offer, err := c.quotes.SubmitOffer(ctx, quote.ID, domain.Offer{OperatorUserCode: operator, AircraftID: "N123AB", TotalAmount: 15000})
	if err != nil {
		return err
	}
	booking, err := c.quotes.AcceptOffer(ctx, quote.ID, offer.ID)
	if err != nil {
		return err
	}
	c.bookings[name] = booking
	return nil
}

// When steps

func (c *flightContext) iCreateAFlight(name string, seats int, withReturn string) error {
	booking, ok := c.bookings[name]
	if !ok {
		return fmt.Errorf("unknown booking %q", name)
	}

	data := domain.CreateFlightData{
		AircraftID: "N123AB",
		PrimaryLeg: domain.PrimaryLegSpec{LegSpec: domain.LegSpec{
			DepartureAirport:       booking.Routing.DepartureAirport,
			ArrivalAirport:         booking.Routing.ArrivalAirport,
			ScheduledDepartureTime: scenarioStart.Add(24 * time.Hour),
			ScheduledArrivalTime:   scenarioStart.Add(27 * time.Hour),
			MaxSeats:               seats,
		}},
	}
	if withReturn == "a" {
		data.ReturnLeg = &domain.LegSpec{
			DepartureAirport:       booking.Routing.ArrivalAirport,
			ArrivalAirport:         booking.Routing.DepartureAirport,
			ScheduledDepartureTime: scenarioStart.Add(48 * time.Hour),
			ScheduledArrivalTime:   scenarioStart.Add(51 * time.Hour),
			MaxSeats:               seats,
		}
	}

	flight, err := c.flights.CreateFlightForBooking(context.Background(), booking.ID, data)
	if err != nil {
		return err
	}
	c.flight = flight
	return nil
}

func (c *flightContext) iAddBookingToLeg(name string, leg int) error {
	booking, ok := c.bookings[name]
	if !ok {
		return fmt.Errorf("unknown booking %q", name)
	}
	c.err = c.flights.AddBookingToFlightLeg(context.Background(), c.flight.ID, leg, booking.ID)
	return c.refresh()
}

func (c *flightContext) iSetTheFlightStatus(status string) error {
	c.err = c.flights.UpdateFlightStatus(context.Background(), c.flight.ID, domain.FlightStatus(status))
	return c.refresh()
}

func (c *flightContext) iSetLegStatus(leg int, status string) error {
	c.err = c.flights.UpdateLegStatus(context.Background(), c.flight.ID, leg, domain.LegStatus(status))
	return c.refresh()
}

func (c *flightContext) iLookUpFlightNumber(number string) error {
	c.found, c.err = c.flights.GetFlightByNumber(context.Background(), number)
	return nil
}

func (c *flightContext) refresh() error {
	flight, err := c.flights.GetFlightByID(context.Background(), c.flight.ID)
	if err != nil {
		return err
	}
	c.flight = flight
	return nil
}

// Then steps

func (c *flightContext) theFlightHasLegs(n int) error {
	if c.flight.TotalLegs != n || len(c.flight.Legs) != n {
		return fmt.Errorf("expected %d legs, got %d", n, len(c.flight.Legs))
	}
	return nil
}

func (c *flightContext) legIsOfTypeWithSeats(legNumber int, legType string, seats int) error {
	leg, err := c.flight.Leg(legNumber)
	if err != nil {
		return err
	}
	if string(leg.LegType) != legType {
		return fmt.Errorf("expected leg %d to be %s, got %s", legNumber, legType, leg.LegType)
	}
	if leg.AvailableSeats != seats {
		return fmt.Errorf("expected %d seats available on leg %d, got %d", seats, legNumber, leg.AvailableSeats)
	}
	if leg.AvailableSeats != leg.MaxSeats-len(leg.BookingIDs) {
		return fmt.Errorf("leg %d seat count out of sync with its bookings", legNumber)
	}
	return nil
}

func (c *flightContext) bookingIsLinkedToLeg(name string, legNumber int) error {
	booking, err := c.quotes.GetBooking(context.Background(), c.bookings[name].ID)
	if err != nil {
		return err
	}
	leg, err := c.flight.Leg(legNumber)
	if err != nil {
		return err
	}
	if booking.FlightID == nil || *booking.FlightID != c.flight.ID {
		return fmt.Errorf("booking %s is not linked to flight %s", name, c.flight.ID)
	}
	if booking.FlightDetails == nil || booking.FlightDetails.FlightNumber != leg.FlightNumber {
		return fmt.Errorf("booking %s does not carry flight number %s", name, leg.FlightNumber)
	}
	return nil
}

func (c *flightContext) searchingEmptyLegsFinds(from, to string, n int) error {
	legs, err := c.flights.FindAvailableEmptyLegs(context.Background(), from, to, scenarioStart, scenarioStart.Add(7*24*time.Hour))
	if err != nil {
		return err
	}
	if len(legs) != n {
		return fmt.Errorf("expected %d empty legs, got %d", n, len(legs))
	}
	return nil
}

func (c *flightContext) theOperationFailsWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected error containing %q, got none", message)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *flightContext) noFlightIsFound() error {
	if c.err != nil {
		return c.err
	}
	if c.found != nil {
		return fmt.Errorf("expected no flight, found %s", c.found.Leg.FlightNumber)
	}
	return nil
}

func InitializeScenario(sc *godog.ScenarioContext) {
	c := &flightContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		c.close()
		return ctx, nil
	})

	sc.Step(`^an accepted booking "([^"]*)" for operator "([^"]*)" from "([^"]*)" to "([^"]*)"$`, c.anAcceptedBooking)
	sc.Step(`^I create a flight for booking "([^"]*)" with (\d+) seats and (a|no) return leg$`, c.iCreateAFlight)
	sc.Step(`^I add booking "([^"]*)" to leg (\d+)$`, c.iAddBookingToLeg)
	sc.Step(`^I set the flight status to "([^"]*)"$`, c.iSetTheFlightStatus)
	sc.Step(`^I set leg (\d+) status to "([^"]*)"$`, c.iSetLegStatus)
	sc.Step(`^I look up flight number "([^"]*)"$`, c.iLookUpFlightNumber)
	sc.Step(`^the flight has (\d+) legs$`, c.theFlightHasLegs)
	sc.Step(`^leg (\d+) is an? "([^"]*)" leg with (\d+) seats available$`, c.legIsOfTypeWithSeats)
	sc.Step(`^booking "([^"]*)" is linked to leg (\d+)$`, c.bookingIsLinkedToLeg)
	sc.Step(`^searching empty legs from "([^"]*)" to "([^"]*)" finds (\d+) legs?$`, c.searchingEmptyLegsFinds)
	sc.Step(`^the operation fails with "([^"]*)"$`, c.theOperationFailsWith)
	sc.Step(`^no flight is found$`, c.noFlightIsFound)
}
