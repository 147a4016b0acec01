package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Flight groups the legs flown by one operator and aircraft.
type Flight struct {
	ID                     string       `json:"id"`
	FlightGroupID          string       `json:"flightGroupId"`
	OperatorUserCode       string       `json:"operatorUserCode"`
	AircraftID             string       `json:"aircraftId"`
	Legs                   []FlightLeg  `json:"legs"`
	TotalLegs              int          `json:"totalLegs"`
	Status                 FlightStatus `json:"status"`
	PrimaryBookingID       string       `json:"primaryBookingId"`
	OriginalQuoteRequestID string       `json:"originalQuoteRequestId,omitempty"`
	Version                int          `json:"version"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

// ScheduledLeg pairs a leg with the flight that owns it.
type ScheduledLeg struct {
	Flight *Flight    `json:"flight"`
	Leg    *FlightLeg `json:"leg"`
}

// LegSpec describes a leg to be scheduled.
type LegSpec struct {
	DepartureAirport       string    `json:"departureAirport"`
	ArrivalAirport         string    `json:"arrivalAirport"`
	DepartureAirportName   string    `json:"departureAirportName,omitempty"`
	ArrivalAirportName     string    `json:"arrivalAirportName,omitempty"`
	ScheduledDepartureTime time.Time `json:"scheduledDepartureTime"`
	ScheduledArrivalTime   time.Time `json:"scheduledArrivalTime"`
	MaxSeats               int       `json:"maxSeats"`
}

type PrimaryLegSpec struct {
	LegSpec
	BookingIDs []string `json:"bookingIds"`
}

// CreateFlightData is what a caller supplies to turn a booking into a flight.
type CreateFlightData struct {
	OperatorUserCode string         `json:"operatorUserCode"`
	AircraftID       string         `json:"aircraftId"`
	PrimaryLeg       PrimaryLegSpec `json:"primaryLeg"`
	ReturnLeg        *LegSpec       `json:"returnLeg,omitempty"`
}

func (s LegSpec) validate(name string) error {
	if strings.TrimSpace(s.DepartureAirport) == "" || strings.TrimSpace(s.ArrivalAirport) == "" {
		return fmt.Errorf("%w: %s leg requires departure and arrival airports", ErrInvalidFlightData, name)
	}
	if s.MaxSeats <= 0 {
		return fmt.Errorf("%w: %s leg max seats must be positive", ErrInvalidFlightData, name)
	}
	if s.ScheduledDepartureTime.IsZero() || !s.ScheduledArrivalTime.After(s.ScheduledDepartureTime) {
		return fmt.Errorf("%w: %s leg must arrive after it departs", ErrInvalidFlightData, name)
	}
	return nil
}

func (d CreateFlightData) Validate() error {
	if strings.TrimSpace(d.AircraftID) == "" {
		return fmt.Errorf("%w: aircraft id is required", ErrInvalidFlightData)
	}
	if err := d.PrimaryLeg.validate("primary"); err != nil {
		return err
	}
	if d.ReturnLeg != nil {
		if err := d.ReturnLeg.validate("return"); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeAirportCode trims and upper-cases an airport code.
func NormalizeAirportCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewFlightFromBooking builds a scheduled flight for booking. Leg 1 carries the
// primary bookings, the optional leg 2 is an empty leg with every seat free.
func NewFlightFromBooking(id, flightGroupID string, booking *Booking, data CreateFlightData, now time.Time) (*Flight, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	operator := data.OperatorUserCode
	if operator == "" {
		operator = booking.OperatorUserCode
	}

	bookingIDs := primaryBookingIDs(booking.ID, data.PrimaryLeg.BookingIDs)
	if len(bookingIDs) > data.PrimaryLeg.MaxSeats {
		return nil, fmt.Errorf("%w: %d bookings exceed %d seats", ErrInvalidFlightData, len(bookingIDs), data.PrimaryLeg.MaxSeats)
	}

	primary := newLeg(flightGroupID, 1, data.PrimaryLeg.LegSpec, now)
	primary.LegType = LegTypePassenger
	primary.Status = LegBooked
	primary.BookingIDs = bookingIDs
	primary.AvailableSeats = primary.MaxSeats - len(bookingIDs)

	legs := []FlightLeg{primary}
	if data.ReturnLeg != nil {
		ret := newLeg(flightGroupID, 2, *data.ReturnLeg, now)
		ret.LegType = LegTypeEmpty
		ret.Status = LegAvailable
		legs = append(legs, ret)
	}

	return &Flight{
		ID:                     id,
		FlightGroupID:          flightGroupID,
		OperatorUserCode:       operator,
		AircraftID:             data.AircraftID,
		Legs:                   legs,
		TotalLegs:              len(legs),
		Status:                 FlightScheduled,
		PrimaryBookingID:       booking.ID,
		OriginalQuoteRequestID: booking.QuoteRequestID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

func newLeg(flightGroupID string, legNumber int, spec LegSpec, now time.Time) FlightLeg {
	return FlightLeg{
		LegNumber:              legNumber,
		FlightNumber:           GenerateFlightNumber(flightGroupID, legNumber),
		DepartureAirport:       NormalizeAirportCode(spec.DepartureAirport),
		ArrivalAirport:         NormalizeAirportCode(spec.ArrivalAirport),
		DepartureAirportName:   spec.DepartureAirportName,
		ArrivalAirportName:     spec.ArrivalAirportName,
		ScheduledDepartureTime: spec.ScheduledDepartureTime.UTC(),
		ScheduledArrivalTime:   spec.ScheduledArrivalTime.UTC(),
		BookingIDs:             []string{},
		MaxSeats:               spec.MaxSeats,
		AvailableSeats:         spec.MaxSeats,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// primaryBookingIDs de-duplicates ids, keeping order, and makes sure the
// originating booking is present.
func primaryBookingIDs(originID string, ids []string) []string {
	seen := make(map[string]bool, len(ids)+1)
	out := make([]string, 0, len(ids)+1)
	if !slices.Contains(ids, originID) {
		out = append(out, originID)
		seen[originID] = true
	}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Leg returns a pointer into Legs so callers can mutate it in place.
func (f *Flight) Leg(legNumber int) (*FlightLeg, error) {
	for i := range f.Legs {
		if f.Legs[i].LegNumber == legNumber {
			return &f.Legs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: flight %s has no leg %d", ErrLegNotFound, f.ID, legNumber)
}

// AddBooking attaches bookingID to the given leg. Bookings are only accepted
// while the flight is still scheduled.
func (f *Flight) AddBooking(legNumber int, bookingID string, now time.Time) (*FlightLeg, error) {
	leg, err := f.Leg(legNumber)
	if err != nil {
		return nil, err
	}
	if f.Status != FlightScheduled {
		return nil, fmt.Errorf("%w: flight %s is %s", ErrLegNotBookable, f.ID, f.Status)
	}
	if err := leg.AddBooking(bookingID, now); err != nil {
		return nil, err
	}
	f.touch(now)
	return leg, nil
}

func (f *Flight) TransitionTo(next FlightStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: flight status %q", ErrInvalidStatus, next)
	}
	if !f.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: flight %s %s -> %s", ErrInvalidTransition, f.ID, f.Status, next)
	}
	f.Status = next
	f.touch(now)
	return nil
}

// MatchEmptyLegs returns the open empty legs flying dep -> arr with a
// scheduled departure inside [start, end].
func (f *Flight) MatchEmptyLegs(dep, arr string, start, end time.Time) []FlightLeg {
	var matches []FlightLeg
	for _, leg := range f.Legs {
		if !leg.IsOpenEmptyLeg() {
			continue
		}
		if leg.DepartureAirport != dep || leg.ArrivalAirport != arr {
			continue
		}
		if leg.ScheduledDepartureTime.Before(start) || leg.ScheduledDepartureTime.After(end) {
			continue
		}
		matches = append(matches, leg)
	}
	return matches
}

func (f *Flight) touch(now time.Time) {
	if now.After(f.UpdatedAt) {
		f.UpdatedAt = now
	}
}

// UpdateLegStatus moves one leg through the leg state machine.
func (f *Flight) UpdateLegStatus(legNumber int, next LegStatus, now time.Time) (*FlightLeg, error) {
	leg, err := f.Leg(legNumber)
	if err != nil {
		return nil, err
	}
	if err := leg.TransitionTo(next, now); err != nil {
		return nil, err
	}
	f.touch(now)
	return leg, nil
}

// RecordActualTimes applies the departure first and the arrival last, so a
// call carrying both ends with the leg completed.
func (f *Flight) RecordActualTimes(legNumber int, departure, arrival *time.Time, now time.Time) (*FlightLeg, error) {
	if departure == nil && arrival == nil {
		return nil, fmt.Errorf("%w: no actual times supplied", ErrInvalidFlightData)
	}
	leg, err := f.Leg(legNumber)
	if err != nil {
		return nil, err
	}
	if departure != nil {
		if err := leg.RecordDeparture(*departure, now); err != nil {
			return nil, err
		}
	}
	if arrival != nil {
		if err := leg.RecordArrival(*arrival, now); err != nil {
			return nil, err
		}
	}
	f.touch(now)
	return leg, nil
}
