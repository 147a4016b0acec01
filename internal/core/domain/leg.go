package domain

import (
	"fmt"
	"slices"
	"time"
)

// FlightLeg is one scheduled segment of a flight.
type FlightLeg struct {
	LegNumber              int        `json:"legNumber"`
	FlightNumber           string     `json:"flightNumber"`
	LegType                LegType    `json:"legType"`
	Status                 LegStatus  `json:"status"`
	DepartureAirport       string     `json:"departureAirport"`
	ArrivalAirport         string     `json:"arrivalAirport"`
	DepartureAirportName   string     `json:"departureAirportName,omitempty"`
	ArrivalAirportName     string     `json:"arrivalAirportName,omitempty"`
	ScheduledDepartureTime time.Time  `json:"scheduledDepartureTime"`
	ScheduledArrivalTime   time.Time  `json:"scheduledArrivalTime"`
	ActualDepartureTime    *time.Time `json:"actualDepartureTime,omitempty"`
	ActualArrivalTime      *time.Time `json:"actualArrivalTime,omitempty"`
	BookingIDs             []string   `json:"bookingIds"`
	MaxSeats               int        `json:"maxSeats"`
	AvailableSeats         int        `json:"availableSeats"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func (l *FlightLeg) HasAvailableSeats() bool {
	return l.AvailableSeats > 0
}

func (l *FlightLeg) HasBooking(bookingID string) bool {
	return slices.Contains(l.BookingIDs, bookingID)
}

// IsOpenEmptyLeg reports whether the leg can be sold as an empty leg.
func (l *FlightLeg) IsOpenEmptyLeg() bool {
	return l.LegType == LegTypeEmpty && l.Status == LegAvailable && l.HasAvailableSeats()
}

// AddBooking attaches a booking and takes one seat. An empty leg becomes a
// passenger leg with its first booking, and an available leg becomes booked.
// On error the leg is left untouched.
func (l *FlightLeg) AddBooking(bookingID string, now time.Time) error {
	if !l.Status.IsBookable() {
		return fmt.Errorf("%w: leg %d is %s", ErrLegNotBookable, l.LegNumber, l.Status)
	}
	if l.HasBooking(bookingID) {
		return fmt.Errorf("%w: %s on leg %d", ErrDuplicateBooking, bookingID, l.LegNumber)
	}
	if !l.HasAvailableSeats() {
		return fmt.Errorf("%w: leg %d", ErrNoAvailableSeats, l.LegNumber)
	}

	if l.LegType == LegTypeEmpty && len(l.BookingIDs) == 0 {
		l.LegType = LegTypePassenger
	}
	if l.Status == LegAvailable {
		l.Status = LegBooked
	}
	l.BookingIDs = append(l.BookingIDs, bookingID)
	l.AvailableSeats = l.MaxSeats - len(l.BookingIDs)
	l.touch(now)
	return nil
}

func (l *FlightLeg) TransitionTo(next LegStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: leg status %q", ErrInvalidStatus, next)
	}
	if !l.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: leg %d %s -> %s", ErrInvalidTransition, l.LegNumber, l.Status, next)
	}
	l.Status = next
	l.touch(now)
	return nil
}

// RecordDeparture stores the actual departure time and moves the leg in-progress.
func (l *FlightLeg) RecordDeparture(at time.Time, now time.Time) error {
	if err := l.TransitionTo(LegInProgress, now); err != nil {
		return err
	}
	at = at.UTC()
	l.ActualDepartureTime = &at
	return nil
}

// RecordArrival stores the actual arrival time and completes the leg. A leg
// whose departure was never recorded passes through in-progress first.
func (l *FlightLeg) RecordArrival(at time.Time, now time.Time) error {
	if l.Status != LegInProgress && l.Status != LegCompleted {
		if err := l.TransitionTo(LegInProgress, now); err != nil {
			return err
		}
	}
	if err := l.TransitionTo(LegCompleted, now); err != nil {
		return err
	}
	at = at.UTC()
	l.ActualArrivalTime = &at
	return nil
}

func (l *FlightLeg) touch(now time.Time) {
	if now.After(l.UpdatedAt) {
		l.UpdatedAt = now
	}
}
