package domain

import "fmt"

type FlightStatus string

const (
	FlightScheduled  FlightStatus = "scheduled"
	FlightInProgress FlightStatus = "in-progress"
	FlightCompleted  FlightStatus = "completed"
	FlightCancelled  FlightStatus = "cancelled"
)

type LegStatus string

const (
	LegAvailable  LegStatus = "available"
	LegBooked     LegStatus = "booked"
	LegInProgress LegStatus = "in-progress"
	LegCompleted  LegStatus = "completed"
	LegCancelled  LegStatus = "cancelled"
)

type LegType string

const (
	LegTypePassenger LegType = "passenger"
	LegTypeEmpty     LegType = "empty"
)

// Allowed transitions. Terminal states map to an empty set.
var flightTransitions = map[FlightStatus][]FlightStatus{
	FlightScheduled:  {FlightInProgress, FlightCancelled},
	FlightInProgress: {FlightCompleted, FlightCancelled},
	FlightCompleted:  {},
	FlightCancelled:  {},
}

// A leg only becomes booked through AddBooking, never by a status update.
var legTransitions = map[LegStatus][]LegStatus{
	LegAvailable:  {LegInProgress, LegCancelled},
	LegBooked:     {LegInProgress, LegCancelled},
	LegInProgress: {LegCompleted, LegCancelled},
	LegCompleted:  {},
	LegCancelled:  {},
}

func (s FlightStatus) IsValid() bool {
	_, ok := flightTransitions[s]
	return ok
}

func (s FlightStatus) IsTerminal() bool {
	return s == FlightCompleted || s == FlightCancelled
}

// CanTransitionTo reports whether s may move to next. Staying in the same
// state is always allowed.
func (s FlightStatus) CanTransitionTo(next FlightStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range flightTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s LegStatus) IsValid() bool {
	_, ok := legTransitions[s]
	return ok
}

func (s LegStatus) IsTerminal() bool {
	return s == LegCompleted || s == LegCancelled
}

// IsBookable reports whether bookings may still be attached to a leg in this state.
func (s LegStatus) IsBookable() bool {
	return s == LegAvailable || s == LegBooked
}

func (s LegStatus) CanTransitionTo(next LegStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range legTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (t LegType) IsValid() bool {
	return t == LegTypePassenger || t == LegTypeEmpty
}

func ParseFlightStatus(s string) (FlightStatus, error) {
	status := FlightStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: flight status %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func ParseLegStatus(s string) (LegStatus, error) {
	status := LegStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: leg status %q", ErrInvalidStatus, s)
	}
	return status, nil
}
