package domain

import "errors"

var (
	ErrFlightNotFound       = errors.New("flight not found")
	ErrLegNotFound          = errors.New("leg not found")
	ErrNoAvailableSeats     = errors.New("no available seats")
	ErrLegNotBookable       = errors.New("leg is not open for bookings")
	ErrDuplicateBooking     = errors.New("booking already attached to leg")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidFlightData    = errors.New("invalid flight data")
	ErrInvalidOperatorCode  = errors.New("invalid operator code")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrConcurrentUpdate     = errors.New("flight was modified concurrently, try again")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingAlreadyLinked = errors.New("booking already linked to another flight")
	ErrQuoteRequestNotFound = errors.New("quote request not found")
	ErrOfferNotFound        = errors.New("offer not found")
	ErrQuoteNotOpen         = errors.New("quote request is no longer open")
	ErrInvalidQuoteData     = errors.New("invalid quote data")
)
