package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Routing struct {
	DepartureAirport string     `json:"departureAirport"`
	ArrivalAirport   string     `json:"arrivalAirport"`
	DepartureTime    time.Time  `json:"departureTime"`
	ReturnTime       *time.Time `json:"returnTime,omitempty"`
}

type FlightDetails struct {
	FlightNumber string `json:"flightNumber"`
}

// Booking is the canonical booking shape seen by the flight core.
type Booking struct {
	ID               string         `json:"id"`
	ClientID         string         `json:"clientId"`
	OperatorUserCode string         `json:"operatorUserCode"`
	QuoteRequestID   string         `json:"quoteRequestId,omitempty"`
	OfferID          string         `json:"offerId,omitempty"`
	Routing          Routing        `json:"routing"`
	Passengers       int            `json:"passengers"`
	TotalAmount      float64        `json:"totalAmount"`
	Currency         string         `json:"currency"`
	Status           BookingStatus  `json:"status"`
	FlightID         *string        `json:"flightId,omitempty"`
	FlightDetails    *FlightDetails `json:"flightDetails,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type bookingAlias Booking

// UnmarshalJSON accepts the operator code either at the top level or nested
// under "operator", as older clients send it.
func (b *Booking) UnmarshalJSON(data []byte) error {
	var raw struct {
		bookingAlias
		Operator *struct {
			OperatorUserCode string `json:"operatorUserCode"`
		} `json:"operator,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = Booking(raw.bookingAlias)
	if b.OperatorUserCode == "" && raw.Operator != nil {
		b.OperatorUserCode = raw.Operator.OperatorUserCode
	}
	return nil
}

// IsLinked reports whether the booking already belongs to a flight.
func (b *Booking) IsLinked() bool {
	return b.FlightID != nil && *b.FlightID != ""
}

// CanLinkTo reports whether the booking may reference flightID.
func (b *Booking) CanLinkTo(flightID string) bool {
	return !b.IsLinked() || *b.FlightID == flightID
}

// BookingLink is the back-reference written to a booking when it is placed on a flight leg.
type BookingLink struct {
	BookingID    string
	FlightID     string
	FlightNumber string
}
