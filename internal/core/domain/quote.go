package domain

import (
	"fmt"
	"strings"
	"time"
)

type QuoteStatus string

const (
	QuoteOpen      QuoteStatus = "open"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteCancelled QuoteStatus = "cancelled"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// QuoteRequest is a client's request for charter offers on a route.
type QuoteRequest struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	Routing    Routing     `json:"routing"`
	Passengers int         `json:"passengers"`
	Status     QuoteStatus `json:"status"`
	Offers     []Offer     `json:"offers"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Offer is an operator's priced answer to a quote request.
type Offer struct {
	ID               string      `json:"id"`
	QuoteRequestID   string      `json:"quoteRequestId"`
	OperatorUserCode string      `json:"operatorUserCode"`
	AircraftID       string      `json:"aircraftId"`
	TotalAmount      float64     `json:"totalAmount"`
	Currency         string      `json:"currency"`
	Status           OfferStatus `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
}

func (q *QuoteRequest) Validate() error {
	if strings.TrimSpace(q.ClientID) == "" {
		return fmt.Errorf("%w: client id is required", ErrInvalidQuoteData)
	}
	if q.Routing.DepartureAirport == "" || q.Routing.ArrivalAirport == "" {
		return fmt.Errorf("%w: routing requires departure and arrival airports", ErrInvalidQuoteData)
	}
	if q.Routing.DepartureTime.IsZero() {
		return fmt.Errorf("%w: departure time is required", ErrInvalidQuoteData)
	}
	if q.Passengers <= 0 {
		return fmt.Errorf("%w: passengers must be positive", ErrInvalidQuoteData)
	}
	return nil
}

func (q *QuoteRequest) IsOpen() bool {
	return q.Status == QuoteOpen
}

func (q *QuoteRequest) Offer(offerID string) (*Offer, error) {
	for i := range q.Offers {
		if q.Offers[i].ID == offerID {
			return &q.Offers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOfferNotFound, offerID)
}

func (o *Offer) Validate() error {
	if NormalizeOperatorCode(o.OperatorUserCode) == "" {
		return fmt.Errorf("%w: operator code is required", ErrInvalidQuoteData)
	}
	if strings.TrimSpace(o.AircraftID) == "" {
		return fmt.Errorf("%w: aircraft id is required", ErrInvalidQuoteData)
	}
	if o.TotalAmount <= 0 {
		return fmt.Errorf("%w: offer amount must be positive", ErrInvalidQuoteData)
	}
	return nil
}

// NewBookingFromOffer builds the booking that results from the client
// accepting offer on quote.
func NewBookingFromOffer(id string, quote *QuoteRequest, offer *Offer, now time.Time) *Booking {
	return &Booking{
		ID:               id,
		ClientID:         quote.ClientID,
		OperatorUserCode: offer.OperatorUserCode,
		QuoteRequestID:   quote.ID,
		OfferID:          offer.ID,
		Routing:          quote.Routing,
		Passengers:       quote.Passengers,
		TotalAmount:      offer.TotalAmount,
		Currency:         offer.Currency,
		Status:           BookingConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
