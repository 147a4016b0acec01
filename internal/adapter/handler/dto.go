package handler

import (
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
)

type legRequest struct {
	DepartureAirport       string    `json:"departureAirport" validate:"required,alphanum,min=3,max=4"`
	ArrivalAirport         string    `json:"arrivalAirport" validate:"required,alphanum,min=3,max=4"`
	DepartureAirportName   string    `json:"departureAirportName"`
	ArrivalAirportName     string    `json:"arrivalAirportName"`
	ScheduledDepartureTime time.Time `json:"scheduledDepartureTime" validate:"required"`
	ScheduledArrivalTime   time.Time `json:"scheduledArrivalTime" validate:"required"`
	MaxSeats               int       `json:"maxSeats" validate:"required,min=1"`
}

func (l legRequest) toSpec() domain.LegSpec {
	return domain.LegSpec{
		DepartureAirport:       l.DepartureAirport,
		ArrivalAirport:         l.ArrivalAirport,
		DepartureAirportName:   l.DepartureAirportName,
		ArrivalAirportName:     l.ArrivalAirportName,
		ScheduledDepartureTime: l.ScheduledDepartureTime,
		ScheduledArrivalTime:   l.ScheduledArrivalTime,
		MaxSeats:               l.MaxSeats,
	}
}

type primaryLegRequest struct {
	legRequest
	BookingIDs []string `json:"bookingIds" validate:"omitempty,dive,required"`
}

type createFlightRequest struct {
	OperatorUserCode string            `json:"operatorUserCode"`
	AircraftID       string            `json:"aircraftId" validate:"required"`
	PrimaryLeg       primaryLegRequest `json:"primaryLeg"`
	ReturnLeg        *legRequest       `json:"returnLeg"`
}

func (c createFlightRequest) toData() domain.CreateFlightData {
	data := domain.CreateFlightData{
		OperatorUserCode: c.OperatorUserCode,
		AircraftID:       c.AircraftID,
		PrimaryLeg: domain.PrimaryLegSpec{
			LegSpec:    c.PrimaryLeg.toSpec(),
			BookingIDs: c.PrimaryLeg.BookingIDs,
		},
	}
	if c.ReturnLeg != nil {
		spec := c.ReturnLeg.toSpec()
		data.ReturnLeg = &spec
	}
	return data
}

type addBookingRequest struct {
	BookingID string `json:"bookingId" validate:"required"`
}

type flightStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type legStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type actualTimesRequest struct {
	ActualDepartureTime *time.Time `json:"actualDepartureTime" validate:"required_without=ActualArrivalTime"`
	ActualArrivalTime   *time.Time `json:"actualArrivalTime" validate:"required_without=ActualDepartureTime"`
}

type routingRequest struct {
	DepartureAirport string     `json:"departureAirport" validate:"required,alphanum,min=3,max=4"`
	ArrivalAirport   string     `json:"arrivalAirport" validate:"required,alphanum,min=3,max=4"`
	DepartureTime    time.Time  `json:"departureTime" validate:"required"`
	ReturnTime       *time.Time `json:"returnTime"`
}

type quoteRequestRequest struct {
	ClientID   string         `json:"clientId" validate:"required"`
	Routing    routingRequest `json:"routing"`
	Passengers int            `json:"passengers" validate:"required,min=1"`
}

type offerRequest struct {
	OperatorUserCode string  `json:"operatorUserCode" validate:"required"`
	AircraftID       string  `json:"aircraftId" validate:"required"`
	TotalAmount      float64 `json:"totalAmount" validate:"required,gt=0"`
	Currency         string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}
