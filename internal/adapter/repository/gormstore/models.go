package gormstore

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FlightModel stores a flight with its legs as one JSON document.
type FlightModel struct {
	ID                     string         `gorm:"column:id;primaryKey"`
	FlightGroupID          string         `gorm:"column:flight_group_id;uniqueIndex;not null"`
	OperatorUserCode       string         `gorm:"column:operator_user_code;index;not null"`
	AircraftID             string         `gorm:"column:aircraft_id;not null"`
	Legs                   datatypes.JSON `gorm:"column:legs;not null"`
	TotalLegs              int            `gorm:"column:total_legs;not null"`
	Status                 string         `gorm:"column:status;index;not null"`
	PrimaryBookingID       string         `gorm:"column:primary_booking_id;not null"`
	OriginalQuoteRequestID *string        `gorm:"column:original_quote_request_id"`
	Version                int            `gorm:"column:version;not null;default:1"`
	CreatedAt              time.Time      `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt              time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (FlightModel) TableName() string {
	return "flights"
}

type BookingModel struct {
	ID               string         `gorm:"column:id;primaryKey"`
	ClientID         string         `gorm:"column:client_id;not null"`
	OperatorUserCode string         `gorm:"column:operator_user_code"`
	QuoteRequestID   *string        `gorm:"column:quote_request_id"`
	OfferID          *string        `gorm:"column:offer_id;uniqueIndex"`
	Routing          datatypes.JSON `gorm:"column:routing"`
	Passengers       int            `gorm:"column:passengers"`
	TotalAmount      float64        `gorm:"column:total_amount"`
	Currency         string         `gorm:"column:currency"`
	Status           string         `gorm:"column:status;not null"`
	FlightID         *string        `gorm:"column:flight_id;index"`
	FlightNumber     *string        `gorm:"column:flight_number"`
	CreatedAt        time.Time      `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (BookingModel) TableName() string {
	return "bookings"
}

type QuoteRequestModel struct {
	ID         string         `gorm:"column:id;primaryKey"`
	ClientID   string         `gorm:"column:client_id;not null"`
	Routing    datatypes.JSON `gorm:"column:routing;not null"`
	Passengers int            `gorm:"column:passengers;not null"`
	Status     string         `gorm:"column:status;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (QuoteRequestModel) TableName() string {
	return "quote_requests"
}

type OfferModel struct {
	ID               string    `gorm:"column:id;primaryKey"`
	QuoteRequestID   string    `gorm:"column:quote_request_id;index;not null"`
	OperatorUserCode string    `gorm:"column:operator_user_code;not null"`
	AircraftID       string    `gorm:"column:aircraft_id;not null"`
	TotalAmount      float64   `gorm:"column:total_amount;not null"`
	Currency         string    `gorm:"column:currency;not null"`
	Status           string    `gorm:"column:status;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (OfferModel) TableName() string {
	return "offers"
}

// AutoMigrate creates or updates every table used by the gorm store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&FlightModel{},
		&BookingModel{},
		&QuoteRequestModel{},
		&OfferModel{},
	)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
