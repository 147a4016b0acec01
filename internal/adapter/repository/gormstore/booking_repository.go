package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	model, err := bookingToModel(booking)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).Where("id = ?", bookingID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return modelToBooking(&model)
}

func bookingToModel(b *domain.Booking) (*BookingModel, error) {
	routing, err := json.Marshal(b.Routing)
	if err != nil {
		return nil, fmt.Errorf("failed to encode routing: %w", err)
	}

	model := &BookingModel{
		ID:               b.ID,
		ClientID:         b.ClientID,
		OperatorUserCode: b.OperatorUserCode,
		QuoteRequestID:   optional(b.QuoteRequestID),
		OfferID:          optional(b.OfferID),
		Routing:          datatypes.JSON(routing),
		Passengers:       b.Passengers,
		TotalAmount:      b.TotalAmount,
		Currency:         b.Currency,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.FlightID != nil {
		model.FlightID = optional(*b.FlightID)
	}
	if b.FlightDetails != nil {
		model.FlightNumber = optional(b.FlightDetails.FlightNumber)
	}
	return model, nil
}

func modelToBooking(m *BookingModel) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:               m.ID,
		ClientID:         m.ClientID,
		OperatorUserCode: m.OperatorUserCode,
		QuoteRequestID:   deref(m.QuoteRequestID),
		OfferID:          deref(m.OfferID),
		Passengers:       m.Passengers,
		TotalAmount:      m.TotalAmount,
		Currency:         m.Currency,
		Status:           domain.BookingStatus(m.Status),
		FlightID:         m.FlightID,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
	if len(m.Routing) > 0 {
		if err := json.Unmarshal(m.Routing, &booking.Routing); err != nil {
			return nil, fmt.Errorf("failed to decode routing of booking %s: %w", m.ID, err)
		}
	}
	if m.FlightNumber != nil {
		booking.FlightDetails = &domain.FlightDetails{FlightNumber: *m.FlightNumber}
	}
	return booking, nil
}
