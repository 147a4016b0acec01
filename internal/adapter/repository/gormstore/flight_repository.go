package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FlightRepository struct {
	db *gorm.DB
}

var _ ports.FlightRepository = (*FlightRepository)(nil)

func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) Create(ctx context.Context, flight *domain.Flight, links ...domain.BookingLink) error {
	model, err := flightToModel(flight)
	if err != nil {
		return err
	}
	model.Version = 1

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert flight: %w", err)
		}
		return linkBookings(tx, flight.UpdatedAt, links...)
	})
	if err != nil {
		return err
	}

	flight.Version = 1
	return nil
}

func (r *FlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	var model FlightModel
	err := r.db.WithContext(ctx).Where("id = ?", flightID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlightNotFound, flightID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}
	return modelToFlight(&model)
}

func (r *FlightRepository) GetByGroupID(ctx context.Context, flightGroupID string) (*domain.Flight, error) {
	var model FlightModel
	err := r.db.WithContext(ctx).Where("flight_group_id = ?", flightGroupID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: group %s", domain.ErrFlightNotFound, flightGroupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}
	return modelToFlight(&model)
}

func (r *FlightRepository) ListByOperator(ctx context.Context, operatorUserCode string) ([]domain.Flight, error) {
	return r.find(r.db.WithContext(ctx).Where("operator_user_code = ?", operatorUserCode).Order("created_at DESC"))
}

func (r *FlightRepository) ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at"))
}

func (r *FlightRepository) ListAll(ctx context.Context) ([]domain.Flight, error) {
	return r.find(r.db.WithContext(ctx).Order("created_at DESC"))
}

func (r *FlightRepository) find(query *gorm.DB) ([]domain.Flight, error) {
	var models []FlightModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	flights := make([]domain.Flight, 0, len(models))
	for i := range models {
		flight, err := modelToFlight(&models[i])
		if err != nil {
			return nil, err
		}
		flights = append(flights, *flight)
	}
	return flights, nil
}

func (r *FlightRepository) Update(ctx context.Context, flight *domain.Flight, expectedVersion int, links ...domain.BookingLink) error {
	legs, err := json.Marshal(flight.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&FlightModel{}).
			Where("id = ? AND version = ?", flight.ID, expectedVersion).
			Updates(map[string]any{
				"legs":       datatypes.JSON(legs),
				"total_legs": flight.TotalLegs,
				"status":     string(flight.Status),
				"updated_at": flight.UpdatedAt,
				"version":    gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update flight: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&FlightModel{}).Where("id = ?", flight.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", domain.ErrFlightNotFound, flight.ID)
			}
			return ports.ErrVersionConflict
		}

		return linkBookings(tx, flight.UpdatedAt, links...)
	})
	if err != nil {
		return err
	}

	flight.Version = expectedVersion + 1
	return nil
}

// linkBookings must run on the transaction handle of the flight write.
func linkBookings(tx *gorm.DB, now time.Time, links ...domain.BookingLink) error {
	for _, link := range links {
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND (flight_id IS NULL OR flight_id = ?)", link.BookingID, link.FlightID).
			Updates(map[string]any{
				"flight_id":     link.FlightID,
				"flight_number": link.FlightNumber,
				"updated_at":    now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to link booking %s: %w", link.BookingID, result.Error)
		}
		if result.RowsAffected > 0 {
			continue
		}

		var count int64
		if err := tx.Model(&BookingModel{}).Where("id = ?", link.BookingID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, link.BookingID)
		}
		return fmt.Errorf("%w: %s", domain.ErrBookingAlreadyLinked, link.BookingID)
	}
	return nil
}

func flightToModel(f *domain.Flight) (*FlightModel, error) {
	legs, err := json.Marshal(f.Legs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode legs: %w", err)
	}
	return &FlightModel{
		ID:                     f.ID,
		FlightGroupID:          f.FlightGroupID,
		OperatorUserCode:       f.OperatorUserCode,
		AircraftID:             f.AircraftID,
		Legs:                   datatypes.JSON(legs),
		TotalLegs:              f.TotalLegs,
		Status:                 string(f.Status),
		PrimaryBookingID:       f.PrimaryBookingID,
		OriginalQuoteRequestID: optional(f.OriginalQuoteRequestID),
		Version:                f.Version,
		CreatedAt:              f.CreatedAt,
		UpdatedAt:              f.UpdatedAt,
	}, nil
}

func modelToFlight(m *FlightModel) (*domain.Flight, error) {
	var legs []domain.FlightLeg
	if err := json.Unmarshal(m.Legs, &legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs of flight %s: %w", m.ID, err)
	}
	return &domain.Flight{
		ID:                     m.ID,
		FlightGroupID:          m.FlightGroupID,
		OperatorUserCode:       m.OperatorUserCode,
		AircraftID:             m.AircraftID,
		Legs:                   legs,
		TotalLegs:              m.TotalLegs,
		Status:                 domain.FlightStatus(m.Status),
		PrimaryBookingID:       m.PrimaryBookingID,
		OriginalQuoteRequestID: deref(m.OriginalQuoteRequestID),
		Version:                m.Version,
		CreatedAt:              m.CreatedAt.UTC(),
		UpdatedAt:              m.UpdatedAt.UTC(),
	}, nil
}
