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

type QuoteRepository struct {
	db *gorm.DB
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) CreateQuoteRequest(ctx context.Context, quote *domain.QuoteRequest) error {
	routing, err := json.Marshal(quote.Routing)
	if err != nil {
		return fmt.Errorf("failed to encode routing: %w", err)
	}

	model := &QuoteRequestModel{
		ID:         quote.ID,
		ClientID:   quote.ClientID,
		Routing:    datatypes.JSON(routing),
		Passengers: quote.Passengers,
		Status:     string(quote.Status),
		CreatedAt:  quote.CreatedAt,
		UpdatedAt:  quote.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert quote request: %w", err)
	}
	return nil
}

func (r *QuoteRepository) GetQuoteRequest(ctx context.Context, quoteRequestID string) (*domain.QuoteRequest, error) {
	var model QuoteRequestModel
	err := r.db.WithContext(ctx).Where("id = ?", quoteRequestID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteRequestNotFound, quoteRequestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quote request: %w", err)
	}

	var offers []OfferModel
	if err := r.db.WithContext(ctx).Where("quote_request_id = ?", model.ID).Order("created_at").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}

	quote := &domain.QuoteRequest{
		ID:         model.ID,
		ClientID:   model.ClientID,
		Passengers: model.Passengers,
		Status:     domain.QuoteStatus(model.Status),
		Offers:     make([]domain.Offer, 0, len(offers)),
		CreatedAt:  model.CreatedAt.UTC(),
		UpdatedAt:  model.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal(model.Routing, &quote.Routing); err != nil {
		return nil, fmt.Errorf("failed to decode routing of quote request %s: %w", model.ID, err)
	}
	for _, o := range offers {
		quote.Offers = append(quote.Offers, domain.Offer{
			ID:               o.ID,
			QuoteRequestID:   o.QuoteRequestID,
			OperatorUserCode: o.OperatorUserCode,
			AircraftID:       o.AircraftID,
			TotalAmount:      o.TotalAmount,
			Currency:         o.Currency,
			Status:           domain.OfferStatus(o.Status),
			CreatedAt:        o.CreatedAt.UTC(),
		})
	}
	return quote, nil
}

func (r *QuoteRepository) AddOffer(ctx context.Context, offer *domain.Offer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&QuoteRequestModel{}).
			Where("id = ? AND status = ?", offer.QuoteRequestID, string(domain.QuoteOpen)).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", domain.ErrQuoteNotOpen, offer.QuoteRequestID)
		}

		model := &OfferModel{
			ID:               offer.ID,
			QuoteRequestID:   offer.QuoteRequestID,
			OperatorUserCode: offer.OperatorUserCode,
			AircraftID:       offer.AircraftID,
			TotalAmount:      offer.TotalAmount,
			Currency:         offer.Currency,
			Status:           string(offer.Status),
			CreatedAt:        offer.CreatedAt,
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert offer: %w", err)
		}
		return nil
	})
}

func (r *QuoteRepository) AcceptOffer(ctx context.Context, quoteRequestID, offerID string, booking *domain.Booking, now time.Time) error {
	model, err := bookingToModel(booking)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&QuoteRequestModel{}).
			Where("id = ? AND status = ?", quoteRequestID, string(domain.QuoteOpen)).
			Updates(map[string]any{"status": string(domain.QuoteAccepted), "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&QuoteRequestModel{}).Where("id = ?", quoteRequestID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", domain.ErrQuoteRequestNotFound, quoteRequestID)
			}
			return fmt.Errorf("%w: %s", domain.ErrQuoteNotOpen, quoteRequestID)
		}

		result = tx.Model(&OfferModel{}).
			Where("id = ? AND quote_request_id = ? AND status = ?", offerID, quoteRequestID, string(domain.OfferPending)).
			Update("status", string(domain.OfferAccepted))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
		}

		err := tx.Model(&OfferModel{}).
			Where("quote_request_id = ? AND id <> ? AND status = ?", quoteRequestID, offerID, string(domain.OfferPending)).
			Update("status", string(domain.OfferRejected)).Error
		if err != nil {
			return err
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
}
