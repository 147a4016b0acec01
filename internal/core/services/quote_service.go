package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

const defaultCurrency = "USD"

type QuoteService struct {
	quoteRepo   ports.QuoteRepository
	bookingRepo ports.BookingRepository
	metrics     ports.MetricsRecorder
	clock       domain.Clock
	logger      *logrus.Logger
}

var _ ports.QuoteService = (*QuoteService)(nil)

func NewQuoteService(quoteRepo ports.QuoteRepository, bookingRepo ports.BookingRepository, metrics ports.MetricsRecorder, clock domain.Clock, logger *logrus.Logger) *QuoteService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QuoteService{
		quoteRepo:   quoteRepo,
		bookingRepo: bookingRepo,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
	}
}

func (s *QuoteService) SubmitQuoteRequest(ctx context.Context, clientID string, routing domain.Routing, passengers int) (*domain.QuoteRequest, error) {
	now := s.clock.Now()

	routing.DepartureAirport = domain.NormalizeAirportCode(routing.DepartureAirport)
	routing.ArrivalAirport = domain.NormalizeAirportCode(routing.ArrivalAirport)
	routing.DepartureTime = routing.DepartureTime.UTC()
	if routing.ReturnTime != nil {
		rt := routing.ReturnTime.UTC()
		if !rt.After(routing.DepartureTime) {
			return nil, fmt.Errorf("%w: return must be after departure", domain.ErrInvalidQuoteData)
		}
		routing.ReturnTime = &rt
	}

	quote := &domain.QuoteRequest{
		ID:         uuid.NewString(),
		ClientID:   strings.TrimSpace(clientID),
		Routing:    routing,
		Passengers: passengers,
		Status:     domain.QuoteOpen,
		Offers:     []domain.Offer{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.CreateQuoteRequest(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"quote_request_id": quote.ID,
		"route":            routing.DepartureAirport + "-" + routing.ArrivalAirport,
	}).Info("quote request submitted")
	return quote, nil
}

func (s *QuoteService) GetQuoteRequest(ctx context.Context, quoteRequestID string) (*domain.QuoteRequest, error) {
	return s.quoteRepo.GetQuoteRequest(ctx, quoteRequestID)
}

// SubmitOffer records an operator's offer against an open quote request.
func (s *QuoteService) SubmitOffer(ctx context.Context, quoteRequestID string, offer domain.Offer) (*domain.Offer, error) {
	quote, err := s.quoteRepo.GetQuoteRequest(ctx, quoteRequestID)
	if err != nil {
		return nil, err
	}
	if !quote.IsOpen() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrQuoteNotOpen, quote.ID, quote.Status)
	}

	offer.ID = uuid.NewString()
	offer.QuoteRequestID = quote.ID
	offer.OperatorUserCode = strings.TrimSpace(offer.OperatorUserCode)
	offer.Status = domain.OfferPending
	offer.CreatedAt = s.clock.Now()
	if offer.Currency == "" {
		offer.Currency = defaultCurrency
	}
	if err := offer.Validate(); err != nil {
		return nil, err
	}

	if err := s.quoteRepo.AddOffer(ctx, &offer); err != nil {
		return nil, fmt.Errorf("add offer to %s: %w", quote.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"quote_request_id": quote.ID,
		"offer_id":         offer.ID,
		"operator":         offer.OperatorUserCode,
	}).Info("offer submitted")
	return &offer, nil
}

// AcceptOffer turns the chosen offer into a booking. The repository applies
// the acceptance atomically, so a concurrent second acceptance fails with
// domain.ErrQuoteNotOpen.
func (s *QuoteService) AcceptOffer(ctx context.Context, quoteRequestID, offerID string) (*domain.Booking, error) {
	quote, err := s.quoteRepo.GetQuoteRequest(ctx, quoteRequestID)
	if err != nil {
		return nil, err
	}
	if !quote.IsOpen() {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrQuoteNotOpen, quote.ID, quote.Status)
	}
	offer, err := quote.Offer(offerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	booking := domain.NewBookingFromOffer(uuid.NewString(), quote, offer, now)
	if err := s.quoteRepo.AcceptOffer(ctx, quote.ID, offer.ID, booking, now); err != nil {
		return nil, err
	}

	s.metrics.RecordOfferAccepted()
	s.logger.WithFields(logrus.Fields{
		"quote_request_id": quote.ID,
		"offer_id":         offer.ID,
		"booking_id":       booking.ID,
	}).Info("offer accepted")
	return booking, nil
}

func (s *QuoteService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}
