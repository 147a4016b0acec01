package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxWriteAttempts = 3
	defaultSearchTimeout    = 10 * time.Second
)

type FlightServiceConfig struct {
	// MaxWriteAttempts bounds the re-read/retry loop on version conflicts.
	MaxWriteAttempts int
	// SearchTimeout bounds a shared empty-leg scan. The scan outlives the
	// caller that started it so that joined callers still get a result.
	SearchTimeout time.Duration
	Clock         domain.Clock
}

type FlightService struct {
	flightRepo    ports.FlightRepository
	bookingRepo   ports.BookingRepository
	cache         ports.EmptyLegCache
	metrics       ports.MetricsRecorder
	clock         domain.Clock
	maxAttempts   int
	searchTimeout time.Duration
	logger        *logrus.Logger
	searches      singleflight.Group
}

var _ ports.FlightService = (*FlightService)(nil)

// NewFlightService wires the flight core. cache and metrics may be nil.
func NewFlightService(
	flightRepo ports.FlightRepository,
	bookingRepo ports.BookingRepository,
	cache ports.EmptyLegCache,
	metrics ports.MetricsRecorder,
	cfg FlightServiceConfig,
	logger *logrus.Logger,
) *FlightService {
	if cfg.MaxWriteAttempts <= 0 {
		cfg.MaxWriteAttempts = defaultMaxWriteAttempts
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaultSearchTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FlightService{
		flightRepo:    flightRepo,
		bookingRepo:   bookingRepo,
		cache:         cache,
		metrics:       metrics,
		clock:         cfg.Clock,
		maxAttempts:   cfg.MaxWriteAttempts,
		searchTimeout: cfg.SearchTimeout,
		logger:        logger,
	}
}

func (s *FlightService) CreateFlightFromBooking(ctx context.Context, booking *domain.Booking, data domain.CreateFlightData) (*domain.Flight, error) {
	if booking == nil || booking.ID == "" {
		return nil, fmt.Errorf("%w: booking is required", domain.ErrInvalidFlightData)
	}
	if booking.IsLinked() {
		return nil, fmt.Errorf("%w: booking %s is on flight %s", domain.ErrBookingAlreadyLinked, booking.ID, *booking.FlightID)
	}

	operator := data.OperatorUserCode
	if operator == "" {
		operator = booking.OperatorUserCode
	}

	now := s.clock.Now()
	groupID, err := domain.GenerateFlightGroupID(operator, now)
	if err != nil {
		return nil, err
	}

	flight, err := domain.NewFlightFromBooking(uuid.NewString(), groupID, booking, data, now)
	if err != nil {
		return nil, err
	}

	primary := flight.Legs[0]
	links := make([]domain.BookingLink, 0, len(primary.BookingIDs))
	for _, id := range primary.BookingIDs {
		links = append(links, domain.BookingLink{
			BookingID:    id,
			FlightID:     flight.ID,
			FlightNumber: primary.FlightNumber,
		})
	}
	if err := s.flightRepo.Create(ctx, flight, links...); err != nil {
		return nil, fmt.Errorf("create flight for booking %s: %w", booking.ID, err)
	}

	booking.FlightID = &flight.ID
	booking.FlightDetails = &domain.FlightDetails{FlightNumber: primary.FlightNumber}
	booking.UpdatedAt = now

	s.invalidateSearches(ctx)
	s.metrics.RecordFlightCreated(flight.OperatorUserCode, flight.TotalLegs)
	s.logger.WithFields(logrus.Fields{
		"flight_id":    flight.ID,
		"flight_group": flight.FlightGroupID,
		"booking_id":   booking.ID,
		"legs":         flight.TotalLegs,
	}).Info("flight created from booking")

	return flight, nil
}

// CreateFlightForBooking loads the booking by id before scheduling it.
func (s *FlightService) CreateFlightForBooking(ctx context.Context, bookingID string, data domain.CreateFlightData) (*domain.Flight, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.CreateFlightFromBooking(ctx, booking, data)
}

func (s *FlightService) AddBookingToFlightLeg(ctx context.Context, flightID string, legNumber int, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !booking.CanLinkTo(flightID) {
		return fmt.Errorf("%w: booking %s is on flight %s", domain.ErrBookingAlreadyLinked, bookingID, *booking.FlightID)
	}

	var priorType domain.LegType
	_, err = s.mutateFlight(ctx, "add_booking", flightID, func(f *domain.Flight) ([]domain.BookingLink, error) {
		if leg, err := f.Leg(legNumber); err == nil {
			priorType = leg.LegType
		}
		leg, err := f.AddBooking(legNumber, bookingID, s.clock.Now())
		if err != nil {
			return nil, err
		}
		return []domain.BookingLink{{
			BookingID:    bookingID,
			FlightID:     f.ID,
			FlightNumber: leg.FlightNumber,
		}}, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoAvailableSeats) {
			s.metrics.RecordCapacityRejected()
		}
		return err
	}

	s.metrics.RecordBookingAttached(priorType)
	s.logger.WithFields(logrus.Fields{
		"flight_id":  flightID,
		"leg":        legNumber,
		"booking_id": bookingID,
	}).Info("booking added to flight leg")
	return nil
}

// FindAvailableEmptyLegs scans scheduled flights for open empty legs on the
// route departing inside [start, end], earliest departure first.
func (s *FlightService) FindAvailableEmptyLegs(ctx context.Context, departureAirport, arrivalAirport string, start, end time.Time) ([]domain.ScheduledLeg, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", domain.ErrInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	query := ports.EmptyLegQuery{
		DepartureAirport: domain.NormalizeAirportCode(departureAirport),
		ArrivalAirport:   domain.NormalizeAirportCode(arrivalAirport),
		Start:            start.UTC(),
		End:              end.UTC(),
	}

	gen, cacheable := s.cacheGeneration(ctx)
	if cacheable {
		legs, hit, err := s.cache.Get(ctx, gen, query)
		if err != nil {
			s.logger.WithError(err).Warn("empty leg cache read failed")
		} else if hit {
			s.metrics.RecordEmptyLegSearch(true, len(legs))
			return legs, nil
		}
	}

	// Callers only share a scan started under the generation they read.
	key := fmt.Sprintf("%s|%s|%s|%d|%d", genTag(gen, cacheable), query.DepartureAirport, query.ArrivalAirport, query.Start.UnixNano(), query.End.UnixNano())
	ch := s.searches.DoChan(key, func() (interface{}, error) {
		scanCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.searchTimeout)
		defer cancel()

		legs, err := s.scanEmptyLegs(scanCtx, query)
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := s.cache.Set(scanCtx, gen, query, legs); err != nil {
				s.logger.WithError(err).Warn("empty leg cache write failed")
			}
		}
		return legs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		legs := res.Val.([]domain.ScheduledLeg)
		s.metrics.RecordEmptyLegSearch(false, len(legs))
		return legs, nil
	}
}

// cacheGeneration reports the generation to read and write under, and false
// when there is no cache or its generation cannot be read.
func (s *FlightService) cacheGeneration(ctx context.Context) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("empty leg cache generation read failed")
		return 0, false
	}
	return gen, true
}

func genTag(gen int64, cacheable bool) string {
	if !cacheable {
		return "nocache"
	}
	return strconv.FormatInt(gen, 10)
}

func (s *FlightService) scanEmptyLegs(ctx context.Context, q ports.EmptyLegQuery) ([]domain.ScheduledLeg, error) {
	flights, err := s.flightRepo.ListByStatus(ctx, domain.FlightScheduled)
	if err != nil {
		return nil, fmt.Errorf("list scheduled flights: %w", err)
	}

	results := make([]domain.ScheduledLeg, 0)
	for i := range flights {
		flight := &flights[i]
		for _, leg := range flight.MatchEmptyLegs(q.DepartureAirport, q.ArrivalAirport, q.Start, q.End) {
			results = append(results, domain.ScheduledLeg{Flight: flight, Leg: &leg})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Leg.ScheduledDepartureTime.Before(results[j].Leg.ScheduledDepartureTime)
	})
	return results, nil
}

func (s *FlightService) GetFlightByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	return s.flightRepo.GetByID(ctx, flightID)
}

func (s *FlightService) GetFlightsByOperator(ctx context.Context, operatorUserCode string) ([]domain.Flight, error) {
	return s.flightRepo.ListByOperator(ctx, operatorUserCode)
}

// GetAllFlights is an administrative query; callers enforce access.
func (s *FlightService) GetAllFlights(ctx context.Context) ([]domain.Flight, error) {
	return s.flightRepo.ListAll(ctx)
}

// GetFlightByNumber returns nil without an error when the number is
// malformed or names no existing leg.
func (s *FlightService) GetFlightByNumber(ctx context.Context, flightNumber string) (*domain.ScheduledLeg, error) {
	parts, ok := domain.ParseFlightNumber(flightNumber)
	if !ok {
		return nil, nil
	}

	flight, err := s.flightRepo.GetByGroupID(ctx, parts.FlightGroupID)
	if errors.Is(err, domain.ErrFlightNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	leg, err := flight.Leg(parts.LegNumber)
	if err != nil {
		return nil, nil
	}
	return &domain.ScheduledLeg{Flight: flight, Leg: leg}, nil
}

func (s *FlightService) UpdateFlightStatus(ctx context.Context, flightID string, status domain.FlightStatus) error {
	_, err := s.mutateFlight(ctx, "update_flight_status", flightID, func(f *domain.Flight) ([]domain.BookingLink, error) {
		return nil, f.TransitionTo(status, s.clock.Now())
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"flight_id": flightID, "status": status}).Info("flight status updated")
	return nil
}

func (s *FlightService) UpdateLegStatus(ctx context.Context, flightID string, legNumber int, status domain.LegStatus) error {
	_, err := s.mutateFlight(ctx, "update_leg_status", flightID, func(f *domain.Flight) ([]domain.BookingLink, error) {
		_, err := f.UpdateLegStatus(legNumber, status, s.clock.Now())
		return nil, err
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"flight_id": flightID, "leg": legNumber, "status": status}).Info("leg status updated")
	return nil
}

func (s *FlightService) RecordActualTimes(ctx context.Context, flightID string, legNumber int, departure, arrival *time.Time) error {
	_, err := s.mutateFlight(ctx, "record_actual_times", flightID, func(f *domain.Flight) ([]domain.BookingLink, error) {
		_, err := f.RecordActualTimes(legNumber, departure, arrival, s.clock.Now())
		return nil, err
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"flight_id": flightID,
		"leg":       legNumber,
		"departure": departure != nil,
		"arrival":   arrival != nil,
	}).Info("actual times recorded")
	return nil
}

// mutateFlight reads the flight, applies mutate and writes it back guarded by
// the version it read. A version conflict re-reads and retries.
func (s *FlightService) mutateFlight(ctx context.Context, op, flightID string, mutate func(*domain.Flight) ([]domain.BookingLink, error)) (*domain.Flight, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		flight, err := s.flightRepo.GetByID(ctx, flightID)
		if err != nil {
			return nil, err
		}

		expected := flight.Version
		links, err := mutate(flight)
		if err != nil {
			return nil, err
		}

		err = s.flightRepo.Update(ctx, flight, expected, links...)
		if err == nil {
			s.invalidateSearches(ctx)
			return flight, nil
		}
		if !errors.Is(err, ports.ErrVersionConflict) {
			return nil, fmt.Errorf("%s on flight %s: %w", op, flightID, err)
		}

		s.metrics.RecordWriteConflict(op)
		s.logger.WithFields(logrus.Fields{
			"flight_id": flightID,
			"operation": op,
			"attempt":   attempt,
		}).Debug("flight version conflict, retrying")
	}
	return nil, fmt.Errorf("%w: %s on flight %s after %d attempts", domain.ErrConcurrentUpdate, op, flightID, s.maxAttempts)
}

func (s *FlightService) invalidateSearches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate empty leg cache")
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordFlightCreated(string, int) {}
func (nopRecorder) RecordBookingAttached(domain.LegType) {}
func (nopRecorder) RecordCapacityRejected() {}
func (nopRecorder) RecordWriteConflict(string) {}
func (nopRecorder) RecordEmptyLegSearch(bool, int) {}
func (nopRecorder) RecordOfferAccepted() {}
