package services_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/charter_flights/internal/adapter/cache"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
	"github.com/srgjo27/charter_flights/internal/core/ports/mocks"
	"github.com/srgjo27/charter_flights/internal/core/services"
	"github.com/srgjo27/charter_flights/internal/platform/logging"
)

var now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	flights  *mocks.FlightRepository
	bookings *mocks.BookingRepository
	cache    *mocks.EmptyLegCache
	metrics  *mocks.MetricsRecorder
	service  *services.FlightService
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	f := &fixture{
		flights:  mocks.NewFlightRepository(t),
		bookings: mocks.NewBookingRepository(t),
		cache:    mocks.NewEmptyLegCache(t),
		metrics:  mocks.NewMetricsRecorder(t),
	}
	f.service = services.NewFlightService(f.flights, f.bookings, f.cache, f.metrics, services.FlightServiceConfig{
		MaxWriteAttempts: maxAttempts,
		Clock:            domain.NewMockClock(now),
	}, logging.Discard())
	return f
}

func flightData(withReturn bool) domain.CreateFlightData {
	data := domain.CreateFlightData{
		AircraftID: "N123AB",
		PrimaryLeg: domain.PrimaryLegSpec{LegSpec: domain.LegSpec{
			DepartureAirport:       "KTEB",
			ArrivalAirport:         "KMIA",
			ScheduledDepartureTime: now.Add(24 * time.Hour),
			ScheduledArrivalTime:   now.Add(27 * time.Hour),
			MaxSeats:               4,
		}},
	}
	if withReturn {
		data.ReturnLeg = &domain.LegSpec{
			DepartureAirport:       "KMIA",
			ArrivalAirport:         "KTEB",
			ScheduledDepartureTime: now.Add(48 * time.Hour),
			ScheduledArrivalTime:   now.Add(51 * time.Hour),
			MaxSeats:               4,
		}
	}
	return data
}

// storedFlight returns a fresh copy on every call so retried reads never share state.
func storedFlight(version int) func(context.Context, string) (*domain.Flight, error) {
	return func(context.Context, string) (*domain.Flight, error) {
		booking := &domain.Booking{ID: "booking-1", OperatorUserCode: "OP1"}
		flight, err := domain.NewFlightFromBooking("flight-1", "OP1-250601-ABC123", booking, flightData(true), now)
		if err != nil {
			return nil, err
		}
		flight.Version = version
		return flight, nil
	}
}

func TestCreateFlightFromBooking_Success(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	booking := &domain.Booking{ID: "booking-1", OperatorUserCode: "op-1", QuoteRequestID: "quote-1"}

	var created *domain.Flight
	f.flights.On("Create", ctx, mock.AnythingOfType("*domain.Flight"), mock.AnythingOfType("domain.BookingLink")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Flight)
			link := args.Get(2).(domain.BookingLink)
			assert.Equal(t, "booking-1", link.BookingID)
			assert.Equal(t, created.ID, link.FlightID)
			assert.Equal(t, created.Legs[0].FlightNumber, link.FlightNumber)
		}).
		Return(nil)
	f.cache.On("Invalidate", ctx).Return(nil)
	f.metrics.On("RecordFlightCreated", "op-1", 2).Return()

	flight, err := f.service.CreateFlightFromBooking(ctx, booking, flightData(true))

	require.NoError(t, err)
	assert.Same(t, created, flight)
	assert.Regexp(t, `^OP1-250601-[A-Z0-9]{6}$`, flight.FlightGroupID)
	assert.Equal(t, "quote-1", flight.OriginalQuoteRequestID)
	require.NotNil(t, booking.FlightID)
	assert.Equal(t, flight.ID, *booking.FlightID)
	assert.Equal(t, flight.Legs[0].FlightNumber, booking.FlightDetails.FlightNumber)
}

func TestCreateFlightFromBooking_RejectsLinkedBooking(t *testing.T) {
	f := newFixture(t, 3)
	other := "flight-0"
	booking := &domain.Booking{ID: "booking-1", OperatorUserCode: "OP1", FlightID: &other}

	_, err := f.service.CreateFlightFromBooking(context.Background(), booking, flightData(false))

	assert.ErrorIs(t, err, domain.ErrBookingAlreadyLinked)
}

func TestCreateFlightFromBooking_RepositoryFailureLeavesBookingUnlinked(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	booking := &domain.Booking{ID: "booking-1", OperatorUserCode: "OP1"}

	f.flights.On("Create", ctx, mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.service.CreateFlightFromBooking(ctx, booking, flightData(false))

	assert.Error(t, err)
	assert.False(t, booking.IsLinked())
}

func TestCreateFlightForBooking_UnknownBooking(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "missing").Return(nil, domain.ErrBookingNotFound)

	_, err := f.service.CreateFlightForBooking(ctx, "missing", flightData(false))

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestAddBookingToFlightLeg_Success(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-2").Return(&domain.Booking{ID: "booking-2"}, nil)
	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(5))
	f.flights.On("Update", ctx, mock.MatchedBy(func(fl *domain.Flight) bool {
		leg := fl.Legs[1]
		return leg.LegType == domain.LegTypePassenger && leg.AvailableSeats == 3 && leg.HasBooking("booking-2")
	}), 5, domain.BookingLink{BookingID: "booking-2", FlightID: "flight-1", FlightNumber: "OP1-250601-ABC123-L2"}).Return(nil)
	f.cache.On("Invalidate", ctx).Return(nil)
	f.metrics.On("RecordBookingAttached", domain.LegTypeEmpty).Return()

	err := f.service.AddBookingToFlightLeg(ctx, "flight-1", 2, "booking-2")

	assert.NoError(t, err)
}

func TestAddBookingToFlightLeg_RetriesOnVersionConflict(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-2").Return(&domain.Booking{ID: "booking-2"}, nil)
	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(1)).Once()
	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(2)).Once()
	f.flights.On("Update", ctx, mock.Anything, 1, mock.Anything).Return(ports.ErrVersionConflict).Once()
	f.flights.On("Update", ctx, mock.Anything, 2, mock.Anything).Return(nil).Once()
	f.metrics.On("RecordWriteConflict", "add_booking").Return().Once()
	f.cache.On("Invalidate", ctx).Return(nil)
	f.metrics.On("RecordBookingAttached", domain.LegTypeEmpty).Return()

	err := f.service.AddBookingToFlightLeg(ctx, "flight-1", 2, "booking-2")

	assert.NoError(t, err)
}

func TestAddBookingToFlightLeg_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, "booking-2").Return(&domain.Booking{ID: "booking-2"}, nil)
	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(1)).Times(2)
	f.flights.On("Update", ctx, mock.Anything, 1, mock.Anything).Return(ports.ErrVersionConflict).Times(2)
	f.metrics.On("RecordWriteConflict", "add_booking").Return().Times(2)

	err := f.service.AddBookingToFlightLeg(ctx, "flight-1", 2, "booking-2")

	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestAddBookingToFlightLeg_NoSeats(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	full := func(ctx context.Context, id string) (*domain.Flight, error) {
		flight, err := storedFlight(1)(ctx, id)
		if err != nil {
			return nil, err
		}
		leg := &flight.Legs[0]
		leg.BookingIDs = []string{"booking-1", "a", "b", "c"}
		leg.AvailableSeats = 0
		return flight, nil
	}

	f.bookings.On("GetByID", ctx, "booking-2").Return(&domain.Booking{ID: "booking-2"}, nil)
	f.flights.On("GetByID", ctx, "flight-1").Return(full)
	f.metrics.On("RecordCapacityRejected").Return().Once()

	err := f.service.AddBookingToFlightLeg(ctx, "flight-1", 1, "booking-2")

	assert.ErrorIs(t, err, domain.ErrNoAvailableSeats)
	f.flights.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddBookingToFlightLeg_BookingOnOtherFlight(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	other := "flight-9"

	f.bookings.On("GetByID", ctx, "booking-2").Return(&domain.Booking{ID: "booking-2", FlightID: &other}, nil)

	err := f.service.AddBookingToFlightLeg(ctx, "flight-1", 1, "booking-2")

	assert.ErrorIs(t, err, domain.ErrBookingAlreadyLinked)
}

func TestFindAvailableEmptyLegs_CacheHit(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	start := now
	end := now.Add(72 * time.Hour)
	cached := []domain.ScheduledLeg{{Flight: &domain.Flight{ID: "flight-1"}, Leg: &domain.FlightLeg{LegNumber: 2}}}

	f.cache.On("Generation", ctx).Return(int64(3), nil)
	f.cache.On("Get", ctx, int64(3), ports.EmptyLegQuery{DepartureAirport: "KMIA", ArrivalAirport: "KTEB", Start: start, End: end}).
		Return(cached, true, nil)
	f.metrics.On("RecordEmptyLegSearch", true, 1).Return()

	legs, err := f.service.FindAvailableEmptyLegs(ctx, " kmia", "kteb ", start, end)

	require.NoError(t, err)
	assert.Equal(t, cached, legs)
	f.flights.AssertNotCalled(t, "ListByStatus", mock.Anything, mock.Anything)
}

func TestFindAvailableEmptyLegs_MissScansAndCaches(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	start := now
	end := now.Add(72 * time.Hour)
	stored, err := storedFlight(1)(ctx, "flight-1")
	require.NoError(t, err)

	f.cache.On("Generation", ctx).Return(int64(3), nil)
	f.cache.On("Get", ctx, int64(3), mock.Anything).Return(nil, false, nil)
	f.flights.On("ListByStatus", mock.Anything, domain.FlightScheduled).Return([]domain.Flight{*stored}, nil)
	f.cache.On("Set", mock.Anything, int64(3), mock.Anything, mock.MatchedBy(func(legs []domain.ScheduledLeg) bool { return len(legs) == 1 })).Return(nil)
	f.metrics.On("RecordEmptyLegSearch", false, 1).Return()

	legs, err := f.service.FindAvailableEmptyLegs(ctx, "KMIA", "KTEB", start, end)

	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "OP1-250601-ABC123-L2", legs[0].Leg.FlightNumber)
	assert.Equal(t, "flight-1", legs[0].Flight.ID)
}

func TestFindAvailableEmptyLegs_CacheErrorsAreTolerated(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.cache.On("Generation", ctx).Return(int64(1), nil)
	f.cache.On("Get", ctx, int64(1), mock.Anything).Return(nil, false, errors.New("redis down"))
	f.flights.On("ListByStatus", mock.Anything, domain.FlightScheduled).Return([]domain.Flight{}, nil)
	f.cache.On("Set", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(errors.New("redis down"))
	f.metrics.On("RecordEmptyLegSearch", false, 0).Return()

	legs, err := f.service.FindAvailableEmptyLegs(ctx, "KMIA", "KTEB", now, now.Add(time.Hour))

	require.NoError(t, err)
	assert.NotNil(t, legs)
	assert.Empty(t, legs)
}

func TestFindAvailableEmptyLegs_UnreadableGenerationSkipsCache(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.cache.On("Generation", ctx).Return(int64(0), errors.New("redis down"))
	f.flights.On("ListByStatus", mock.Anything, domain.FlightScheduled).Return([]domain.Flight{}, nil)
	f.metrics.On("RecordEmptyLegSearch", false, 0).Return()

	_, err := f.service.FindAvailableEmptyLegs(ctx, "KMIA", "KTEB", now, now.Add(time.Hour))

	require.NoError(t, err)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindAvailableEmptyLegs_WriteDuringScanKeepsResultOutOfNewGeneration(t *testing.T) {
	flights := mocks.NewFlightRepository(t)
	metrics := mocks.NewMetricsRecorder(t)
	db, mockRedis := redismock.NewClientMock()
	legCache := cache.NewEmptyLegCache(db, time.Minute)
	service := services.NewFlightService(flights, mocks.NewBookingRepository(t), legCache, metrics, services.FlightServiceConfig{
		Clock: domain.NewMockClock(now),
	}, logging.Discard())

	ctx := context.Background()
	query := ports.EmptyLegQuery{DepartureAirport: "KMIA", ArrivalAirport: "KTEB", Start: now, End: now.Add(72 * time.Hour)}
	stored, err := storedFlight(1)(ctx, "flight-1")
	require.NoError(t, err)

	mockRedis.ExpectGet("empty_legs:generation").RedisNil()
	mockRedis.ExpectGet(cache.Key(0, query)).RedisNil()
	mockRedis.ExpectIncr("empty_legs:generation").SetVal(1)
	mockRedis.Regexp().ExpectSet("^"+regexp.QuoteMeta(cache.Key(0, query))+"$", ".*", time.Minute).SetVal("OK")

	// A booking commits and bumps the generation while the scan runs.
	flights.On("ListByStatus", mock.Anything, domain.FlightScheduled).Return(func(ctx context.Context, _ domain.FlightStatus) ([]domain.Flight, error) {
		assert.NoError(t, legCache.Invalidate(ctx))
		return []domain.Flight{*stored}, nil
	})
	metrics.On("RecordEmptyLegSearch", false, 1).Return()

	legs, err := service.FindAvailableEmptyLegs(ctx, "KMIA", "KTEB", query.Start, query.End)

	require.NoError(t, err)
	assert.Len(t, legs, 1)
	assert.NoError(t, mockRedis.ExpectationsWereMet(), "result must be stored under the generation read before the scan")
}

func TestFindAvailableEmptyLegs_SharedScanSurvivesCancelledCaller(t *testing.T) {
	f := newFixture(t, 3)
	stored, err := storedFlight(1)(context.Background(), "flight-1")
	require.NoError(t, err)
	start, end := now, now.Add(72*time.Hour)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.cache.On("Generation", mock.Anything).Return(int64(0), nil)
	f.cache.On("Get", mock.Anything, int64(0), mock.Anything).Return(nil, false, nil)
	f.flights.On("ListByStatus", mock.Anything, domain.FlightScheduled).Return(func(ctx context.Context, _ domain.FlightStatus) ([]domain.Flight, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []domain.Flight{*stored}, nil
	})
	f.cache.On("Set", mock.Anything, int64(0), mock.Anything, mock.Anything).Return(nil)
	f.metrics.On("RecordEmptyLegSearch", false, 1).Return()

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.service.FindAvailableEmptyLegs(first, "KMIA", "KTEB", start, end)
		firstErr <- err
	}()
	<-started

	type result struct {
		legs []domain.ScheduledLeg
		err  error
	}
	second := make(chan result, 1)
	go func() {
		legs, err := f.service.FindAvailableEmptyLegs(context.Background(), "KMIA", "KTEB", start, end)
		second <- result{legs: legs, err: err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(release)

	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.legs, 1)
}

func TestFindAvailableEmptyLegs_InvalidRange(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.service.FindAvailableEmptyLegs(context.Background(), "KMIA", "KTEB", now, now.Add(-time.Second))

	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestGetFlightByNumber(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.flights.On("GetByGroupID", ctx, "OP1-250601-ABC123").Return(storedFlight(1))
	f.flights.On("GetByGroupID", ctx, "OP1-250601-ZZZZZZ").Return(nil, domain.ErrFlightNotFound)

	found, err := f.service.GetFlightByNumber(ctx, "OP1-250601-ABC123-L2")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Leg.LegNumber)

	for _, number := range []string{"not-a-number", "OP1-250601-ABC123-L3", "OP1-250601-ZZZZZZ-L1"} {
		found, err := f.service.GetFlightByNumber(ctx, number)
		assert.NoError(t, err, number)
		assert.Nil(t, found, number)
	}
}

func TestUpdateFlightStatus_InvalidTransitionIsNotWritten(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(1))

	err := f.service.UpdateFlightStatus(ctx, "flight-1", domain.FlightCompleted)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateLegStatus_Success(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(3))
	f.flights.On("Update", ctx, mock.MatchedBy(func(fl *domain.Flight) bool {
		return fl.Legs[1].Status == domain.LegCancelled
	}), 3).Return(nil)
	f.cache.On("Invalidate", ctx).Return(nil)

	err := f.service.UpdateLegStatus(ctx, "flight-1", 2, domain.LegCancelled)

	assert.NoError(t, err)
}

func TestRecordActualTimes_Success(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	dep := now.Add(24 * time.Hour)

	f.flights.On("GetByID", ctx, "flight-1").Return(storedFlight(1))
	f.flights.On("Update", ctx, mock.MatchedBy(func(fl *domain.Flight) bool {
		leg := fl.Legs[0]
		return leg.Status == domain.LegInProgress && leg.ActualDepartureTime != nil && leg.ActualDepartureTime.Equal(dep)
	}), 1).Return(nil)
	f.cache.On("Invalidate", ctx).Return(errors.New("redis down"))

	err := f.service.RecordActualTimes(ctx, "flight-1", 1, &dep, nil)

	assert.NoError(t, err)
}
