package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

const namespace = "charter"

// Collector implements ports.MetricsRecorder on a caller-supplied registry.
type Collector struct {
	flightsCreated   *prometheus.CounterVec
	flightLegs       prometheus.Histogram
	bookingsAttached *prometheus.CounterVec
	capacityRejected prometheus.Counter
	writeConflicts   *prometheus.CounterVec
	emptyLegSearches *prometheus.CounterVec
	emptyLegResults  prometheus.Histogram
	offersAccepted   prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var _ ports.MetricsRecorder = (*Collector)(nil)

func NewCollector() *Collector {
	return &Collector{
		flightsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "flights",
				Name:      "created_total",
				Help:      "Flights created from bookings, by operator",
			},
			[]string{"operator"},
		),
		flightLegs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "flights",
				Name:      "legs",
				Help:      "Number of legs per created flight",
				Buckets:   []float64{1, 2, 3, 4},
			},
		),
		bookingsAttached: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "legs",
				Name:      "bookings_attached_total",
				Help:      "Bookings added to existing legs, by leg type before the booking",
			},
			[]string{"leg_type"},
		),
		capacityRejected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "legs",
				Name:      "capacity_rejections_total",
				Help:      "Bookings rejected because the leg was full",
			},
		),
		writeConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "flights",
				Name:      "write_conflicts_total",
				Help:      "Optimistic concurrency conflicts on flight writes, by operation",
			},
			[]string{"operation"},
		),
		emptyLegSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "empty_legs",
				Name:      "searches_total",
				Help:      "Empty leg searches, by cache outcome",
			},
			[]string{"cache"},
		),
		emptyLegResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "empty_legs",
				Name:      "results",
				Help:      "Number of legs returned per empty leg search",
				Buckets:   prometheus.LinearBuckets(0, 5, 6),
			},
		),
		offersAccepted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quotes",
				Name:      "offers_accepted_total",
				Help:      "Offers accepted into bookings",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{
		c.flightsCreated,
		c.flightLegs,
		c.bookingsAttached,
		c.capacityRejected,
		c.writeConflicts,
		c.emptyLegSearches,
		c.emptyLegResults,
		c.offersAccepted,
		c.httpRequests,
		c.httpDuration,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) RecordFlightCreated(operatorUserCode string, legs int) {
	c.flightsCreated.WithLabelValues(operatorUserCode).Inc()
	c.flightLegs.Observe(float64(legs))
}

func (c *Collector) RecordBookingAttached(legType domain.LegType) {
	c.bookingsAttached.WithLabelValues(string(legType)).Inc()
}

func (c *Collector) RecordCapacityRejected() {
	c.capacityRejected.Inc()
}

func (c *Collector) RecordWriteConflict(operation string) {
	c.writeConflicts.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordEmptyLegSearch(cacheHit bool, results int) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	c.emptyLegSearches.WithLabelValues(outcome).Inc()
	c.emptyLegResults.Observe(float64(results))
}

func (c *Collector) RecordOfferAccepted() {
	c.offersAccepted.Inc()
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
