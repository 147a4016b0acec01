package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Burst             int
	Observer          RequestObserver
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func NewRouter(h *Handler, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware(h.logger, cfg.Observer))

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		api.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)))
	}
	if cfg.RequestTimeout > 0 {
		api.Use(timeoutMiddleware(cfg.RequestTimeout))
	}

	// Bookings
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/flight", h.CreateFlightForBooking).Methods(http.MethodPost)

	// Flights
	api.HandleFunc("/flights", h.GetFlightsByOperator).Methods(http.MethodGet)
	api.HandleFunc("/flights/by-number/{number}", h.GetFlightByNumber).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet)
	api.HandleFunc("/flights/{id}/status", h.UpdateFlightStatus).Methods(http.MethodPatch)
	api.HandleFunc("/flights/{id}/legs/{leg}/bookings", h.AddBookingToLeg).Methods(http.MethodPost)
	api.HandleFunc("/flights/{id}/legs/{leg}/status", h.UpdateLegStatus).Methods(http.MethodPatch)
	api.HandleFunc("/flights/{id}/legs/{leg}/times", h.RecordActualTimes).Methods(http.MethodPost)
	api.HandleFunc("/empty-legs", h.FindEmptyLegs).Methods(http.MethodGet)
	api.HandleFunc("/admin/flights", h.GetAllFlights).Methods(http.MethodGet)

	// Quotes
	api.HandleFunc("/quote-requests", h.SubmitQuoteRequest).Methods(http.MethodPost)
	api.HandleFunc("/quote-requests/{id}", h.GetQuoteRequest).Methods(http.MethodGet)
	api.HandleFunc("/quote-requests/{id}/offers", h.SubmitOffer).Methods(http.MethodPost)
	api.HandleFunc("/quote-requests/{id}/offers/{offerId}/accept", h.AcceptOffer).Methods(http.MethodPost)

	return r
}
