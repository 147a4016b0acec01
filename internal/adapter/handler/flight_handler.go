package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/srgjo27/charter_flights/internal/core/domain"
)

// CreateFlightForBooking handles POST /api/bookings/{id}/flight
func (h *Handler) CreateFlightForBooking(w http.ResponseWriter, r *http.Request) {
	var req createFlightRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flight, err := h.flights.CreateFlightForBooking(r.Context(), mux.Vars(r)["id"], req.toData())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, flight)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flight, err := h.flights.GetFlightByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetFlightsByOperator handles GET /api/flights?operator=CODE
func (h *Handler) GetFlightsByOperator(w http.ResponseWriter, r *http.Request) {
	operator := strings.TrimSpace(r.URL.Query().Get("operator"))
	if operator == "" {
		respondError(w, http.StatusBadRequest, "operator query parameter is required")
		return
	}

	flights, err := h.flights.GetFlightsByOperator(r.Context(), operator)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetAllFlights handles GET /api/admin/flights. Access control sits in front
// of this service.
func (h *Handler) GetAllFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.flights.GetAllFlights(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlightByNumber handles GET /api/flights/by-number/{number}
func (h *Handler) GetFlightByNumber(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.flights.GetFlightByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if scheduled == nil {
		respondError(w, http.StatusNotFound, domain.ErrFlightNotFound.Error())
		return
	}
	respondJSON(w, http.StatusOK, scheduled)
}

// FindEmptyLegs handles GET /api/empty-legs?from=&to=&start=&end=
func (h *Handler) FindEmptyLegs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	start, err := parseTimeParam(q.Get("start"), false)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseTimeParam(q.Get("end"), true)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	legs, err := h.flights.FindAvailableEmptyLegs(r.Context(), from, to, start, end)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, legs)
}

// parseTimeParam accepts RFC 3339 instants or plain dates. A plain end date
// covers the whole day.
func parseTimeParam(value string, endOfDay bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("start and end query parameters are required")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}

// AddBookingToLeg handles POST /api/flights/{id}/legs/{leg}/bookings
func (h *Handler) AddBookingToLeg(w http.ResponseWriter, r *http.Request) {
	leg, err := legParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req addBookingRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flightID := mux.Vars(r)["id"]
	if err := h.flights.AddBookingToFlightLeg(r.Context(), flightID, leg, req.BookingID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.respondFlight(w, r, flightID)
}

// UpdateFlightStatus handles PATCH /api/flights/{id}/status
func (h *Handler) UpdateFlightStatus(w http.ResponseWriter, r *http.Request) {
	var req flightStatusRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := domain.ParseFlightStatus(req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	flightID := mux.Vars(r)["id"]
	if err := h.flights.UpdateFlightStatus(r.Context(), flightID, status); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.respondFlight(w, r, flightID)
}

// UpdateLegStatus handles PATCH /api/flights/{id}/legs/{leg}/status
func (h *Handler) UpdateLegStatus(w http.ResponseWriter, r *http.Request) {
	leg, err := legParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req legStatusRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := domain.ParseLegStatus(req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	flightID := mux.Vars(r)["id"]
	if err := h.flights.UpdateLegStatus(r.Context(), flightID, leg, status); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.respondFlight(w, r, flightID)
}

// RecordActualTimes handles POST /api/flights/{id}/legs/{leg}/times
func (h *Handler) RecordActualTimes(w http.ResponseWriter, r *http.Request) {
	leg, err := legParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req actualTimesRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flightID := mux.Vars(r)["id"]
	if err := h.flights.RecordActualTimes(r.Context(), flightID, leg, req.ActualDepartureTime, req.ActualArrivalTime); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.respondFlight(w, r, flightID)
}

// respondFlight writes the current state of a flight after a mutation.
func (h *Handler) respondFlight(w http.ResponseWriter, r *http.Request, flightID string) {
	flight, err := h.flights.GetFlightByID(r.Context(), flightID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}
