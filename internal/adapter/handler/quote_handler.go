package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/srgjo27/charter_flights/internal/core/domain"
)

// SubmitQuoteRequest handles POST /api/quote-requests
func (h *Handler) SubmitQuoteRequest(w http.ResponseWriter, r *http.Request) {
	var req quoteRequestRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	routing := domain.Routing{
		DepartureAirport: req.Routing.DepartureAirport,
		ArrivalAirport:   req.Routing.ArrivalAirport,
		DepartureTime:    req.Routing.DepartureTime,
		ReturnTime:       req.Routing.ReturnTime,
	}
	quote, err := h.quotes.SubmitQuoteRequest(r.Context(), req.ClientID, routing, req.Passengers)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, quote)
}

// GetQuoteRequest handles GET /api/quote-requests/{id}
func (h *Handler) GetQuoteRequest(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.GetQuoteRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// SubmitOffer handles POST /api/quote-requests/{id}/offers
func (h *Handler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	offer, err := h.quotes.SubmitOffer(r.Context(), mux.Vars(r)["id"], domain.Offer{
		OperatorUserCode: req.OperatorUserCode,
		AircraftID:       req.AircraftID,
		TotalAmount:      req.TotalAmount,
		Currency:         req.Currency,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, offer)
}

// AcceptOffer handles POST /api/quote-requests/{id}/offers/{offerId}/accept
func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	booking, err := h.quotes.AcceptOffer(r.Context(), vars["id"], vars["offerId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.quotes.GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, booking)
}
