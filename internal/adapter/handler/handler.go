package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

type Handler struct {
	flights  ports.FlightService
	quotes   ports.QuoteService
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewHandler(flights ports.FlightService, quotes ports.QuoteService, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		flights:  flights,
		quotes:   quotes,
		validate: validator.New(),
		logger:   logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into dst and runs struct validation on it.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

func legParam(r *http.Request) (int, error) {
	leg, err := strconv.Atoi(mux.Vars(r)["leg"])
	if err != nil || leg < 1 {
		return 0, fmt.Errorf("invalid leg number %q", mux.Vars(r)["leg"])
	}
	return leg, nil
}

var (
	notFoundErrors = []error{
		domain.ErrFlightNotFound,
		domain.ErrLegNotFound,
		domain.ErrBookingNotFound,
		domain.ErrQuoteRequestNotFound,
		domain.ErrOfferNotFound,
	}
	conflictErrors = []error{
		domain.ErrNoAvailableSeats,
		domain.ErrLegNotBookable,
		domain.ErrDuplicateBooking,
		domain.ErrInvalidTransition,
		domain.ErrConcurrentUpdate,
		domain.ErrBookingAlreadyLinked,
		domain.ErrQuoteNotOpen,
	}
	badRequestErrors = []error{
		domain.ErrInvalidStatus,
		domain.ErrInvalidFlightData,
		domain.ErrInvalidOperatorCode,
		domain.ErrInvalidDateRange,
		domain.ErrInvalidQuoteData,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// StatusClientClosedRequest is reported when the caller went away before the
// response was ready.
const StatusClientClosedRequest = 499

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == StatusClientClosedRequest {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Debug("client closed request")
		respondError(w, status, "client closed request")
		return
	}
	if status == http.StatusInternalServerError || status == http.StatusGatewayTimeout {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		respondError(w, status, http.StatusText(status))
		return
	}
	respondError(w, status, err.Error())
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
