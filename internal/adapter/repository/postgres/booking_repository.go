package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

type BookingRepository struct {
	db *sql.DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return insertBooking(ctx, r.db, booking)
}

func insertBooking(ctx context.Context, db execer, booking *domain.Booking) error {
	routing, err := json.Marshal(booking.Routing)
	if err != nil {
		return fmt.Errorf("failed to encode routing: %w", err)
	}

	var flightNumber sql.NullString
	if booking.FlightDetails != nil {
		flightNumber = nullString(booking.FlightDetails.FlightNumber)
	}
	var flightID sql.NullString
	if booking.FlightID != nil {
		flightID = nullString(*booking.FlightID)
	}

	query := `
	INSERT INTO bookings (id, client_id, operator_user_code, quote_request_id, offer_id, routing, passengers,
		total_amount, currency, status, flight_id, flight_number, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = db.ExecContext(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.OperatorUserCode,
		nullString(booking.QuoteRequestID),
		nullString(booking.OfferID),
		routing,
		booking.Passengers,
		booking.TotalAmount,
		booking.Currency,
		booking.Status,
		flightID,
		flightNumber,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `
	SELECT id, client_id, operator_user_code, quote_request_id, offer_id, routing, passengers,
		total_amount, currency, status, flight_id, flight_number, created_at, updated_at
	FROM bookings
	WHERE id = $1
	`

	var booking domain.Booking
	var routing []byte
	var quoteRequestID, offerID, flightID, flightNumber sql.NullString

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.OperatorUserCode,
		&quoteRequestID,
		&offerID,
		&routing,
		&booking.Passengers,
		&booking.TotalAmount,
		&booking.Currency,
		&booking.Status,
		&flightID,
		&flightNumber,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
		}

		return nil, err
	}

	if err := json.Unmarshal(routing, &booking.Routing); err != nil {
		return nil, fmt.Errorf("failed to decode routing of booking %s: %w", booking.ID, err)
	}

	booking.QuoteRequestID = quoteRequestID.String
	booking.OfferID = offerID.String
	if flightID.Valid {
		booking.FlightID = &flightID.String
	}
	if flightNumber.Valid {
		booking.FlightDetails = &domain.FlightDetails{FlightNumber: flightNumber.String}
	}
	booking.CreatedAt = booking.CreatedAt.UTC()
	booking.UpdatedAt = booking.UpdatedAt.UTC()

	return &booking, nil
}
