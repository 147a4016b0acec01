package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
	"github.com/srgjo27/charter_flights/internal/core/ports"
)

const flightColumns = `id, flight_group_id, operator_user_code, aircraft_id, legs, total_legs, status,
	primary_booking_id, original_quote_request_id, version, created_at, updated_at`

type FlightRepository struct {
	db *sql.DB
}

var _ ports.FlightRepository = (*FlightRepository)(nil)

func NewFlightRepository(db *sql.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

func (r *FlightRepository) Create(ctx context.Context, flight *domain.Flight, links ...domain.BookingLink) error {
	legs, err := json.Marshal(flight.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	query := `
	INSERT INTO flights (` + flightColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11)
	`

	_, err = tx.ExecContext(ctx, query,
		flight.ID,
		flight.FlightGroupID,
		flight.OperatorUserCode,
		flight.AircraftID,
		legs,
		flight.TotalLegs,
		flight.Status,
		flight.PrimaryBookingID,
		nullString(flight.OriginalQuoteRequestID),
		flight.CreatedAt,
		flight.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}

	if err := linkBookings(ctx, tx, flight.UpdatedAt, links...); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	flight.Version = 1
	return nil
}

func (r *FlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	flight, err := scanFlight(r.db.QueryRowContext(ctx, query, flightID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlightNotFound, flightID)
	}
	return flight, err
}

func (r *FlightRepository) GetByGroupID(ctx context.Context, flightGroupID string) (*domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE flight_group_id = $1`
	flight, err := scanFlight(r.db.QueryRowContext(ctx, query, flightGroupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", domain.ErrFlightNotFound, flightGroupID)
	}
	return flight, err
}

func (r *FlightRepository) ListByOperator(ctx context.Context, operatorUserCode string) ([]domain.Flight, error) {
	return r.list(ctx, `WHERE operator_user_code = $1 ORDER BY created_at DESC`, operatorUserCode)
}

func (r *FlightRepository) ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error) {
	return r.list(ctx, `WHERE status = $1 ORDER BY created_at`, status)
}

func (r *FlightRepository) ListAll(ctx context.Context) ([]domain.Flight, error) {
	return r.list(ctx, `ORDER BY created_at DESC`)
}

func (r *FlightRepository) list(ctx context.Context, clause string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+flightColumns+` FROM flights `+clause, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	flights := []domain.Flight{}
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}

		flights = append(flights, *flight)
	}

	return flights, rows.Err()
}

// Update writes the whole flight document only if it still carries
// expectedVersion, together with the booking links.
func (r *FlightRepository) Update(ctx context.Context, flight *domain.Flight, expectedVersion int, links ...domain.BookingLink) error {
	legs, err := json.Marshal(flight.Legs)
	if err != nil {
		return fmt.Errorf("failed to encode legs: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	query := `
	UPDATE flights
	SET legs = $1,
		total_legs = $2,
		status = $3,
		updated_at = $4,
		version = version + 1
	WHERE id = $5 AND version = $6
	`

	result, err := tx.ExecContext(ctx, query, legs, flight.TotalLegs, flight.Status, flight.UpdatedAt, flight.ID, expectedVersion)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM flights WHERE id = $1)`, flight.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrFlightNotFound, flight.ID)
		}
		return ports.ErrVersionConflict
	}

	if err := linkBookings(ctx, tx, flight.UpdatedAt, links...); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	flight.Version = expectedVersion + 1
	return nil
}

// linkBookings writes the flight back-reference onto each booking. A booking
// already pointing at a different flight is left alone and reported.
func linkBookings(ctx context.Context, tx *sql.Tx, now time.Time, links ...domain.BookingLink) error {
	query := `
	UPDATE bookings
	SET flight_id = $1,
		flight_number = $2,
		updated_at = $3
	WHERE id = $4 AND (flight_id IS NULL OR flight_id = $1)
	`

	for _, link := range links {
		result, err := tx.ExecContext(ctx, query, link.FlightID, link.FlightNumber, now, link.BookingID)
		if err != nil {
			return fmt.Errorf("failed to link booking %s: %w", link.BookingID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected > 0 {
			continue
		}

		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, link.BookingID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, link.BookingID)
		}
		return fmt.Errorf("%w: %s", domain.ErrBookingAlreadyLinked, link.BookingID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(row rowScanner) (*domain.Flight, error) {
	var flight domain.Flight
	var legs []byte
	var quoteRequestID sql.NullString

	err := row.Scan(
		&flight.ID,
		&flight.FlightGroupID,
		&flight.OperatorUserCode,
		&flight.AircraftID,
		&legs,
		&flight.TotalLegs,
		&flight.Status,
		&flight.PrimaryBookingID,
		&quoteRequestID,
		&flight.Version,
		&flight.CreatedAt,
		&flight.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legs, &flight.Legs); err != nil {
		return nil, fmt.Errorf("failed to decode legs of flight %s: %w", flight.ID, err)
	}

	flight.OriginalQuoteRequestID = quoteRequestID.String
	flight.CreatedAt = flight.CreatedAt.UTC()
	flight.UpdatedAt = flight.UpdatedAt.UTC()
	return &flight, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
