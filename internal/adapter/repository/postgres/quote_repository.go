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

type QuoteRepository struct {
	db *sql.DB
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) CreateQuoteRequest(ctx context.Context, quote *domain.QuoteRequest) error {
	routing, err := json.Marshal(quote.Routing)
	if err != nil {
		return fmt.Errorf("failed to encode routing: %w", err)
	}

	query := `
	INSERT INTO quote_requests (id, client_id, routing, passengers, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query, quote.ID, quote.ClientID, routing, quote.Passengers, quote.Status, quote.CreatedAt, quote.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quote request: %w", err)
	}

	return nil
}

func (r *QuoteRepository) GetQuoteRequest(ctx context.Context, quoteRequestID string) (*domain.QuoteRequest, error) {
	query := `
	SELECT id, client_id, routing, passengers, status, created_at, updated_at
	FROM quote_requests
	WHERE id = $1
	`

	var quote domain.QuoteRequest
	var routing []byte

	err := r.db.QueryRowContext(ctx, query, quoteRequestID).Scan(
		&quote.ID,
		&quote.ClientID,
		&routing,
		&quote.Passengers,
		&quote.Status,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuoteRequestNotFound, quoteRequestID)
		}

		return nil, err
	}

	if err := json.Unmarshal(routing, &quote.Routing); err != nil {
		return nil, fmt.Errorf("failed to decode routing of quote request %s: %w", quote.ID, err)
	}
	quote.CreatedAt = quote.CreatedAt.UTC()
	quote.UpdatedAt = quote.UpdatedAt.UTC()

	rows, err := r.db.QueryContext(ctx, `
	SELECT id, quote_request_id, operator_user_code, aircraft_id, total_amount, currency, status, created_at
	FROM offers
	WHERE quote_request_id = $1
	ORDER BY created_at
	`, quote.ID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	quote.Offers = []domain.Offer{}
	for rows.Next() {
		var offer domain.Offer
		if err := rows.Scan(
			&offer.ID,
			&offer.QuoteRequestID,
			&offer.OperatorUserCode,
			&offer.AircraftID,
			&offer.TotalAmount,
			&offer.Currency,
			&offer.Status,
			&offer.CreatedAt,
		); err != nil {
			return nil, err
		}

		offer.CreatedAt = offer.CreatedAt.UTC()
		quote.Offers = append(quote.Offers, offer)
	}

	return &quote, rows.Err()
}

func (r *QuoteRepository) AddOffer(ctx context.Context, offer *domain.Offer) error {
	query := `
	INSERT INTO offers (id, quote_request_id, operator_user_code, aircraft_id, total_amount, currency, status, created_at)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8
	WHERE EXISTS (SELECT 1 FROM quote_requests WHERE id = $2 AND status = 'open')
	`

	result, err := r.db.ExecContext(ctx, query,
		offer.ID,
		offer.QuoteRequestID,
		offer.OperatorUserCode,
		offer.AircraftID,
		offer.TotalAmount,
		offer.Currency,
		offer.Status,
		offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert offer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrQuoteNotOpen, offer.QuoteRequestID)
	}

	return nil
}

func (r *QuoteRepository) AcceptOffer(ctx context.Context, quoteRequestID, offerID string, booking *domain.Booking, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
	UPDATE quote_requests
	SET status = $1, updated_at = $2
	WHERE id = $3 AND status = $4
	`, domain.QuoteAccepted, now, quoteRequestID, domain.QuoteOpen)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM quote_requests WHERE id = $1)`, quoteRequestID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", domain.ErrQuoteRequestNotFound, quoteRequestID)
		}
		return fmt.Errorf("%w: %s", domain.ErrQuoteNotOpen, quoteRequestID)
	}

	result, err = tx.ExecContext(ctx, `
	UPDATE offers SET status = $1
	WHERE id = $2 AND quote_request_id = $3 AND status = $4
	`, domain.OfferAccepted, offerID, quoteRequestID, domain.OfferPending)
	if err != nil {
		return err
	}

	rowsAffected, err = result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOfferNotFound, offerID)
	}

	_, err = tx.ExecContext(ctx, `
	UPDATE offers SET status = $1
	WHERE quote_request_id = $2 AND id <> $3 AND status = $4
	`, domain.OfferRejected, quoteRequestID, offerID, domain.OfferPending)
	if err != nil {
		return err
	}

	if err := insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
