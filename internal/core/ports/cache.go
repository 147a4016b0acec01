package ports

import (
	"context"
	"time"

	"github.com/srgjo27/charter_flights/internal/core/domain"
)

type EmptyLegQuery struct {
	DepartureAirport string
	ArrivalAirport   string
	Start            time.Time
	End              time.Time
}

// EmptyLegCache caches empty-leg search results under a generation counter.
// Invalidate bumps the generation and is called after any flight write.
// Callers read the generation once and pass it to both Get and Set, so a
// result scanned before an Invalidate never lands under the newer generation.
type EmptyLegCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, query EmptyLegQuery) ([]domain.ScheduledLeg, bool, error)
	Set(ctx context.Context, generation int64, query EmptyLegQuery, legs []domain.ScheduledLeg) error
	Invalidate(ctx context.Context) error
}
