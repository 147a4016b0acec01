package ports

import "github.com/srgjo27/charter_flights/internal/core/domain"

// MetricsRecorder receives business events from the core services.
type MetricsRecorder interface {
	RecordFlightCreated(operatorUserCode string, legs int)
	RecordBookingAttached(legType domain.LegType)
	RecordCapacityRejected()
	RecordWriteConflict(operation string)
	RecordEmptyLegSearch(cacheHit bool, results int)
	RecordOfferAccepted()
}
