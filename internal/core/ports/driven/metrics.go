package driven

import (
	"context"
	"time"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// QueryMetric records one routed query for later analysis.
type QueryMetric struct {
	// Query text as received.
	Query string

	// Domain the query was routed to (the leading domain when fanned
	// out).
	Domain domain.Domain

	// Outcome is the terminal routing state.
	Outcome domain.RouteOutcome

	// Confidence of the leading domain.
	Confidence float64

	// Duration of the full ask, routing included.
	Duration time.Duration

	// SessionID, when the query belonged to a session.
	SessionID string

	// Timestamp is when the query completed.
	Timestamp time.Time
}

// DomainStats aggregates recorded metrics for one domain.
type DomainStats struct {
	Domain        domain.Domain
	Queries       int
	Failures      int
	AvgConfidence float64
	AvgDuration   time.Duration
}

// MetricsStore records query metrics. Optional: a nil store disables
// metrics and the application runs normally. Recording failures are
// logged, never surfaced to the caller.
type MetricsStore interface {
	// Record persists one query metric.
	Record(ctx context.Context, m QueryMetric) error

	// Stats aggregates recorded metrics per domain.
	Stats(ctx context.Context) ([]DomainStats, error)
}
