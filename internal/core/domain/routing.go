package domain

// Routing policy constants.
const (
	// RoutingThreshold is the minimum confidence for an unambiguous
	// single-domain route. Below it the query is treated as ambiguous.
	RoutingThreshold = 0.7

	// SecondaryThreshold is the minimum confidence for a domain to
	// participate in an ambiguous multi-domain dispatch.
	SecondaryThreshold = 0.3

	// AmbiguityBand is how far below the top confidence a runner-up
	// may sit and still be dispatched in the ambiguous case.
	AmbiguityBand = 0.15

	// MaxFanout caps how many domains an ambiguous query fans out to.
	MaxFanout = 2

	// MaxTopK caps retrieval depth; out-of-range requests are clamped.
	MaxTopK = 20

	// DefaultTopK is the retrieval depth when the caller passes zero.
	DefaultTopK = 5
)

// RoutingScore is one domain's estimated relevance to a query.
// Scores are computed independently per domain and are not normalised
// across domains. Ephemeral: produced and discarded within one query.
type RoutingScore struct {
	// Domain being scored.
	Domain Domain

	// Confidence in [0,1]. Higher means more relevant.
	Confidence float64
}

// RouteOutcome names the terminal state of one routed query.
type RouteOutcome string

const (
	// Routed means a single domain answered.
	Routed RouteOutcome = "routed"

	// MultiRouted means an ambiguous query was answered by synthesis
	// across several domains.
	MultiRouted RouteOutcome = "multi_routed"

	// Failed means every dispatched domain failed to generate.
	Failed RouteOutcome = "failed"
)
