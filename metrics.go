package goThrottle

import "sync/atomic"

// MetricID defines a public type used by goThrottle APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricEvaluations is an exported constant or variable used by the rate limiting engine.
	MetricEvaluations MetricID = iota
	// MetricAllowed is an exported constant or variable used by the rate limiting engine.
	MetricAllowed
	// MetricDenied is an exported constant or variable used by the rate limiting engine.
	MetricDenied
	// MetricUnlimited is an exported constant or variable used by the rate limiting engine.
	MetricUnlimited
	// MetricTokenRejected is an exported constant or variable used by the rate limiting engine.
	MetricTokenRejected
	// MetricStoreErrors is an exported constant or variable used by the rate limiting engine.
	MetricStoreErrors
	// MetricMissingAddress is an exported constant or variable used by the rate limiting engine.
	MetricMissingAddress

	// MetricCount is the number of defined metric slots.
	MetricCount
)

var metricNames = [MetricCount]string{
	MetricEvaluations:    "gothrottle_evaluations_total",
	MetricAllowed:        "gothrottle_allowed_total",
	MetricDenied:         "gothrottle_denied_total",
	MetricUnlimited:      "gothrottle_unlimited_total",
	MetricTokenRejected:  "gothrottle_token_rejected_total",
	MetricStoreErrors:    "gothrottle_store_errors_total",
	MetricMissingAddress: "gothrottle_missing_address_total",
}

var metricHelp = [MetricCount]string{
	MetricEvaluations:    "Rate limit evaluations performed.",
	MetricAllowed:        "Requests admitted within their window quota.",
	MetricDenied:         "Requests rejected with a retry-after signal.",
	MetricUnlimited:      "Evaluations short-circuited for unlimited identities.",
	MetricTokenRejected:  "Bearer tokens that failed verification and fell back to anonymous resolution.",
	MetricStoreErrors:    "Counter store failures surfaced as evaluation errors.",
	MetricMissingAddress: "Anonymous requests with no network address while limiting was active.",
}

// Name returns the stable exposition name for the metric.
func (id MetricID) Name() string {
	if id >= MetricCount {
		return ""
	}
	return metricNames[id]
}

// Help returns the one-line description for the metric.
func (id MetricID) Help() string {
	if id >= MetricCount {
		return ""
	}
	return metricHelp[id]
}

// MetricsSnapshot is a point-in-time copy of the engine counters, safe to hand
// to exporters without further synchronization. Zero-valued counters are omitted.
//
//	Docs: docs/metrics.md
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// metricSet is the lock-free counter registry. Fixed slots, atomic adds, no
// allocation on the hot path.
type metricSet struct {
	counters [MetricCount]atomic.Uint64
}

func (m *metricSet) add(id MetricID) {
	if id < MetricCount {
		m.counters[id].Add(1)
	}
}

func (m *metricSet) snapshot() MetricsSnapshot {
	out := MetricsSnapshot{Counters: make(map[MetricID]uint64, MetricCount)}
	for id := MetricID(0); id < MetricCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			out.Counters[id] = v
		}
	}
	return out
}
