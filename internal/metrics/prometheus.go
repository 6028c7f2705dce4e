package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/denispionicul/party/types"
)

// PrometheusCollector implements types.MetricsCollector using Prometheus
// client metrics under the "party" namespace.
type PrometheusCollector struct {
	registerer prometheus.Registerer
	once       sync.Once
	regErr     error

	partiesCreated   *prometheus.CounterVec
	partiesDestroyed *prometheus.CounterVec
	membersAdded     prometheus.Counter
	membersRemoved   prometheus.Counter
	admissions       *prometheus.CounterVec
	ownerChanges     prometheus.Counter
	stateTransitions *prometheus.CounterVec
	handoffDuration  *prometheus.HistogramVec
	resolveDuration  *prometheus.HistogramVec
	storeDuration    *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a collector that registers its metrics with the
// given registerer on first use. A nil registerer defaults to
// prometheus.DefaultRegisterer.
func NewPrometheus(registerer prometheus.Registerer) *PrometheusCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &PrometheusCollector{registerer: registerer}
}

// ensure lazily builds and registers all metrics exactly once. Registration
// errors disable the collector rather than panicking at record time.
func (c *PrometheusCollector) ensure() bool {
	c.once.Do(func() {
		c.partiesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "parties_created_total",
			Help:      "Total number of parties created, by party type.",
		}, []string{"type"})

		c.partiesDestroyed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "parties_destroyed_total",
			Help:      "Total number of parties destroyed, by cause.",
		}, []string{"reason"})

		c.membersAdded = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "members_added_total",
			Help:      "Total number of members admitted into parties.",
		})

		c.membersRemoved = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "members_removed_total",
			Help:      "Total number of members removed from parties.",
		})

		c.admissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "admissions_total",
			Help:      "Total number of join attempts, by result.",
		}, []string{"result"})

		c.ownerChanges = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "owner_changes_total",
			Help:      "Total number of ownership transfers.",
		})

		c.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "party",
			Name:      "state_transitions_total",
			Help:      "Total number of party lifecycle transitions.",
		}, []string{"from", "to"})

		c.handoffDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "party",
			Name:      "handoff_duration_seconds",
			Help:      "Duration of cross-server transfer attempts, by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"})

		c.resolveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "party",
			Name:      "resolution_duration_seconds",
			Help:      "Duration of participant resolution during rehydration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resolved"})

		c.storeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "party",
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of snapshot store operations.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"op"})

		collectors := []prometheus.Collector{
			c.partiesCreated, c.partiesDestroyed,
			c.membersAdded, c.membersRemoved,
			c.admissions, c.ownerChanges, c.stateTransitions,
			c.handoffDuration, c.resolveDuration, c.storeDuration,
		}
		for _, col := range collectors {
			if err := c.registerer.Register(col); err != nil {
				c.regErr = err
				return
			}
		}
	})

	return c.regErr == nil
}

// RecordPartyCreated records a party creation.
func (c *PrometheusCollector) RecordPartyCreated(partyType types.PartyType) {
	if !c.ensure() {
		return
	}
	c.partiesCreated.WithLabelValues(partyType.String()).Inc()
}

// RecordPartyDestroyed records a party destruction with its cause.
func (c *PrometheusCollector) RecordPartyDestroyed(reason string) {
	if !c.ensure() {
		return
	}
	c.partiesDestroyed.WithLabelValues(reason).Inc()
}

// RecordMemberChange records roster changes.
func (c *PrometheusCollector) RecordMemberChange(added, removed int) {
	if !c.ensure() {
		return
	}
	if added > 0 {
		c.membersAdded.Add(float64(added))
	}
	if removed > 0 {
		c.membersRemoved.Add(float64(removed))
	}
}

// RecordAdmission records the outcome of a join attempt.
func (c *PrometheusCollector) RecordAdmission(result string) {
	if !c.ensure() {
		return
	}
	c.admissions.WithLabelValues(result).Inc()
}

// RecordOwnerChange records an ownership transfer.
func (c *PrometheusCollector) RecordOwnerChange(_ string) {
	if !c.ensure() {
		return
	}
	// Party ID is intentionally not a label; per-party cardinality is
	// unbounded.
	c.ownerChanges.Inc()
}

// RecordStateTransition records a party lifecycle transition.
func (c *PrometheusCollector) RecordStateTransition(from, to types.PartyState) {
	if !c.ensure() {
		return
	}
	c.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

// RecordHandoff records a transfer attempt.
func (c *PrometheusCollector) RecordHandoff(outcome string, seconds float64) {
	if !c.ensure() {
		return
	}
	c.handoffDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordResolution records one participant resolution outcome.
func (c *PrometheusCollector) RecordResolution(resolved bool, seconds float64) {
	if !c.ensure() {
		return
	}
	c.resolveDuration.WithLabelValues(strconv.FormatBool(resolved)).Observe(seconds)
}

// RecordStoreOperation records a snapshot store operation.
func (c *PrometheusCollector) RecordStoreOperation(op string, seconds float64) {
	if !c.ensure() {
		return
	}
	c.storeDuration.WithLabelValues(op).Observe(seconds)
}
