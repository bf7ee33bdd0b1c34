package crew

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

// MetricsCollector exports activity and async-operation counters from
// the event stream. Durations are derived by pairing Starts/Finished
// events on correlation id; an unmatched terminal event is ignored.
type MetricsCollector struct {
	activities *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	artifacts  prometheus.Counter
	asyncOps   *prometheus.CounterVec
	pending    prometheus.Gauge

	mu       sync.Mutex
	starts   map[events.CorrelationID]time.Time
	inflight map[events.CorrelationID]struct{}
}

// NewMetricsCollector registers the collector's metrics with reg.
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		activities: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Name:      "activities_total",
			Help:      "Activities finished, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stagehand",
			Name:      "activity_duration_seconds",
			Help:      "Wall time between an activity's Starts and Finished events.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		artifacts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stagehand",
			Name:      "artifacts_generated_total",
			Help:      "Artifacts attached to activities.",
		}),
		asyncOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Name:      "async_operations_total",
			Help:      "Crew-member side work, by terminal state.",
		}, []string{"state"}),
		pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "stagehand",
			Name:      "async_operations_pending",
			Help:      "Side work attempted but not yet terminal.",
		}),
		starts:   make(map[events.CorrelationID]time.Time),
		inflight: make(map[events.CorrelationID]struct{}),
	}
}

// AssignedTo implements screenplay.CrewMember.
func (m *MetricsCollector) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (m *MetricsCollector) NotifyOf(event events.DomainEvent) {
	switch e := event.(type) {
	case events.TaskStarts:
		m.markStart(e.ActivityID, e.Timestamp)
	case events.InteractionStarts:
		m.markStart(e.ActivityID, e.Timestamp)
	case events.TaskFinished:
		m.finish("task", e.ActivityID, e.Outcome, e.Timestamp)
	case events.InteractionFinished:
		m.finish("interaction", e.ActivityID, e.Outcome, e.Timestamp)
	case events.ActivityRelatedArtifactGenerated:
		m.artifacts.Inc()
	case events.AsyncOperationAttempted:
		m.markAttempt(e.CorrelationID)
	case events.AsyncOperationCompleted:
		m.settle(e.CorrelationID, "completed")
	case events.AsyncOperationFailed:
		m.settle(e.CorrelationID, "failed")
	case events.AsyncOperationAborted:
		m.settle(e.CorrelationID, "aborted")
	}
}

func (m *MetricsCollector) markAttempt(id events.CorrelationID) {
	m.mu.Lock()
	m.inflight[id] = struct{}{}
	m.mu.Unlock()
	m.pending.Inc()
}

func (m *MetricsCollector) settle(id events.CorrelationID, state string) {
	m.mu.Lock()
	_, ok := m.inflight[id]
	delete(m.inflight, id)
	m.mu.Unlock()

	if !ok {
		// Another pairing, or already finalized.
		return
	}
	m.pending.Dec()
	m.asyncOps.WithLabelValues(state).Inc()
}

func (m *MetricsCollector) markStart(id events.CorrelationID, at time.Time) {
	m.mu.Lock()
	m.starts[id] = at
	m.mu.Unlock()
}

func (m *MetricsCollector) finish(kind string, id events.CorrelationID, outcome events.Outcome, at time.Time) {
	m.mu.Lock()
	startedAt, ok := m.starts[id]
	delete(m.starts, id)
	m.mu.Unlock()

	if !ok {
		// Another pairing, or already finalized.
		return
	}
	m.activities.WithLabelValues(kind, string(outcome.Kind)).Inc()
	m.duration.WithLabelValues(kind).Observe(at.Sub(startedAt).Seconds())
}
