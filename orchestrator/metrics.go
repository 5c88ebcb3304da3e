package orchestrator

import (
	"context"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/leadmesh/session"
)

// Metrics aggregates the orchestrator's Prometheus instruments. A nil
// *Metrics disables instrumentation; all record methods are nil-safe.
type Metrics struct {
	messagesProcessed prometheus.Counter
	failedReplies     prometheus.Counter
	fallbackReplies   prometheus.Counter
	actionsExecuted   *prometheus.CounterVec
	routedMessages    prometheus.Counter
	droppedMessages   prometheus.Counter
}

// NewMetrics constructs and registers the orchestrator instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadmesh_messages_processed_total",
			Help: "Total user messages processed through the direct call path",
		}),
		failedReplies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadmesh_failed_replies_total",
			Help: "Total responses carrying error metadata from a recovered conversational failure",
		}),
		fallbackReplies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadmesh_fallback_replies_total",
			Help: "Total fallback replies returned because no agent could be selected",
		}),
		actionsExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadmesh_actions_executed_total",
			Help: "Total out-of-band actions executed, by outcome",
		}, []string{"outcome"}),
		routedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadmesh_routed_messages_total",
			Help: "Total messages delivered to agent mailboxes by the routing loop",
		}),
		droppedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadmesh_dropped_messages_total",
			Help: "Total routed messages dropped because the receiver was unknown",
		}),
	}
	reg.MustRegister(
		m.messagesProcessed,
		m.failedReplies,
		m.fallbackReplies,
		m.actionsExecuted,
		m.routedMessages,
		m.droppedMessages,
	)
	return m
}

// RegisterSessionsGauge registers a gauge reporting the live session count,
// sampled from the store at scrape time. Stores that cannot count cheaply
// (Len returns a negative value or an error) report NaN.
func RegisterSessionsGauge(reg prometheus.Registerer, store session.Store) prometheus.GaugeFunc {
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "leadmesh_active_sessions",
		Help: "Number of live sessions in the session store",
	}, func() float64 {
		n, err := store.Len(context.Background())
		if err != nil || n < 0 {
			return math.NaN()
		}
		return float64(n)
	})
	reg.MustRegister(g)
	return g
}

func (m *Metrics) incProcessed() {
	if m != nil {
		m.messagesProcessed.Inc()
	}
}

func (m *Metrics) incFailed() {
	if m != nil {
		m.failedReplies.Inc()
	}
}

func (m *Metrics) incFallback() {
	if m != nil {
		m.fallbackReplies.Inc()
	}
}

func (m *Metrics) incAction(success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.actionsExecuted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incRouted() {
	if m != nil {
		m.routedMessages.Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.droppedMessages.Inc()
	}
}
