package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts bridge activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	eventsReceived     *prometheus.CounterVec
	refetchesIssued    *prometheus.CounterVec
	refetchesCoalesced *prometheus.CounterVec
	payloadsDropped    *prometheus.CounterVec
}

// NewMetrics creates the bridge counters and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "bridge",
			Name:      "events_received_total",
			Help:      "Real-time events received, by event name.",
		}, []string{"event"}),
		refetchesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "bridge",
			Name:      "refetches_total",
			Help:      "Store refetches issued, by target.",
		}, []string{"target"}),
		refetchesCoalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "bridge",
			Name:      "refetches_coalesced_total",
			Help:      "Events folded into an already pending refetch, by event name.",
		}, []string{"event"}),
		payloadsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "youthhealth",
			Subsystem: "bridge",
			Name:      "payloads_dropped_total",
			Help:      "Events dropped because the payload did not parse, by event name.",
		}, []string{"event"}),
	}
	if reg != nil {
		reg.MustRegister(m.eventsReceived, m.refetchesIssued, m.refetchesCoalesced, m.payloadsDropped)
	}
	return m
}

func (m *Metrics) eventReceived(event string) {
	if m != nil {
		m.eventsReceived.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) refetched(target string) {
	if m != nil {
		m.refetchesIssued.WithLabelValues(target).Inc()
	}
}

func (m *Metrics) coalesced(event string) {
	if m != nil {
		m.refetchesCoalesced.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) dropped(event string) {
	if m != nil {
		m.payloadsDropped.WithLabelValues(event).Inc()
	}
}
