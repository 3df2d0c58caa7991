// Package metrics groups the Prometheus instruments recorded by the delivery
// packages.
//
// A Metrics value is registered once at startup against an injected
// prometheus.Registerer and passed to components through their options. A nil
// *Metrics is valid and records nothing, so libraries never require a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the delivery packages.
type Metrics struct {
	Dispatched          *prometheus.CounterVec
	DispatchFailed      *prometheus.CounterVec
	DispatchLatency     *prometheus.HistogramVec
	RecipientsFiltered  prometheus.Counter
	AttachmentsResolved *prometheus.CounterVec
}

// New registers all instruments with the given registerer.
// A custom registry keeps tests isolated from the global default one.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Notifications accepted by the active dispatch strategy.",
		}, []string{"kind", "strategy"}),

		DispatchFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatch_failed_total",
			Help: "Notifications the active dispatch strategy failed to deliver.",
		}, []string{"kind", "strategy"}),

		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notification_dispatch_seconds",
			Help:    "Time spent inside the dispatch strategy per notification.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "strategy"}),

		RecipientsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notification_recipients_filtered_total",
			Help: "Recipients removed by the testing domain filter.",
		}),

		AttachmentsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_attachments_resolved_total",
			Help: "Attachments resolved, by source and outcome.",
		}, []string{"source", "outcome"}),
	}

	reg.MustRegister(
		m.Dispatched,
		m.DispatchFailed,
		m.DispatchLatency,
		m.RecipientsFiltered,
		m.AttachmentsResolved,
	)

	return m
}

// ObserveDispatch records the outcome of a single dispatch.
func (m *Metrics) ObserveDispatch(kind, strategy string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DispatchLatency.WithLabelValues(kind, strategy).Observe(d.Seconds())
	if err != nil {
		m.DispatchFailed.WithLabelValues(kind, strategy).Inc()
		return
	}
	m.Dispatched.WithLabelValues(kind, strategy).Inc()
}

// RecipientFiltered counts a recipient removed by the filter.
func (m *Metrics) RecipientFiltered() {
	if m == nil {
		return
	}
	m.RecipientsFiltered.Inc()
}

// AttachmentResolved counts a resolved attachment.
func (m *Metrics) AttachmentResolved(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.AttachmentsResolved.WithLabelValues(source, outcome).Inc()
}
