package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the submission module.
type Metrics struct {
	SubmissionsCreated prometheus.Counter
	PaymentsConfirmed  prometheus.Counter
	PaymentsRejected   prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	NotifyFailures     prometheus.Counter
}

// New creates a Metrics instance with all submission module metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mangonet_submissions_created_total",
			Help: "Total number of signup submissions created",
		}),
		PaymentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mangonet_payments_confirmed_total",
			Help: "Total number of payments verified and recorded",
		}),
		PaymentsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mangonet_payments_rejected_total",
			Help: "Total number of payment verifications that failed",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mangonet_status_transitions_total",
			Help: "Total staff-driven status transitions by target status",
		}, []string{"status"}),
		NotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mangonet_notifications_failed_total",
			Help: "Total notification dispatches that failed (best-effort delivery)",
		}),
	}
}

func (m *Metrics) IncrementSubmissionsCreated() { m.SubmissionsCreated.Inc() }
func (m *Metrics) IncrementPaymentsConfirmed()  { m.PaymentsConfirmed.Inc() }
func (m *Metrics) IncrementPaymentsRejected()   { m.PaymentsRejected.Inc() }
func (m *Metrics) IncrementNotifyFailures()     { m.NotifyFailures.Inc() }

func (m *Metrics) IncrementStatusTransition(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}
