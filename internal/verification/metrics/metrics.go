package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checks                prometheus.CounterVec
	ActivityRegistrations prometheus.CounterVec
	AttendeeRegistrations prometheus.CounterVec
	ConfirmationsDeclined prometheus.Counter
	InFlight              prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Checks: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "totem_verification_checks_total",
			Help: "CPF existence checks by classified outcome",
		}, []string{"outcome"}),
		ActivityRegistrations: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "totem_activity_registrations_total",
			Help: "Activity registration attempts by classified outcome",
		}, []string{"outcome"}),
		AttendeeRegistrations: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "totem_attendee_registrations_total",
			Help: "New attendee registrations by classified outcome",
		}, []string{"outcome"}),
		ConfirmationsDeclined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "totem_confirmations_declined_total",
			Help: "Confirmation gates answered with no",
		}),
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "totem_backend_calls_in_flight",
			Help: "Backend calls currently in flight",
		}),
	}
}

func (m *Metrics) ObserveCheck(outcome string) {
	m.Checks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveActivity(outcome string) {
	m.ActivityRegistrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRegistration(outcome string) {
	m.AttendeeRegistrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementDeclined() {
	m.ConfirmationsDeclined.Inc()
}

func (m *Metrics) CallStarted()  { m.InFlight.Inc() }
func (m *Metrics) CallFinished() { m.InFlight.Dec() }
