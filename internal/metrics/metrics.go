package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics expõe contadores de agendamento, sweeper e notas.
// Todos os métodos aceitam receiver nil.
type SchedulerMetrics struct {
	bookings      *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	sweepRuns     *prometheus.CounterVec
	sweepComplete prometheus.Counter
	ratings       *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by result",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Appointment status transitions",
		}, []string{"to"}),
		sweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "sweeper",
			Name:      "runs_total",
			Help:      "Sweeper executions by outcome",
		}, []string{"outcome"}),
		sweepComplete: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "sweeper",
			Name:      "completed_total",
			Help:      "Appointments moved to completed by the sweeper",
		}),
		ratings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "ratings",
			Name:      "created_total",
			Help:      "Ratings by value",
		}, []string{"value"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "doctor_scheduler",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookings, m.transitions, m.sweepRuns, m.sweepComplete, m.ratings, m.httpLatency)
	return m
}

func (m *SchedulerMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
}

func (m *SchedulerMetrics) ObserveTransition(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

func (m *SchedulerMetrics) ObserveSweep(outcome string, completed int) {
	if m == nil {
		return
	}
	m.sweepRuns.WithLabelValues(outcome).Inc()
	m.sweepComplete.Add(float64(completed))
}

func (m *SchedulerMetrics) ObserveRating(value int) {
	if m == nil {
		return
	}
	m.ratings.WithLabelValues(ratingLabel(value)).Inc()
}

func (m *SchedulerMetrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, status).Observe(seconds)
}

func ratingLabel(v int) string {
	if v < 1 || v > 5 {
		return "invalid"
	}
	return string(rune('0' + v))
}
