package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the appointment lifecycle.
type BookingMetrics struct {
	bookingsCreated *prometheus.CounterVec
	verifications   *prometheus.CounterVec
	slotConflicts   prometheus.Counter
	notifications   *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total appointments created",
		}, []string{"store"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "payments",
			Name:      "verifications_total",
			Help:      "Total payment verification attempts by outcome",
		}, []string{"outcome"}),
		slotConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "bookings",
			Name:      "slot_conflicts_total",
			Help:      "Confirmations rejected because the slot was already reserved",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Notification delivery attempts by sink and status",
		}, []string{"sink", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsCreated, m.verifications, m.slotConflicts, m.notifications)
	return m
}

func (m *BookingMetrics) ObserveBookingCreated(store string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(store).Inc()
}

func (m *BookingMetrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflicts.Inc()
}

func (m *BookingMetrics) ObserveNotification(sink string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.notifications.WithLabelValues(sink, status).Inc()
}
