package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	BookingBooked    = "booked"
	BookingDuplicate = "duplicate"
	BookingInvalid   = "invalid"
	BookingFailed    = "failed"
)

// SchedulingMetrics exposes counters for slot queries, bookings and calendar mirroring.
type SchedulingMetrics struct {
	slotQueries  prometheus.Counter
	slotsOffered prometheus.Histogram
	bookings     *prometheus.CounterVec
	calendarSync *prometheus.CounterVec
	credits      prometheus.Counter
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		slotQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "slots",
			Name:      "queries_total",
			Help:      "Total available slot computations",
		}),
		slotsOffered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "appointments",
			Subsystem: "slots",
			Name:      "offered",
			Help:      "Number of free slots returned per query",
			Buckets:   []float64{0, 1, 2, 4, 8, 12, 16, 24},
		}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Booking attempts by outcome",
		}, []string{"result"}),
		calendarSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "calendar",
			Name:      "sync_total",
			Help:      "External calendar mirror attempts by status",
		}, []string{"status"}),
		credits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "credits",
			Name:      "granted_total",
			Help:      "Credits granted by payment webhooks",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotQueries, m.slotsOffered, m.bookings, m.calendarSync, m.credits)
	return m
}

func (m *SchedulingMetrics) ObserveSlotQuery(offered int) {
	if m == nil {
		return
	}
	m.slotQueries.Inc()
	m.slotsOffered.Observe(float64(offered))
}

func (m *SchedulingMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
}

func (m *SchedulingMetrics) ObserveCalendarSync(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.calendarSync.WithLabelValues(status).Inc()
}

func (m *SchedulingMetrics) ObserveCreditsGranted(n int) {
	if m == nil {
		return
	}
	m.credits.Add(float64(n))
}
