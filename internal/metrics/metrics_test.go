package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSchedulingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveSlotQuery(3)
	m.ObserveBooking(BookingBooked)
	m.ObserveBooking(BookingDuplicate)
	m.ObserveBooking(BookingDuplicate)
	m.ObserveCalendarSync(true)
	m.ObserveCalendarSync(false)
	m.ObserveCreditsGranted(5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotQueries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingBooked)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues(BookingDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calendarSync.WithLabelValues("failed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.credits))
}

func TestSchedulingMetrics_NilIsSafe(t *testing.T) {
	var m *SchedulingMetrics

	m.ObserveSlotQuery(1)
	m.ObserveBooking(BookingFailed)
	m.ObserveCalendarSync(false)
	m.ObserveCreditsGranted(1)
}
