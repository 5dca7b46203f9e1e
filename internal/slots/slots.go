// Package slots derives the bookable time slots of a calendar day.
package slots

import (
	"sort"
	"time"

	"appointments-service/internal/models"
)

// Step is the distance between two consecutive slots of a window.
const Step = models.TimeOfDay(models.MinutesPerHour)

// Input holds everything Compute needs. Collections may hold records for
// other dates; only those on Date are considered.
type Input struct {
	Date         time.Time
	Windows      []models.AvailabilityWindow
	Recesses     []models.RecessWindow
	Appointments []models.Appointment
	Events       []models.Event

	// Now enables the minimum lead time filter. Zero disables it.
	Now time.Time
	// Location is the zone slots are expressed in, UTC when nil.
	Location *time.Location
}

// Compute returns the free slots of in.Date in ascending order without duplicates.
//
// A window contributes ticks from TimeStart, one hour apart, strictly before
// TimeEnd. A window without TimeEnd contributes nothing. A tick is dropped
// when an applicable recess covers it, when an appointment or event of the
// same date sits on it, or when it starts earlier than Now plus the window's
// minimum lead time.
func Compute(in Input) []models.TimeOfDay {
	day := models.DateOf(in.Date)
	weekday := day.Weekday()

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	occupied := occupiedTimes(day, in.Appointments, in.Events)

	recesses := make([]models.RecessWindow, 0, len(in.Recesses))
	for _, r := range in.Recesses {
		if r.AppliesOn(day) {
			recesses = append(recesses, r)
		}
	}

	free := make(map[models.TimeOfDay]struct{})

	for _, w := range in.Windows {
		if !w.DaysOfWeek.Includes(weekday) || w.TimeEnd == nil {
			continue
		}

		var earliest time.Time
		if !in.Now.IsZero() {
			earliest = in.Now.Add(w.MinimumLeadTime.Duration())
		}

		for t := w.TimeStart; t < *w.TimeEnd; t += Step {
			if _, taken := occupied[t]; taken {
				continue
			}
			if inRecess(recesses, t) {
				continue
			}
			if !earliest.IsZero() && t.On(day, loc).Before(earliest) {
				continue
			}

			free[t] = struct{}{}
		}
	}

	result := make([]models.TimeOfDay, 0, len(free))
	for t := range free {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })

	return result
}

// Strings formats slots as HH:MM.
func Strings(slots []models.TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}

	return out
}

// Contains reports whether t is one of slots.
func Contains(slots []models.TimeOfDay, t models.TimeOfDay) bool {
	i := sort.Search(len(slots), func(i int) bool { return slots[i] >= t })

	return i < len(slots) && slots[i] == t
}

func occupiedTimes(day time.Time, appointments []models.Appointment, events []models.Event) map[models.TimeOfDay]struct{} {
	occupied := make(map[models.TimeOfDay]struct{}, len(appointments)+len(events))

	for _, a := range appointments {
		if models.DateOf(a.Date).Equal(day) {
			occupied[a.Time] = struct{}{}
		}
	}

	for _, e := range events {
		if models.DateOf(e.Date).Equal(day) {
			occupied[e.Time] = struct{}{}
		}
	}

	return occupied
}

func inRecess(recesses []models.RecessWindow, t models.TimeOfDay) bool {
	for _, r := range recesses {
		if r.Covers(t) {
			return true
		}
	}

	return false
}
