package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"appointments-service/internal/models"
)

// 2024-03-04 is a Monday.
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func tod(s string) models.TimeOfDay {
	t, err := models.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func todPtr(s string) *models.TimeOfDay {
	t := tod(s)
	return &t
}

func window(days models.Weekdays, start, end string) models.AvailabilityWindow {
	w := models.AvailabilityWindow{ID: start + "-" + end, DaysOfWeek: days, TimeStart: tod(start)}
	if end != "" {
		w.TimeEnd = todPtr(end)
	}
	return w
}

func TestCompute(t *testing.T) {
	nineToNoon := window(nil, "09:00", "12:00")

	tests := []struct {
		name string
		in   Input
		want []string
	}{
		{
			name: "single window every day",
			in:   Input{Date: monday, Windows: []models.AvailabilityWindow{nineToNoon}},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "recess removes covered tick",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{nineToNoon},
				Recesses: []models.RecessWindow{{
					DaysOfWeek: models.Weekdays{time.Monday},
					TimeStart:  tod("10:00"),
					TimeEnd:    todPtr("11:00"),
				}},
			},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "open ended recess blacks out the rest of the day",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{nineToNoon},
				Recesses: []models.RecessWindow{{
					DaysOfWeek: models.Weekdays{time.Monday},
					TimeStart:  tod("10:00"),
				}},
			},
			want: []string{"09:00"},
		},
		{
			name: "recess on another weekday is ignored",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{nineToNoon},
				Recesses: []models.RecessWindow{{
					DaysOfWeek: models.Weekdays{time.Tuesday},
					TimeStart:  tod("09:00"),
				}},
			},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "recess outside its date range is ignored",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{nineToNoon},
				Recesses: []models.RecessWindow{{
					DaysOfWeek: models.Weekdays{time.Monday},
					TimeStart:  tod("09:00"),
					DateBegin:  ptrTime(monday.AddDate(0, 0, 7)),
				}},
			},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "appointment occupies its slot",
			in: Input{
				Date:         monday,
				Windows:      []models.AvailabilityWindow{nineToNoon},
				Appointments: []models.Appointment{{Date: monday, Time: tod("11:00")}},
			},
			want: []string{"09:00", "10:00"},
		},
		{
			name: "appointment on another date is ignored",
			in: Input{
				Date:         monday,
				Windows:      []models.AvailabilityWindow{nineToNoon},
				Appointments: []models.Appointment{{Date: monday.AddDate(0, 0, 1), Time: tod("11:00")}},
			},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "event occupies its slot",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{nineToNoon},
				Events:  []models.Event{{Date: monday, Time: tod("09:00")}},
			},
			want: []string{"10:00", "11:00"},
		},
		{
			name: "overlapping windows are deduplicated",
			in: Input{
				Date: monday,
				Windows: []models.AvailabilityWindow{
					window(models.Weekdays{time.Monday}, "10:00", "12:00"),
					window(models.Weekdays{time.Monday}, "09:00", "11:00"),
				},
			},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "window for another weekday contributes nothing",
			in: Input{
				Date:    monday.AddDate(0, 0, 1),
				Windows: []models.AvailabilityWindow{window(models.Weekdays{time.Monday}, "09:00", "12:00")},
			},
			want: []string{},
		},
		{
			name: "window without end contributes nothing",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{window(nil, "09:00", "")},
			},
			want: []string{},
		},
		{
			name: "ticks start at the window start",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{window(nil, "09:30", "12:00")},
			},
			want: []string{"09:30", "10:30", "11:30"},
		},
		{
			name: "single digit hours sort numerically",
			in: Input{
				Date: monday,
				Windows: []models.AvailabilityWindow{
					window(nil, "10:00", "11:00"),
					window(nil, "8:00", "10:00"),
				},
			},
			want: []string{"08:00", "09:00", "10:00"},
		},
		{
			name: "inverted window contributes nothing",
			in: Input{
				Date:    monday,
				Windows: []models.AvailabilityWindow{window(nil, "12:00", "09:00")},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strings(Compute(tt.in))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_EveryWeekday(t *testing.T) {
	windows := []models.AvailabilityWindow{window(nil, "09:00", "12:00")}

	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		got := Strings(Compute(Input{Date: day, Windows: windows}))
		assert.Equal(t, []string{"09:00", "10:00", "11:00"}, got, day.Weekday().String())
	}
}

func TestCompute_MinimumLeadTime(t *testing.T) {
	w := window(nil, "09:00", "13:00")
	w.MinimumLeadTime = tod("02:00")

	now := time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC)
	got := Strings(Compute(Input{Date: monday, Windows: []models.AvailabilityWindow{w}, Now: now}))

	assert.Equal(t, []string{"11:00", "12:00"}, got)
}

func TestCompute_MinimumLeadTimeUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	w := window(nil, "09:00", "12:00")

	// 14:30 UTC is 09:30 at UTC-5.
	now := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	got := Strings(Compute(Input{Date: monday, Windows: []models.AvailabilityWindow{w}, Now: now, Location: loc}))

	assert.Equal(t, []string{"10:00", "11:00"}, got)
}

func TestContains(t *testing.T) {
	list := []models.TimeOfDay{tod("09:00"), tod("11:00")}

	assert.True(t, Contains(list, tod("11:00")))
	assert.False(t, Contains(list, tod("10:00")))
	assert.False(t, Contains(nil, tod("10:00")))
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
