package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"zero padded", "09:00", NewTimeOfDay(9, 0), false},
		{"single digit hour", "9:00", NewTimeOfDay(9, 0), false},
		{"with seconds", "17:30:00", NewTimeOfDay(17, 30), false},
		{"midnight", "00:00", 0, false},
		{"last minute", "23:59", NewTimeOfDay(23, 59), false},
		{"hour out of range", "24:00", 0, true},
		{"minute out of range", "10:60", 0, true},
		{"short minute", "10:5", 0, true},
		{"garbage", "noon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_StringIsZeroPadded(t *testing.T) {
	nine, err := ParseTimeOfDay("9:00")
	require.NoError(t, err)

	assert.Equal(t, "09:00", nine.String())
	assert.True(t, nine < NewTimeOfDay(10, 0), "ordering must be numeric, not lexicographic")
}

func TestTimeOfDay_Scan(t *testing.T) {
	var tod TimeOfDay

	require.NoError(t, tod.Scan([]byte("14:30:00")))
	assert.Equal(t, NewTimeOfDay(14, 30), tod)

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(8, 15), tod)

	assert.Error(t, tod.Scan(nil))
	assert.Error(t, tod.Scan(42))

	v, err := NewTimeOfDay(7, 5).Value()
	require.NoError(t, err)
	assert.Equal(t, "07:05:00", v)
}

func TestTimeOfDay_Duration(t *testing.T) {
	lead, err := ParseTimeOfDay("02:30")
	require.NoError(t, err)

	assert.Equal(t, 150*time.Minute, lead.Duration())
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Weekdays
		wantErr bool
	}{
		{"empty means every day", "", nil, false},
		{"blank entries only", " , ", nil, false},
		{"every day token", "every day", nil, false},
		{"single", "Monday", Weekdays{time.Monday}, false},
		{"mixed case and short names", "friday, MON,tue", Weekdays{time.Monday, time.Tuesday, time.Friday}, false},
		{"duplicates collapse", "Monday,Monday", Weekdays{time.Monday}, false},
		{"unknown name", "Funday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeekday)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdays_Includes(t *testing.T) {
	var all Weekdays
	assert.True(t, all.Includes(time.Tuesday))
	assert.False(t, all.Explicitly(time.Tuesday))

	monday := Weekdays{time.Monday}
	assert.True(t, monday.Includes(time.Monday))
	assert.False(t, monday.Includes(time.Tuesday))
	assert.Equal(t, []string{"Monday"}, monday.Names())
	assert.Nil(t, all.Names())
}

func TestRecessWindow_AppliesOn(t *testing.T) {
	begin := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)
	recess := RecessWindow{
		DaysOfWeek: Weekdays{time.Monday},
		TimeStart:  NewTimeOfDay(12, 0),
		DateBegin:  &begin,
		DateEnd:    &end,
	}

	assert.True(t, recess.AppliesOn(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)), "first day is inclusive")
	assert.True(t, recess.AppliesOn(time.Date(2024, 7, 29, 0, 0, 0, 0, time.UTC)), "last monday in range")
	assert.False(t, recess.AppliesOn(time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)), "tuesday")
	assert.False(t, recess.AppliesOn(time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)), "monday after range")

	recess.DaysOfWeek = nil
	assert.False(t, recess.AppliesOn(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)), "recess needs explicit weekdays")
}

func TestRecessWindow_Covers(t *testing.T) {
	end := NewTimeOfDay(13, 0)
	recess := RecessWindow{TimeStart: NewTimeOfDay(12, 0), TimeEnd: &end}

	assert.False(t, recess.Covers(NewTimeOfDay(11, 0)))
	assert.True(t, recess.Covers(NewTimeOfDay(12, 0)))
	assert.False(t, recess.Covers(NewTimeOfDay(13, 0)))

	recess.TimeEnd = nil
	assert.True(t, recess.Covers(NewTimeOfDay(23, 0)), "open ended recess covers the rest of the day")
}
