package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AvailabilityWindow is a recurring weekly range during which bookings are permitted.
// A nil TimeEnd makes the window contribute no slots.
type AvailabilityWindow struct {
	ID              string     `db:"id"`
	DaysOfWeek      Weekdays   `db:"days_of_week"`
	TimeStart       TimeOfDay  `db:"time_start"`
	TimeEnd         *TimeOfDay `db:"time_end"`
	MinimumLeadTime TimeOfDay  `db:"minimum_lead_time"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// RecessWindow blacks out [TimeStart, TimeEnd) on the weekdays it names,
// optionally only between DateBegin and DateEnd (inclusive).
type RecessWindow struct {
	ID         string     `db:"id"`
	DaysOfWeek Weekdays   `db:"days_of_week"`
	TimeStart  TimeOfDay  `db:"time_start"`
	TimeEnd    *TimeOfDay `db:"time_end"`
	DateBegin  *time.Time `db:"date_begin"`
	DateEnd    *time.Time `db:"date_end"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// AppliesOn reports whether the recess is in effect on date.
func (r RecessWindow) AppliesOn(date time.Time) bool {
	if !r.DaysOfWeek.Explicitly(date.Weekday()) {
		return false
	}

	day := DateOf(date)
	if r.DateBegin != nil && day.Before(DateOf(*r.DateBegin)) {
		return false
	}
	if r.DateEnd != nil && day.After(DateOf(*r.DateEnd)) {
		return false
	}

	return true
}

// Covers reports whether t falls inside the recess hours.
func (r RecessWindow) Covers(t TimeOfDay) bool {
	if t < r.TimeStart {
		return false
	}

	return r.TimeEnd == nil || t < *r.TimeEnd
}

type Event struct {
	ID          string    `db:"id"`
	Date        time.Time `db:"date"`
	Time        TimeOfDay `db:"time"`
	Title       string    `db:"title"`
	Link        string    `db:"link"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Appointment struct {
	ID        string    `db:"id"`
	UserEmail string    `db:"user_email"`
	Date      time.Time `db:"date"`
	Time      TimeOfDay `db:"time"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AppointmentFilter narrows appointment listings. Zero values do not filter.
type AppointmentFilter struct {
	Date      *time.Time
	UserEmail string
}

type CreditBalance struct {
	UserEmail string    `db:"user_email"`
	Credits   int       `db:"credits"`
	UpdatedAt time.Time `db:"updated_at"`
}
