package api

import (
	"time"

	"appointments-service/internal/models"
)

// Availability

type AvailabilityRequest struct {
	DaysOfWeek      string `json:"days_of_week"`
	TimeStart       string `json:"time_start"`
	TimeEnd         string `json:"time_end,omitempty"`
	MinimumLeadTime string `json:"time_before_request"`
}

type Availability struct {
	ID              string    `json:"id"`
	DaysOfWeek      []string  `json:"days_of_week"`
	TimeStart       string    `json:"time_start"`
	TimeEnd         *string   `json:"time_end"`
	MinimumLeadTime string    `json:"time_before_request"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromAvailabilityWindow(w models.AvailabilityWindow) Availability {
	return Availability{
		ID:              w.ID,
		DaysOfWeek:      w.DaysOfWeek.Names(),
		TimeStart:       w.TimeStart.String(),
		TimeEnd:         optionalTime(w.TimeEnd),
		MinimumLeadTime: w.MinimumLeadTime.String(),
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// Recess

type RecessRequest struct {
	DaysOfWeek string `json:"days_of_week"`
	TimeStart  string `json:"time_start"`
	TimeEnd    string `json:"time_end,omitempty"`
	DateBegin  string `json:"date_begin,omitempty"`
	DateEnd    string `json:"date_end,omitempty"`
}

type Recess struct {
	ID         string    `json:"id"`
	DaysOfWeek []string  `json:"days_of_week"`
	TimeStart  string    `json:"time_start"`
	TimeEnd    *string   `json:"time_end"`
	DateBegin  *string   `json:"date_begin"`
	DateEnd    *string   `json:"date_end"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func FromRecessWindow(r models.RecessWindow) Recess {
	return Recess{
		ID:         r.ID,
		DaysOfWeek: r.DaysOfWeek.Names(),
		TimeStart:  r.TimeStart.String(),
		TimeEnd:    optionalTime(r.TimeEnd),
		DateBegin:  optionalDate(r.DateBegin),
		DateEnd:    optionalDate(r.DateEnd),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Events

type EventRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Link        string `json:"link,omitempty"`
	Description string `json:"description,omitempty"`
}

type Event struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromEvent(e models.Event) Event {
	return Event{
		ID:          e.ID,
		Date:        models.FormatDate(e.Date),
		Time:        e.Time.String(),
		Title:       e.Title,
		Link:        e.Link,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// Slots

type Slots struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// Appointments

type AppointmentRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type Appointment struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromAppointment(a models.Appointment) Appointment {
	return Appointment{
		ID:        a.ID,
		UserEmail: a.UserEmail,
		Date:      models.FormatDate(a.Date),
		Time:      a.Time.String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromAppointments(list []models.Appointment) []Appointment {
	out := make([]Appointment, 0, len(list))
	for _, a := range list {
		out = append(out, FromAppointment(a))
	}
	return out
}

// BookingResult is returned by a successful booking. A failed calendar
// mirror does not undo the booking; it is reported here instead.
type BookingResult struct {
	Appointment        Appointment `json:"appointment"`
	CalendarSyncFailed bool        `json:"calendar_sync_failed"`
	CalendarError      string      `json:"calendar_error,omitempty"`
	CalendarLink       string      `json:"calendar_link,omitempty"`
}

// Credits

type Credits struct {
	UserEmail string `json:"user_email"`
	Credits   int    `json:"credits"`
}

// Payment is a settled purchase reported by the payment provider.
type Payment struct {
	EventID string
	Email   string
	Amount  int64
}

type PaymentResult struct {
	Duplicate bool `json:"duplicate,omitempty"`
	Granted   int  `json:"granted"`
	Credits   int  `json:"credits"`
}

func optionalTime(t *models.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := models.FormatDate(*t)
	return &s
}
