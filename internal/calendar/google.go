// Package calendar mirrors confirmed bookings into an external calendar.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"appointments-service/internal/models"
)

const (
	dateTimeLayout  = "2006-01-02T15:04:05"
	defaultTimeZone = "America/New_York"
	defaultTimeout  = 10 * time.Second
	eventDuration   = time.Hour
)

var ErrNotConfigured = errors.New("calendar sync is not configured")

// Entry is one booking to mirror.
type Entry struct {
	Date        time.Time
	Time        models.TimeOfDay
	Summary     string
	Description string
}

// Syncer creates an event in an external calendar and returns a shareable link.
type Syncer interface {
	CreateEvent(ctx context.Context, e Entry) (string, error)
}

type Config struct {
	CalendarID      string
	TimeZone        string
	Timeout         time.Duration
	CredentialsFile string
	CredentialsJSON string
}

type Google struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
	loc        *time.Location
	timeout    time.Duration
}

// NewGoogle builds a Google Calendar client from service-account credentials.
// Extra options are appended after the credential options.
func NewGoogle(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Google, error) {
	const op = "calendar.NewGoogle"

	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	tz := cfg.TimeZone
	if tz == "" {
		tz = defaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%s: load time zone %q: %w", op, tz, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientOpts := []option.ClientOption{
		option.WithScopes(gcal.CalendarScope, gcal.CalendarEventsScope),
	}
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Google{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timeZone:   tz,
		loc:        loc,
		timeout:    timeout,
	}, nil
}

// CreateEvent inserts a one hour event starting at e.Date e.Time in the
// configured zone. The Meet link is returned when the calendar attached
// one, the event page otherwise.
func (g *Google) CreateEvent(ctx context.Context, e Entry) (string, error) {
	const op = "calendar.Google.CreateEvent"

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := e.Time.On(e.Date, g.loc)
	end := start.Add(eventDuration)

	event := &gcal.Event{
		Summary:     e.Summary,
		Description: e.Description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(dateTimeLayout),
			TimeZone: g.timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(dateTimeLayout),
			TimeZone: g.timeZone,
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if created.HangoutLink != "" {
		return created.HangoutLink, nil
	}

	return created.HtmlLink, nil
}

// Disabled is used when no calendar is configured. Every call fails with
// ErrNotConfigured so bookings report the missing mirror.
type Disabled struct{}

func (Disabled) CreateEvent(context.Context, Entry) (string, error) {
	return "", ErrNotConfigured
}
