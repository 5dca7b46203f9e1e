package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"appointments-service/internal/calendar"
	"appointments-service/internal/lock"
	"appointments-service/internal/metrics"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

const (
	defaultLockTTL       = 10 * time.Second
	defaultBundleCredits = 5
)

type Service struct {
	store    Store
	locker   lock.Locker
	calendar calendar.Syncer
	metrics  *metrics.SchedulingMetrics
	log      *slog.Logger

	now      func() time.Time
	newID    func() string
	loc      *time.Location
	lockTTL  time.Duration
	leadTime bool

	singleCreditPrice int64
	bundleCredits     int
}

type Store interface {
	// Availability windows
	CreateAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error
	GetAvailabilityWindow(ctx context.Context, id string) (*models.AvailabilityWindow, error)
	ListAvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error)
	UpdateAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error
	DeleteAvailabilityWindow(ctx context.Context, id string) error

	// Recess windows
	CreateRecessWindow(ctx context.Context, r *models.RecessWindow) error
	GetRecessWindow(ctx context.Context, id string) (*models.RecessWindow, error)
	ListRecessWindows(ctx context.Context) ([]models.RecessWindow, error)
	UpdateRecessWindow(ctx context.Context, r *models.RecessWindow) error
	DeleteRecessWindow(ctx context.Context, id string) error

	// Events
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, date *time.Time) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id string) error

	// Appointments
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	// Credits
	GetCredits(ctx context.Context, email string) (*models.CreditBalance, error)
	AddCredits(ctx context.Context, id, email string, n int, at time.Time) (*models.CreditBalance, error)
}

type Option func(*Service)

func WithCalendar(c calendar.Syncer) Option {
	return func(s *Service) { s.calendar = c }
}

func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLocation sets the zone slot times are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) { s.lockTTL = ttl }
}

// WithLeadTime turns the minimum lead time filter on or off.
func WithLeadTime(enabled bool) Option {
	return func(s *Service) { s.leadTime = enabled }
}

// WithBilling sets the price of a single credit and the size of a bundle.
func WithBilling(singleCreditPrice int64, bundleCredits int) Option {
	return func(s *Service) {
		s.singleCreditPrice = singleCreditPrice
		if bundleCredits > 0 {
			s.bundleCredits = bundleCredits
		}
	}
}

func NewService(store Store, locker lock.Locker, opts ...Option) *Service {
	s := &Service{
		store:         store,
		locker:        locker,
		calendar:      calendar.Disabled{},
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		newID:         uuid.NewString,
		loc:           time.UTC,
		lockTTL:       defaultLockTTL,
		bundleCredits: defaultBundleCredits,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.locker == nil {
		s.locker = lock.Noop{}
	}

	return s
}

// persistence wraps store failures that are not already part of the
// caller-facing taxonomy with response.ErrPersistence.
func persistence(op string, err error) error {
	switch {
	case errors.Is(err, response.ErrNotFound),
		errors.Is(err, response.ErrDuplicateSlot),
		errors.Is(err, response.ErrValidation):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, response.ErrPersistence, err)
	}
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, response.Invalid(field, "is required")
	}

	d, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, response.Invalid(field, "must be a YYYY-MM-DD date")
	}

	return d, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	d, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func parseTime(field, value string) (models.TimeOfDay, error) {
	if value == "" {
		return 0, response.Invalid(field, "is required")
	}

	t, err := models.ParseTimeOfDay(value)
	if err != nil {
		return 0, response.Invalid(field, "must be an HH:MM time")
	}

	return t, nil
}

func parseOptionalTime(field, value string) (*models.TimeOfDay, error) {
	t, err := models.ParseOptionalTimeOfDay(value)
	if err != nil {
		return nil, response.Invalid(field, "must be an HH:MM time")
	}

	return t, nil
}

func parseWeekdays(field, value string) (models.Weekdays, error) {
	days, err := models.ParseWeekdays(value)
	if err != nil {
		return nil, response.Invalid(field, err.Error())
	}

	return days, nil
}
