package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"appointments-service/internal/calendar"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

// memStore is an in-memory Store. Appointments are unique per (date, time)
// like the Postgres constraint.
type memStore struct {
	mu           sync.Mutex
	windows      map[string]models.AvailabilityWindow
	recesses     map[string]models.RecessWindow
	events       map[string]models.Event
	appointments map[string]models.Appointment
	credits      map[string]int

	createAppointmentErr error
	listErr              error
}

func newMemStore() *memStore {
	return &memStore{
		windows:      map[string]models.AvailabilityWindow{},
		recesses:     map[string]models.RecessWindow{},
		events:       map[string]models.Event{},
		appointments: map[string]models.Appointment{},
		credits:      map[string]int{},
	}
}

func (m *memStore) CreateAvailabilityWindow(_ context.Context, w *models.AvailabilityWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[w.ID] = *w
	return nil
}

func (m *memStore) GetAvailabilityWindow(_ context.Context, id string) (*models.AvailabilityWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return &w, nil
}

func (m *memStore) ListAvailabilityWindows(context.Context) ([]models.AvailabilityWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.AvailabilityWindow, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, w)
	}
	return out, nil
}

func (m *memStore) UpdateAvailabilityWindow(_ context.Context, w *models.AvailabilityWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[w.ID]; !ok {
		return response.ErrNotFound
	}
	m.windows[w.ID] = *w
	return nil
}

func (m *memStore) DeleteAvailabilityWindow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.windows, id)
	return nil
}

func (m *memStore) CreateRecessWindow(_ context.Context, r *models.RecessWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recesses[r.ID] = *r
	return nil
}

func (m *memStore) GetRecessWindow(_ context.Context, id string) (*models.RecessWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recesses[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return &r, nil
}

func (m *memStore) ListRecessWindows(context.Context) ([]models.RecessWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.RecessWindow, 0, len(m.recesses))
	for _, r := range m.recesses {
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) UpdateRecessWindow(_ context.Context, r *models.RecessWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recesses[r.ID]; !ok {
		return response.ErrNotFound
	}
	m.recesses[r.ID] = *r
	return nil
}

func (m *memStore) DeleteRecessWindow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recesses[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.recesses, id)
	return nil
}

func (m *memStore) CreateEvent(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) ListEvents(_ context.Context, date *time.Time) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for _, e := range m.events {
		if date == nil || e.Date.Equal(*date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) UpdateEvent(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return response.ErrNotFound
	}
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) CreateAppointment(_ context.Context, a *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createAppointmentErr != nil {
		return m.createAppointmentErr
	}
	for _, existing := range m.appointments {
		if existing.Date.Equal(a.Date) && existing.Time == a.Time {
			return fmt.Errorf("insert: %w", response.ErrDuplicateSlot)
		}
	}
	m.appointments[a.ID] = *a
	return nil
}

func (m *memStore) GetAppointment(_ context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	return &a, nil
}

func (m *memStore) ListAppointments(_ context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.appointments {
		if f.Date != nil && !a.Date.Equal(*f.Date) {
			continue
		}
		if f.UserEmail != "" && a.UserEmail != f.UserEmail {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (m *memStore) DeleteAppointment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *memStore) GetCredits(_ context.Context, email string) (*models.CreditBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.CreditBalance{UserEmail: email, Credits: m.credits[email]}, nil
}

func (m *memStore) AddCredits(_ context.Context, _, email string, n int, at time.Time) (*models.CreditBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits[email] += n
	return &models.CreditBalance{UserEmail: email, Credits: m.credits[email], UpdatedAt: at}, nil
}

func (m *memStore) appointmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appointments)
}

// memLocker grants each key once until it is released.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func newMemLocker() *memLocker {
	return &memLocker{held: map[string]bool{}}
}

func (l *memLocker) Lock(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *memLocker) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

type fakeCalendar struct {
	mu      sync.Mutex
	link    string
	err     error
	entries []calendar.Entry
}

func (c *fakeCalendar) CreateEvent(_ context.Context, e calendar.Entry) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	if c.err != nil {
		return "", c.err
	}
	return c.link, nil
}

var errBoom = errors.New("boom")

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
