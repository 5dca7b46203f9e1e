package service

import (
	"context"
	"fmt"
	"time"

	"appointments-service/api"
	"appointments-service/internal/models"
	"appointments-service/internal/slots"
)

// AvailableSlots returns the free slots of date, computed from fresh reads.
func (s *Service) AvailableSlots(ctx context.Context, date string) (*api.Slots, error) {
	const op = "service.AvailableSlots"

	day, err := parseDate("date", date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	free, _, err := s.daySlots(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ObserveSlotQuery(len(free))

	return &api.Slots{
		Date:  models.FormatDate(day),
		Slots: slots.Strings(free),
	}, nil
}

// daySlots loads everything that shapes day and computes its free slots.
// The appointments of day are returned as well.
func (s *Service) daySlots(ctx context.Context, day time.Time) ([]models.TimeOfDay, []models.Appointment, error) {
	const op = "service.daySlots"

	windows, err := s.store.ListAvailabilityWindows(ctx)
	if err != nil {
		return nil, nil, persistence(op, err)
	}

	recesses, err := s.store.ListRecessWindows(ctx)
	if err != nil {
		return nil, nil, persistence(op, err)
	}

	appointments, err := s.store.ListAppointments(ctx, models.AppointmentFilter{Date: &day})
	if err != nil {
		return nil, nil, persistence(op, err)
	}

	events, err := s.store.ListEvents(ctx, &day)
	if err != nil {
		return nil, nil, persistence(op, err)
	}

	in := slots.Input{
		Date:         day,
		Windows:      windows,
		Recesses:     recesses,
		Appointments: appointments,
		Events:       events,
		Location:     s.loc,
	}
	if s.leadTime {
		in.Now = s.now()
	}

	return slots.Compute(in), appointments, nil
}
