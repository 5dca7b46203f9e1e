package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"appointments-service/api"
	"appointments-service/internal/calendar"
	"appointments-service/internal/metrics"
	"appointments-service/internal/models"
	"appointments-service/internal/slots"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

const calendarSummary = "Appointment"

// BookAppointment reserves date/time for email and mirrors it into the
// external calendar. A calendar failure never undoes the reservation.
func (s *Service) BookAppointment(ctx context.Context, email string, req *api.AppointmentRequest) (*api.BookingResult, error) {
	const op = "service.BookAppointment"

	res, err := s.bookAppointment(ctx, email, req)

	switch {
	case err == nil:
		s.metrics.ObserveBooking(metrics.BookingBooked)
	case errors.Is(err, response.ErrDuplicateSlot):
		s.metrics.ObserveBooking(metrics.BookingDuplicate)
	case errors.Is(err, response.ErrValidation):
		s.metrics.ObserveBooking(metrics.BookingInvalid)
	default:
		s.metrics.ObserveBooking(metrics.BookingFailed)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

func (s *Service) bookAppointment(ctx context.Context, email string, req *api.AppointmentRequest) (*api.BookingResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, response.Invalid("user_email", "is required")
	}

	day, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	at, err := parseTime("time", req.Time)
	if err != nil {
		return nil, err
	}

	log := s.log.With(
		slog.String("user_email", email),
		slog.String("date", models.FormatDate(day)),
		slog.String("time", at.String()),
	)

	lockKey := fmt.Sprintf("slot:%sT%s", models.FormatDate(day), at)

	locked, err := s.locker.Lock(ctx, lockKey, s.lockTTL)
	switch {
	case err != nil:
		log.Warn("slot lock unavailable, relying on storage constraint", sl.Err(err))
	case !locked:
		return nil, response.ErrDuplicateSlot
	default:
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
				log.Warn("failed to release slot lock", sl.Err(err))
			}
		}()
	}

	free, taken, err := s.daySlots(ctx, day)
	if err != nil {
		return nil, err
	}

	for _, a := range taken {
		if a.Time == at {
			return nil, response.ErrDuplicateSlot
		}
	}

	if !slots.Contains(free, at) {
		return nil, response.Invalid("time", "slot is not available")
	}

	now := s.now()
	appointment := &models.Appointment{
		ID:        s.newID(),
		UserEmail: email,
		Date:      day,
		Time:      at,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateAppointment(ctx, appointment); err != nil {
		return nil, persistence("create appointment", err)
	}

	log.Info("appointment booked", slog.String("id", appointment.ID))

	result := &api.BookingResult{Appointment: api.FromAppointment(*appointment)}

	link, err := s.calendar.CreateEvent(context.WithoutCancel(ctx), calendar.Entry{
		Date:        day,
		Time:        at,
		Summary:     calendarSummary,
		Description: "Appointment with user: " + email,
	})
	if err != nil {
		log.Warn("calendar sync failed, booking kept", slog.String("id", appointment.ID), sl.Err(err))
		s.metrics.ObserveCalendarSync(false)
		result.CalendarSyncFailed = true
		result.CalendarError = calendarErrorMessage(err)
		return result, nil
	}

	s.metrics.ObserveCalendarSync(true)
	result.CalendarLink = link

	return result, nil
}

func calendarErrorMessage(err error) string {
	switch {
	case errors.Is(err, calendar.ErrNotConfigured):
		return "calendar sync is not configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "calendar sync timed out"
	default:
		return "calendar sync failed"
	}
}
