package service

import (
	"context"
	"fmt"

	"appointments-service/api"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

// ListAppointments returns every appointment to admins and the caller's own
// to everybody else, optionally restricted to date.
func (s *Service) ListAppointments(ctx context.Context, email string, role models.Role, date string) ([]api.Appointment, error) {
	const op = "service.ListAppointments"

	day, err := parseOptionalDate("date", date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filter := models.AppointmentFilter{Date: day}
	if role != models.RoleAdmin {
		filter.UserEmail = email
	}

	list, err := s.store.ListAppointments(ctx, filter)
	if err != nil {
		return nil, persistence(op, err)
	}

	return api.FromAppointments(list), nil
}

func (s *Service) UserAppointments(ctx context.Context, email string) ([]api.Appointment, error) {
	const op = "service.UserAppointments"

	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, response.Invalid("user_email", "is required"))
	}

	list, err := s.store.ListAppointments(ctx, models.AppointmentFilter{UserEmail: email})
	if err != nil {
		return nil, persistence(op, err)
	}

	return api.FromAppointments(list), nil
}

// DeleteAppointment cancels an appointment. Only its owner or an admin may.
func (s *Service) DeleteAppointment(ctx context.Context, id, email string, role models.Role) error {
	const op = "service.DeleteAppointment"

	a, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return persistence(op, err)
	}

	if role != models.RoleAdmin && a.UserEmail != email {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if err := s.store.DeleteAppointment(ctx, id); err != nil {
		return persistence(op, err)
	}

	s.log.Info("appointment cancelled", "id", id, "date", models.FormatDate(a.Date), "time", a.Time.String())

	return nil
}
