package service

import (
	"context"
	"fmt"

	"appointments-service/api"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

// Availability windows

func (s *Service) CreateAvailability(ctx context.Context, req *api.AvailabilityRequest) (*api.Availability, error) {
	const op = "service.CreateAvailability"

	w := &models.AvailabilityWindow{ID: s.newID()}
	if err := applyAvailability(w, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	w.CreatedAt = now
	w.UpdatedAt = now

	if w.TimeEnd == nil {
		s.log.Debug("availability window has no end and offers no slots", "id", w.ID)
	}

	if err := s.store.CreateAvailabilityWindow(ctx, w); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromAvailabilityWindow(*w)
	return &out, nil
}

func (s *Service) GetAvailability(ctx context.Context, id string) (*api.Availability, error) {
	const op = "service.GetAvailability"

	w, err := s.store.GetAvailabilityWindow(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromAvailabilityWindow(*w)
	return &out, nil
}

func (s *Service) ListAvailability(ctx context.Context) ([]api.Availability, error) {
	const op = "service.ListAvailability"

	windows, err := s.store.ListAvailabilityWindows(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := make([]api.Availability, 0, len(windows))
	for _, w := range windows {
		out = append(out, api.FromAvailabilityWindow(w))
	}

	return out, nil
}

func (s *Service) UpdateAvailability(ctx context.Context, id string, req *api.AvailabilityRequest) (*api.Availability, error) {
	const op = "service.UpdateAvailability"

	w, err := s.store.GetAvailabilityWindow(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	if err := applyAvailability(w, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w.UpdatedAt = s.now()

	if err := s.store.UpdateAvailabilityWindow(ctx, w); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromAvailabilityWindow(*w)
	return &out, nil
}

func (s *Service) DeleteAvailability(ctx context.Context, id string) error {
	const op = "service.DeleteAvailability"

	if err := s.store.DeleteAvailabilityWindow(ctx, id); err != nil {
		return persistence(op, err)
	}

	return nil
}

func applyAvailability(w *models.AvailabilityWindow, req *api.AvailabilityRequest) error {
	days, err := parseWeekdays("days_of_week", req.DaysOfWeek)
	if err != nil {
		return err
	}

	start, err := parseTime("time_start", req.TimeStart)
	if err != nil {
		return err
	}

	end, err := parseOptionalTime("time_end", req.TimeEnd)
	if err != nil {
		return err
	}
	if end != nil && *end <= start {
		return response.Invalid("time_end", "must be after time_start")
	}

	lead, err := parseTime("time_before_request", req.MinimumLeadTime)
	if err != nil {
		return err
	}

	w.DaysOfWeek = days
	w.TimeStart = start
	w.TimeEnd = end
	w.MinimumLeadTime = lead

	return nil
}
