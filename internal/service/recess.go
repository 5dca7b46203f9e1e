package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"appointments-service/api"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

var everyWeekday = models.Weekdays{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// Recess windows

func (s *Service) CreateRecess(ctx context.Context, req *api.RecessRequest) (*api.Recess, error) {
	const op = "service.CreateRecess"

	r := &models.RecessWindow{ID: s.newID()}
	if err := applyRecess(r, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.store.CreateRecessWindow(ctx, r); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromRecessWindow(*r)
	return &out, nil
}

func (s *Service) GetRecess(ctx context.Context, id string) (*api.Recess, error) {
	const op = "service.GetRecess"

	r, err := s.store.GetRecessWindow(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromRecessWindow(*r)
	return &out, nil
}

func (s *Service) ListRecess(ctx context.Context) ([]api.Recess, error) {
	const op = "service.ListRecess"

	recesses, err := s.store.ListRecessWindows(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := make([]api.Recess, 0, len(recesses))
	for _, r := range recesses {
		out = append(out, api.FromRecessWindow(r))
	}

	return out, nil
}

func (s *Service) UpdateRecess(ctx context.Context, id string, req *api.RecessRequest) (*api.Recess, error) {
	const op = "service.UpdateRecess"

	r, err := s.store.GetRecessWindow(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	if err := applyRecess(r, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.UpdatedAt = s.now()

	if err := s.store.UpdateRecessWindow(ctx, r); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromRecessWindow(*r)
	return &out, nil
}

func (s *Service) DeleteRecess(ctx context.Context, id string) error {
	const op = "service.DeleteRecess"

	if err := s.store.DeleteRecessWindow(ctx, id); err != nil {
		return persistence(op, err)
	}

	return nil
}

// applyRecess validates req into r. A recess only applies on the weekdays it
// names, so an empty list is rejected and "every day" expands to all seven.
func applyRecess(r *models.RecessWindow, req *api.RecessRequest) error {
	if strings.TrimSpace(req.DaysOfWeek) == "" {
		return response.Invalid("days_of_week", "at least one weekday is required")
	}

	days, err := parseWeekdays("days_of_week", req.DaysOfWeek)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		days = everyWeekday
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

	begin, err := parseOptionalDate("date_begin", req.DateBegin)
	if err != nil {
		return err
	}

	until, err := parseOptionalDate("date_end", req.DateEnd)
	if err != nil {
		return err
	}
	if begin != nil && until != nil && until.Before(*begin) {
		return response.Invalid("date_end", "must not be before date_begin")
	}

	r.DaysOfWeek = days
	r.TimeStart = start
	r.TimeEnd = end
	r.DateBegin = begin
	r.DateEnd = until

	return nil
}
