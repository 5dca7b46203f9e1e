package service

import (
	"context"
	"fmt"
	"strings"

	"appointments-service/api"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

// Events

func (s *Service) CreateEvent(ctx context.Context, req *api.EventRequest) (*api.Event, error) {
	const op = "service.CreateEvent"

	e := &models.Event{ID: s.newID()}
	if err := applyEvent(e, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromEvent(*e)
	return &out, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*api.Event, error) {
	const op = "service.GetEvent"

	e, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromEvent(*e)
	return &out, nil
}

// ListEvents returns every event, or those on date when date is not empty.
func (s *Service) ListEvents(ctx context.Context, date string) ([]api.Event, error) {
	const op = "service.ListEvents"

	day, err := parseOptionalDate("date", date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, err := s.store.ListEvents(ctx, day)
	if err != nil {
		return nil, persistence(op, err)
	}

	out := make([]api.Event, 0, len(events))
	for _, e := range events {
		out = append(out, api.FromEvent(e))
	}

	return out, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, req *api.EventRequest) (*api.Event, error) {
	const op = "service.UpdateEvent"

	e, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, persistence(op, err)
	}

	if err := applyEvent(e, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.UpdatedAt = s.now()

	if err := s.store.UpdateEvent(ctx, e); err != nil {
		return nil, persistence(op, err)
	}

	out := api.FromEvent(*e)
	return &out, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	const op = "service.DeleteEvent"

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return persistence(op, err)
	}

	return nil
}

func applyEvent(e *models.Event, req *api.EventRequest) error {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	t, err := parseTime("time", req.Time)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return response.Invalid("title", "is required")
	}

	e.Date = date
	e.Time = t
	e.Title = title
	e.Link = strings.TrimSpace(req.Link)
	e.Description = req.Description

	return nil
}
