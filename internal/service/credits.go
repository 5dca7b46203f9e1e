package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appointments-service/api"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

const paymentDedupTTL = 24 * time.Hour

var ErrMissingPayer = errors.New("payment has no billing email")

func (s *Service) GetCredits(ctx context.Context, email string) (*api.Credits, error) {
	const op = "service.GetCredits"

	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, response.Invalid("user_email", "is required"))
	}

	balance, err := s.store.GetCredits(ctx, email)
	if err != nil {
		return nil, persistence(op, err)
	}

	return &api.Credits{UserEmail: balance.UserEmail, Credits: balance.Credits}, nil
}

// CreditsFor is the number of credits bought with amount: one when it
// matches the single credit price, a bundle otherwise.
func (s *Service) CreditsFor(amount int64) int {
	if s.singleCreditPrice > 0 && amount == s.singleCreditPrice {
		return 1
	}

	return s.bundleCredits
}

// RecordPayment credits the payer of a settled payment. A payment event is
// applied at most once; repeats are reported as duplicates.
func (s *Service) RecordPayment(ctx context.Context, p api.Payment) (*api.PaymentResult, error) {
	const op = "service.RecordPayment"

	email := strings.TrimSpace(p.Email)
	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingPayer)
	}

	log := s.log.With("event_id", p.EventID, "user_email", email)

	dedupKey := "payment:" + p.EventID
	if p.EventID != "" {
		locked, err := s.locker.Lock(ctx, dedupKey, paymentDedupTTL)
		if err != nil {
			log.Warn("payment de-duplication unavailable", sl.Err(err))
		} else if !locked {
			log.Info("payment event already processed")
			return &api.PaymentResult{Duplicate: true}, nil
		}
	}

	n := s.CreditsFor(p.Amount)

	balance, err := s.store.AddCredits(ctx, s.newID(), email, n, s.now())
	if err != nil {
		if p.EventID != "" {
			_ = s.locker.Unlock(context.WithoutCancel(ctx), dedupKey)
		}
		return nil, persistence(op, err)
	}

	s.metrics.ObserveCreditsGranted(n)
	log.Info("credits granted", "granted", n, "credits", balance.Credits)

	return &api.PaymentResult{Granted: n, Credits: balance.Credits}, nil
}
