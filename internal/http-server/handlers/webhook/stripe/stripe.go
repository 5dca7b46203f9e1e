// Package stripe receives payment provider webhooks and turns settled
// payments into appointment credits.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/internal/service"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

const (
	SignatureHeader = "Stripe-Signature"

	eventPaymentSucceeded = "payment_intent.succeeded"
	maxBodyBytes          = 64 << 10
	signatureTolerance    = 5 * time.Minute
)

type PaymentRecorder interface {
	RecordPayment(ctx context.Context, p api.Payment) (*api.PaymentResult, error)
}

type event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object paymentIntent `json:"object"`
	} `json:"data"`
}

type paymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	ReceiptEmail string `json:"receipt_email"`
	Charges      struct {
		Data []struct {
			BillingDetails struct {
				Email string `json:"email"`
			} `json:"billing_details"`
		} `json:"data"`
	} `json:"charges"`
}

// payerEmail prefers the billing e-mail of the first charge.
func (p paymentIntent) payerEmail() string {
	if len(p.Charges.Data) > 0 && p.Charges.Data[0].BillingDetails.Email != "" {
		return p.Charges.Data[0].BillingDetails.Email
	}
	return p.ReceiptEmail
}

type Response struct {
	response.Response
	Received bool `json:"received"`
	*api.PaymentResult
}

// New verifies the signature of each delivery with secret. An empty secret
// disables verification.
func New(log *slog.Logger, secret string, recorder PaymentRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.webhook.stripe.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Error("Failed to read webhook body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to read request")
			return
		}

		if !VerifySignature(secret, payload, r.Header.Get(SignatureHeader), time.Now()) {
			log.Warn("Rejected webhook with invalid signature")
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "invalid signature")
			return
		}

		var evt event
		if err := json.Unmarshal(payload, &evt); err != nil {
			log.Error("Failed to decode webhook", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		log = log.With(slog.String("event_id", evt.ID), slog.String("event_type", evt.Type))

		if evt.Type != eventPaymentSucceeded {
			log.Debug("Ignoring webhook event")
			render.JSON(w, r, Response{Received: true})
			return
		}

		result, err := recorder.RecordPayment(r.Context(), api.Payment{
			EventID: evt.ID,
			Email:   evt.Data.Object.payerEmail(),
			Amount:  evt.Data.Object.Amount,
		})
		if errors.Is(err, service.ErrMissingPayer) {
			log.Warn("Payment without billing email")
			response.Fail(w, r, http.StatusBadRequest, response.VALIDATION_FAILED, "payment has no billing email")
			return
		}
		if err != nil {
			log.Error("Failed to record payment", sl.Err(err))
			response.FailFrom(w, r, err, "failed to record payment")
			return
		}

		log.Info("Payment recorded", slog.Int("granted", result.Granted), slog.Bool("duplicate", result.Duplicate))

		render.JSON(w, r, Response{Received: true, PaymentResult: result})
	}
}

// VerifySignature checks a "t=<unix>,v1=<hex hmac>" header against
// HMAC-SHA256(secret, "<t>.<payload>") within a five minute tolerance.
func VerifySignature(secret string, payload []byte, header string, now time.Time) bool {
	if secret == "" {
		return true
	}
	if header == "" {
		return false
	}

	var timestamp string
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			signatures = append(signatures, v)
		}
	}

	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return false
	}

	expected := Sign(secret, payload, ts)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return true
		}
	}

	return false
}

// Sign returns the hex v1 signature of payload sent at ts.
func Sign(secret string, payload []byte, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
