package stripe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointments-service/api"
	"appointments-service/internal/service"
)

const secret = "whsec_test123"

type fakeRecorder struct {
	payments []api.Payment
}

func (f *fakeRecorder) RecordPayment(_ context.Context, p api.Payment) (*api.PaymentResult, error) {
	if p.Email == "" {
		return nil, service.ErrMissingPayer
	}
	f.payments = append(f.payments, p)
	return &api.PaymentResult{Granted: 5, Credits: 5}, nil
}

func signed(payload string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, Sign(secret, []byte(payload), ts))
}

func post(h http.Handler, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const succeeded = `{
	"id": "evt_1",
	"type": "payment_intent.succeeded",
	"data": {"object": {
		"id": "pi_1",
		"amount": 45000,
		"charges": {"data": [{"billing_details": {"email": "ana@example.com"}}]}
	}}
}`

func TestWebhook_PaymentSucceeded(t *testing.T) {
	rec := &fakeRecorder{}
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), secret, rec)

	res := post(h, succeeded, signed(succeeded, time.Now()))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"received":true,"granted":5,"credits":5}`, res.Body.String())

	require.Len(t, rec.payments, 1)
	assert.Equal(t, api.Payment{EventID: "evt_1", Email: "ana@example.com", Amount: 45000}, rec.payments[0])
}

func TestWebhook_ReceiptEmailFallback(t *testing.T) {
	rec := &fakeRecorder{}
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), "", rec)

	payload := `{"id":"evt_2","type":"payment_intent.succeeded","data":{"object":{"amount":10000,"receipt_email":"bob@example.com"}}}`
	res := post(h, payload, "")

	assert.Equal(t, http.StatusOK, res.Code)
	require.Len(t, rec.payments, 1)
	assert.Equal(t, "bob@example.com", rec.payments[0].Email)
}

func TestWebhook_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		signature string
		status    int
	}{
		{name: "no signature", payload: succeeded, signature: "", status: http.StatusUnauthorized},
		{name: "bad signature", payload: succeeded, signature: "t=12345,v1=bad_signature", status: http.StatusUnauthorized},
		{name: "stale signature", payload: succeeded, signature: signed(succeeded, time.Now().Add(-10*time.Minute)), status: http.StatusUnauthorized},
		{name: "bad json", payload: "{", signature: signed("{", time.Now()), status: http.StatusBadRequest},
		{
			name:      "no payer",
			payload:   `{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"amount":1}}}`,
			signature: signed(`{"id":"evt_3","type":"payment_intent.succeeded","data":{"object":{"amount":1}}}`, time.Now()),
			status:    http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), secret, rec)

			res := post(h, tt.payload, tt.signature)

			assert.Equal(t, tt.status, res.Code)
			assert.Empty(t, rec.payments)
		})
	}
}

func TestWebhook_IgnoresOtherEvents(t *testing.T) {
	rec := &fakeRecorder{}
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), secret, rec)

	payload := `{"id":"evt_4","type":"charge.refunded","data":{"object":{}}}`
	res := post(h, payload, signed(payload, time.Now()))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"received":true}`, res.Body.String())
	assert.Empty(t, rec.payments)
}

func TestVerifySignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	payload := []byte(`{"id":"evt_1"}`)
	good := Sign(secret, payload, now.Unix())

	assert.True(t, VerifySignature("", payload, "", now), "empty secret bypasses verification")
	assert.True(t, VerifySignature(secret, payload, fmt.Sprintf("t=%d,v1=%s", now.Unix(), good), now))
	assert.True(t, VerifySignature(secret, payload, fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), good), now))
	assert.False(t, VerifySignature(secret, []byte(`{"id":"evt_2"}`), fmt.Sprintf("t=%d,v1=%s", now.Unix(), good), now))
	assert.False(t, VerifySignature(secret, payload, fmt.Sprintf("t=%d,v1=%s", now.Unix(), good), now.Add(6*time.Minute)))
	assert.False(t, VerifySignature(secret, payload, "v1="+good, now))
	assert.False(t, VerifySignature(secret, payload, "t=abc,v1="+good, now))
}
