package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/internal/models"
)

func TestLimiter_PerCaller(t *testing.T) {
	l := New(1, 2)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	assert.True(t, l.Allow("b"), "callers have separate buckets")

	now = now.Add(time.Minute)
	assert.True(t, l.Allow("a"), "bucket refills over time")
}

func TestLimiter_SweepsStaleCallers(t *testing.T) {
	l := New(60, 1)
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(10 * time.Minute)
	l.Allow("b")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "a")
	assert.Contains(t, l.clients, "b")
}

func TestMiddleware(t *testing.T) {
	l := New(1, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(email string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/appointments", nil)
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{Email: email, Role: models.RoleUser}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call("ana@example.com").Code)

	rec := call("ana@example.com")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")

	assert.Equal(t, http.StatusNoContent, call("bob@example.com").Code)
}
