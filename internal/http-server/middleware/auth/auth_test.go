package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointments-service/internal/models"
)

const secret = "test-secret"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	id, _ := FromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]string{"email": id.Email, "role": string(id.Role)})
}

func TestParseToken(t *testing.T) {
	raw, err := MakeToken("ana@example.com", models.RoleAdmin, secret, time.Minute)
	require.NoError(t, err)

	c, err := ParseToken(raw, secret)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, models.RoleAdmin, c.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := MakeToken("ana@example.com", models.RoleUser, secret, -time.Minute)
	require.NoError(t, err)

	wrongKey, err := MakeToken("ana@example.com", models.RoleUser, "other", time.Minute)
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: models.RoleUser}).SignedString([]byte(secret))
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "a@b.c", Role: "root"}).SignedString([]byte(secret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "a@b.c"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":   expired,
		"wrong key": wrongKey,
		"no email":  noEmail,
		"bad role":  badRole,
		"alg none":  none,
		"garbage":   "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(raw, secret)
			assert.Error(t, err)
		})
	}
}

func TestParseToken_DefaultsToUser(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "a@b.c"}).SignedString([]byte(secret))
	require.NoError(t, err)

	c, err := ParseToken(raw, secret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, c.Role)
}

func TestMiddleware(t *testing.T) {
	h := New(discard, secret)(http.HandlerFunc(echoIdentity))

	user, err := MakeToken("ana@example.com", models.RoleUser, secret, time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + user, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"email":"ana@example.com","role":"user"}`, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := New(discard, secret)(RequireAdmin(http.HandlerFunc(echoIdentity)))

	user, err := MakeToken("ana@example.com", models.RoleUser, secret, time.Minute)
	require.NoError(t, err)
	admin, err := MakeToken("boss@example.com", models.RoleAdmin, secret, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
