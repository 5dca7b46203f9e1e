// Package auth verifies HS256 bearer tokens and carries the caller's
// identity through the request context.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/golang-jwt/jwt/v5"

	"appointments-service/internal/models"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

var ErrBadToken = errors.New("invalid token")

type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	Email string
	Role  models.Role
}

func (i Identity) IsAdmin() bool { return i.Role == models.RoleAdmin }

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

func MakeToken(email string, role models.Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}

	if c.Email == "" {
		return nil, ErrBadToken
	}

	switch c.Role {
	case models.RoleAdmin, models.RoleUser:
	case "":
		c.Role = models.RoleUser
	default:
		return nil, ErrBadToken
	}

	return c, nil
}

// New rejects requests without a valid "Authorization: Bearer <jwt>" header.
func New(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.auth.New"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				log.Debug("missing bearer token")
				response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "missing bearer token")
				return
			}

			claims, err := ParseToken(strings.TrimSpace(raw), secret)
			if err != nil {
				log.Info("rejected token", sl.Err(err))
				response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "invalid token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{Email: claims.Email, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after New.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		if !id.IsAdmin() {
			response.Fail(w, r, http.StatusForbidden, response.FORBIDDEN, "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
