package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type CreditGetter interface {
	GetCredits(ctx context.Context, email string) (*api.Credits, error)
}

type Response struct {
	response.Response
	api.Credits
}

func New(log *slog.Logger, getter CreditGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.credits.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := auth.FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		credits, err := getter.GetCredits(r.Context(), id.Email)
		if err != nil {
			log.Error("Failed to get credits", sl.Err(err))
			response.FailFrom(w, r, err, "failed to get credits")
			return
		}

		render.JSON(w, r, Response{Credits: *credits})
	}
}
