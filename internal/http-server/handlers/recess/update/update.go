package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type RecessUpdater interface {
	UpdateRecess(ctx context.Context, id string, req *api.RecessRequest) (*api.Recess, error)
}

type Request struct {
	api.RecessRequest
}

type Response struct {
	response.Response
	Recess *api.Recess `json:"recess,omitempty"`
}

func New(log *slog.Logger, updater RecessUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recess.update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "id is required")
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		updated, err := updater.UpdateRecess(r.Context(), id, &req.RecessRequest)
		if err != nil {
			log.Error("Failed to update recess window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to update recess window")
			return
		}

		log.Info("Recess window updated", slog.String("id", id))

		render.JSON(w, r, Response{Recess: updated})
	}
}
