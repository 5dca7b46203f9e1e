package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type RecessCreator interface {
	CreateRecess(ctx context.Context, req *api.RecessRequest) (*api.Recess, error)
}

type Request struct {
	api.RecessRequest
}

type Response struct {
	response.Response
	Recess *api.Recess `json:"recess,omitempty"`
}

func New(log *slog.Logger, creator RecessCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recess.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		log.Debug("Request body decoded", slog.Any("request", req))

		created, err := creator.CreateRecess(r.Context(), &req.RecessRequest)
		if err != nil {
			log.Error("Failed to create recess window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to create recess window")
			return
		}

		log.Info("Recess window created", slog.String("id", created.ID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, created)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, created *api.Recess) {
	render.JSON(w, r, Response{
		Recess: created,
	})
}
