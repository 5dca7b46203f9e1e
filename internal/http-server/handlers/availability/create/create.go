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

type AvailabilityCreator interface {
	CreateAvailability(ctx context.Context, req *api.AvailabilityRequest) (*api.Availability, error)
}

type Request struct {
	api.AvailabilityRequest
}

type Response struct {
	response.Response
	Availability *api.Availability `json:"availability,omitempty"`
}

func New(log *slog.Logger, creator AvailabilityCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.create.New"

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

		created, err := creator.CreateAvailability(r.Context(), &req.AvailabilityRequest)
		if err != nil {
			log.Error("Failed to create availability window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to create availability window")
			return
		}

		log.Info("Availability window created", slog.String("id", created.ID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, created)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, created *api.Availability) {
	render.JSON(w, r, Response{
		Availability: created,
	})
}
