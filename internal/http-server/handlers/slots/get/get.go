package get

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

type SlotGetter interface {
	AvailableSlots(ctx context.Context, date string) (*api.Slots, error)
}

type Response struct {
	response.Response
	api.Slots
}

// New serves GET /slots?date=YYYY-MM-DD.
func New(log *slog.Logger, getter SlotGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "date is required")
			return
		}

		slots, err := getter.AvailableSlots(r.Context(), date)
		if err != nil {
			log.Error("Failed to compute slots", sl.Err(err))
			response.FailFrom(w, r, err, "failed to get slots")
			return
		}

		log.Debug("Slots computed", slog.String("date", slots.Date), slog.Int("count", len(slots.Slots)))

		render.JSON(w, r, Response{Slots: *slots})
	}
}
