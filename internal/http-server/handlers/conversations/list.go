package conversations

import (
	"LiveInbox/internal/lib/api/response"
	"LiveInbox/internal/lib/sl"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// List returns the visible rows of one surface, filtered by the q parameter.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surface := chi.URLParam(r, "surface")
		query := r.URL.Query().Get("q")

		logger := log.With(
			sl.Module("http.handlers.conversations"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("surface", surface),
		)

		view, err := handler.Conversations(surface, query)
		if err != nil {
			logger.Debug("list conversations", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Unknown surface"))
			return
		}

		render.JSON(w, r, response.Ok(view))
	}
}
