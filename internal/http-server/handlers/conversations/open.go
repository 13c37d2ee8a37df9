package conversations

import (
	"LiveInbox/impl/core"
	"LiveInbox/internal/lib/api/response"
	"LiveInbox/internal/lib/sl"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Open returns the parameters a chat detail screen needs for a row.
func Open(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surface := chi.URLParam(r, "surface")
		id := chi.URLParam(r, "id")

		params, err := handler.OpenConversation(surface, id)
		if err != nil {
			log.With(
				sl.Module("http.handlers.conversations"),
				slog.String("surface", surface),
				slog.String("conversation_id", id),
				sl.Err(err),
			).Debug("open conversation")
			render.Status(r, http.StatusNotFound)
			if errors.Is(err, core.ErrUnknownSurface) {
				render.JSON(w, r, response.Error("Unknown surface"))
				return
			}
			render.JSON(w, r, response.Error("Conversation not found"))
			return
		}

		render.JSON(w, r, response.Ok(params))
	}
}
