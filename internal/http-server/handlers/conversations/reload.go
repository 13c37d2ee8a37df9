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

// Refresh starts a snapshot reload (pull to refresh). The reload runs in the
// background; clients poll the list for the result.
func Refresh(log *slog.Logger, handler Core) http.HandlerFunc {
	return reload(log, "refresh", handler.Refresh)
}

// Focus tells the screen it is visible again, which also reloads.
func Focus(log *slog.Logger, handler Core) http.HandlerFunc {
	return reload(log, "focus", handler.Focus)
}

func reload(log *slog.Logger, action string, fn func(surface string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surface := chi.URLParam(r, "surface")

		if err := fn(surface); err != nil {
			log.With(
				sl.Module("http.handlers.conversations"),
				slog.String("action", action),
				slog.String("surface", surface),
				sl.Err(err),
			).Error("reload conversations")
			if errors.Is(err, core.ErrUnknownSurface) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("Unknown surface"))
				return
			}
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Screen not available"))
			return
		}

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.Ok(action+" started"))
	}
}
