package presence

import (
	"LiveInbox/internal/lib/api/response"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

type Core interface {
	OnlineUsers() []string
	RealtimeConnected() bool
}

type onlineResponse struct {
	Connected bool     `json:"connected"`
	Users     []string `json:"users"`
}

func Online(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(onlineResponse{
			Connected: handler.RealtimeConnected(),
			Users:     handler.OnlineUsers(),
		}))
	}
}
