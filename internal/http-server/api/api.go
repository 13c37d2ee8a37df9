package api

import (
	"LiveInbox/internal/config"
	"LiveInbox/internal/http-server/handlers/conversations"
	"LiveInbox/internal/http-server/handlers/errors"
	"LiveInbox/internal/http-server/handlers/presence"
	"LiveInbox/internal/http-server/middleware/authenticate"
	"LiveInbox/internal/lib/sl"
	"context"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	conversations.Core
	presence.Core
}

// NewRouter serves the projected conversation lists to a local UI process.
func NewRouter(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Timeout(5 * time.Second))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(authenticate.New(log, handler))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/conversations/{surface}", func(r chi.Router) {
			r.Get("/", conversations.List(log, handler))
			r.Post("/refresh", conversations.Refresh(log, handler))
			r.Post("/focus", conversations.Focus(log, handler))
			r.Get("/{id}/open", conversations.Open(log, handler))
		})
		v1.Get("/presence", presence.Online(log, handler))
	})

	return router
}

// New starts serving and blocks until ctx is done or the listener fails.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(log, handler),
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.httpServer.Shutdown(shutdownCtx)
	}()

	server.log.Info("starting api server", slog.String("address", serverAddress))

	err = server.httpServer.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
