package main

import (
	"LiveInbox/entity"
	"LiveInbox/impl/core"
	"LiveInbox/internal/config"
	"LiveInbox/internal/database"
	"LiveInbox/internal/http-server/api"
	"LiveInbox/internal/inbox"
	"LiveInbox/internal/lib/logger"
	"LiveInbox/internal/lib/sl"
	"LiveInbox/internal/service/snapshot"
	"LiveInbox/internal/ws"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/oauth2"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting liveinbox", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sessions core.SessionRepository
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		sessions = db
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	session, err := core.LoadSession(ctx, conf, sessions)
	if err != nil {
		lg.Error("session", sl.Err(err))
		os.Exit(1)
	}
	lg.With(
		slog.String("user_id", session.User.ID),
		sl.Secret("token", session.Token),
	).Info("session loaded")

	var tokens oauth2.TokenSource
	if session.Token != "" {
		tokens = oauth2.ReuseTokenSource(nil, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: session.Token,
			TokenType:   "Bearer",
		}))
	}

	loader := snapshot.NewLoader(snapshot.Options{
		BaseURL:     conf.Api.BaseURL,
		TokenSource: tokens,
		PageSize:    conf.Api.PageSize,
		Timeout:     conf.Api.Timeout,
	}, lg)

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	var channel inbox.Channel
	if conf.Realtime.Enabled {
		manager := ws.NewManager(ws.Options{
			URL:            conf.Realtime.URL,
			UserID:         session.User.ID,
			TokenSource:    tokens,
			ReconnectDelay: conf.Realtime.ReconnectDelay,
		}, lg)
		handler.SetChannel(manager)
		channel = manager
		lg.With(
			slog.String("url", conf.Realtime.URL),
		).Info("realtime channel initialized")
	}

	handler.AddScreen(inbox.NewScreen(entity.SurfacePrivate, session, loader, channel, lg))
	handler.AddScreen(inbox.NewScreen(entity.SurfaceGroups, session, loader, channel, lg))
	handler.Start(ctx)
	defer handler.Stop()

	// *** blocking start with http server ***
	err = api.New(ctx, conf, lg, handler)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Info("service stopped")
}
