package repository

import (
	"LiveInbox/entity"
	"LiveInbox/internal/config"
	"LiveInbox/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"log/slog"
	"time"
)

const (
	sessionsCollection = "sessions"
	disconnectTimeout  = 5 * time.Second
)

var ErrSessionNotFound = errors.New("session not found")

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

// disconnect does not use the caller's context: a canceled request must
// still release the client.
func (m *MongoDB) disconnect(connection *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := connection.Disconnect(ctx); err != nil {
		m.log.Warn("mongodb disconnect", sl.Err(err))
	}
}

// LoadLocalUser reads the persisted profile of the signed-in user.
func (m *MongoDB) LoadLocalUser(ctx context.Context, username string) (*entity.LocalUser, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(sessionsCollection)
	filter := bson.D{{Key: "username", Value: username}}

	var user entity.LocalUser
	err = collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}

	m.log.With(
		slog.String("username", username),
		slog.String("user_id", user.ID),
	).Debug("local user loaded")

	return &user, nil
}
