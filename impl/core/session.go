package core

import (
	"LiveInbox/entity"
	"LiveInbox/internal/config"
	"context"
	"fmt"
)

type SessionRepository interface {
	LoadLocalUser(ctx context.Context, username string) (*entity.LocalUser, error)
}

// LoadSession builds the session handed to every screen. The persisted
// profile wins over config when a repository is available.
func LoadSession(ctx context.Context, conf *config.Config, repo SessionRepository) (*entity.Session, error) {
	user := entity.LocalUser{
		ID:       conf.Session.UserID,
		Username: conf.Session.Username,
		Name:     conf.Session.Name,
		Avatar:   conf.Session.Avatar,
	}

	if repo != nil && conf.Session.Username != "" {
		stored, err := repo.LoadLocalUser(ctx, conf.Session.Username)
		if err != nil {
			return nil, fmt.Errorf("load local user: %w", err)
		}
		user = *stored
	}

	session, err := entity.NewSession(user, conf.Session.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	return session, nil
}
