package conversations

import (
	"LiveInbox/entity"
	"LiveInbox/internal/inbox"
)

type Core interface {
	Conversations(surface, query string) (*inbox.ViewState, error)
	OpenConversation(surface, id string) (*entity.OpenParams, error)
	Refresh(surface string) error
	Focus(surface string) error
}
