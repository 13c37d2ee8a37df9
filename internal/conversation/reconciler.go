package conversation

import (
	"LiveInbox/entity"
	"errors"
)

// ErrMalformedEvent is returned for message events that carry no
// conversation id. The store is stale at that point and must be reloaded.
var ErrMalformedEvent = errors.New("message event without conversation id")

// Outcome tells the caller what ApplyMessageEvent did.
type Outcome int

const (
	// Resync means the event was ignored and a full snapshot reload is due.
	Resync Outcome = iota
	Updated
	Inserted
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case Inserted:
		return "inserted"
	default:
		return "resync"
	}
}

// ApplyMessageEvent merges one live event into the store. An existing entry
// takes every field the patch carries and moves to the front; an unknown
// conversation is inserted at the front. The list is never re-sorted here:
// events arrive in server order, so front insertion keeps it recency-ordered
// and simultaneous events are ordered by arrival.
func ApplyMessageEvent(store *Store, patch *entity.ConversationPatch) (Outcome, error) {
	if patch == nil || patch.ID == "" {
		return Resync, ErrMalformedEvent
	}

	if c, ok := store.index[patch.ID]; ok {
		patch.Apply(c)
		store.moveToFront(patch.ID)
		return Updated, nil
	}

	store.pushFront(patch.ToConversation())
	return Inserted, nil
}
