package conversation

import (
	"LiveInbox/entity"
	"strings"
)

// Presence answers whether a user is currently online.
type Presence interface {
	Online(id string) bool
}

// Filter selects the visible rows. An empty Surface keeps both surfaces and
// an empty Query matches every name.
type Filter struct {
	Surface entity.Surface
	Query   string
}

// Row is one visible line of a conversation list.
type Row struct {
	Conversation entity.Conversation `json:"conversation"`
	Party        entity.Party        `json:"party"`
	Online       bool                `json:"online"`
}

// Project computes the visible rows from a store listing. It never changes
// the input and keeps its order.
func Project(list []entity.Conversation, presence Presence, filter Filter, localUserID string) []Row {
	query := strings.ToLower(filter.Query)
	rows := make([]Row, 0, len(list))

	for i := range list {
		c := &list[i]
		if filter.Surface != "" && c.Kind.Surface() != filter.Surface {
			continue
		}

		party := ResolveDisplayParty(c, localUserID)
		if query != "" && !strings.Contains(strings.ToLower(party.Name), query) {
			continue
		}

		online := false
		if presence != nil {
			online = presence.Online(party.ID)
		}
		rows = append(rows, Row{
			Conversation: *c,
			Party:        party,
			Online:       online,
		})
	}

	return rows
}
