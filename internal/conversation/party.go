package conversation

import "LiveInbox/entity"

// AIAssistant stands in for the assistant conversation, which has no
// participant record on the backend.
var AIAssistant = entity.Party{
	ID:     "ai-assistant",
	Name:   "AI Assistant",
	Avatar: "ai",
}

// ResolveDisplayParty returns who or what a conversation row represents for
// the local user. A private conversation with incomplete participants gives
// an empty Party rather than failing.
func ResolveDisplayParty(c *entity.Conversation, localUserID string) entity.Party {
	switch c.Kind {
	case entity.KindAIAssistant:
		return AIAssistant
	case entity.KindGroup:
		return deref(c.Group)
	case entity.KindShop:
		return deref(c.Shop)
	case entity.KindFanpage:
		return deref(c.Fanpage)
	}

	for _, p := range c.Participants {
		if p.ID != "" && p.ID != localUserID {
			return p
		}
	}
	return entity.Party{}
}

// OpenParams builds the bundle handed to the chat detail screen.
func OpenParams(c *entity.Conversation, localUserID string) entity.OpenParams {
	return entity.OpenParams{
		Ref:            ResolveDisplayParty(c, localUserID),
		Kind:           c.Kind,
		ConversationID: c.ID,
	}
}

func deref(p *entity.Party) entity.Party {
	if p == nil {
		return entity.Party{}
	}
	return *p
}
