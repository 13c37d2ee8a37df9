package entity

import "time"

// Kind is the category of a conversation. It decides which surface lists the
// conversation and how its display party is resolved.
type Kind string

const (
	KindPrivate     Kind = "private"
	KindGroup       Kind = "group"
	KindShop        Kind = "shop"
	KindFanpage     Kind = "fanpage"
	KindAIAssistant Kind = "ai-assistant"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPrivate, KindGroup, KindShop, KindFanpage, KindAIAssistant:
		return true
	}
	return false
}

// Surface is one of the two mutually exclusive conversation lists.
type Surface string

const (
	SurfacePrivate Surface = "private"
	SurfaceGroups  Surface = "groups"
)

func (s Surface) Valid() bool {
	return s == SurfacePrivate || s == SurfaceGroups
}

// Surface maps every kind to exactly one surface. A missing or unknown kind
// is listed with private conversations.
func (k Kind) Surface() Surface {
	switch k {
	case KindGroup, KindShop, KindFanpage, KindAIAssistant:
		return SurfaceGroups
	default:
		return SurfacePrivate
	}
}

// Party is anything a conversation row can be displayed as: a user, a group,
// a shop or a fanpage.
type Party struct {
	ID     string `json:"id,omitempty" bson:"id"`
	Name   string `json:"name,omitempty" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar"`
}

func (p Party) IsZero() bool {
	return p == Party{}
}

type LastMessage struct {
	SenderID string    `json:"senderId" bson:"sender_id"`
	Text     string    `json:"text" bson:"text"`
	SentAt   time.Time `json:"sentAt" bson:"sent_at"`
}

// Conversation is the summary of one conversation as shown in a chat list.
type Conversation struct {
	ID           string       `json:"id" bson:"id"`
	Kind         Kind         `json:"kind" bson:"kind"`
	Participants []Party      `json:"participants" bson:"participants"`
	Group        *Party       `json:"group,omitempty" bson:"group,omitempty"`
	Shop         *Party       `json:"shop,omitempty" bson:"shop,omitempty"`
	Fanpage      *Party       `json:"fanpage,omitempty" bson:"fanpage,omitempty"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty" bson:"last_message,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updated_at"`
}

// ActivityAt is the recency key: the last message time, or UpdatedAt when
// the conversation has no messages yet.
func (c *Conversation) ActivityAt() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.SentAt
	}
	return c.UpdatedAt
}

// Clone returns a deep copy so callers can't mutate store-owned entries.
func (c *Conversation) Clone() Conversation {
	out := *c
	if c.Participants != nil {
		out.Participants = append([]Party(nil), c.Participants...)
	}
	out.Group = cloneParty(c.Group)
	out.Shop = cloneParty(c.Shop)
	out.Fanpage = cloneParty(c.Fanpage)
	if c.LastMessage != nil {
		lm := *c.LastMessage
		out.LastMessage = &lm
	}
	return out
}

func cloneParty(p *Party) *Party {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ConversationPatch is the possibly partial conversation carried by a live
// message event. Nil fields are not carried and leave the entry unchanged.
type ConversationPatch struct {
	ID           string       `json:"id"`
	Kind         *Kind        `json:"kind,omitempty"`
	Participants []Party      `json:"participants,omitempty"`
	Group        *Party       `json:"group,omitempty"`
	Shop         *Party       `json:"shop,omitempty"`
	Fanpage      *Party       `json:"fanpage,omitempty"`
	LastMessage  *LastMessage `json:"lastMessage,omitempty"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}

// Apply overwrites the fields of c that the patch carries.
func (p *ConversationPatch) Apply(c *Conversation) {
	if p.Kind != nil {
		c.Kind = *p.Kind
	}
	if p.Participants != nil {
		c.Participants = append([]Party(nil), p.Participants...)
	}
	if p.Group != nil {
		c.Group = cloneParty(p.Group)
	}
	if p.Shop != nil {
		c.Shop = cloneParty(p.Shop)
	}
	if p.Fanpage != nil {
		c.Fanpage = cloneParty(p.Fanpage)
	}
	if p.LastMessage != nil {
		lm := *p.LastMessage
		c.LastMessage = &lm
	}
	if p.UpdatedAt != nil {
		c.UpdatedAt = *p.UpdatedAt
	}
}

// ToConversation builds a new entry from the patch alone.
func (p *ConversationPatch) ToConversation() Conversation {
	c := Conversation{ID: p.ID}
	p.Apply(&c)
	if c.UpdatedAt.IsZero() && c.LastMessage != nil {
		c.UpdatedAt = c.LastMessage.SentAt
	}
	return c
}

// OpenParams is what a chat detail screen needs to open a conversation.
type OpenParams struct {
	Ref            Party  `json:"ref"`
	Kind           Kind   `json:"kind"`
	ConversationID string `json:"conversationId"`
}
