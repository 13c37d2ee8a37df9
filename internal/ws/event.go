package ws

import (
	"LiveInbox/entity"
	"encoding/json"
)

// Wire event names used by the backend.
const (
	typeSetup         = "setup"
	typeOnlineUsers   = "getOnlineUsers"
	typeNewMessage    = "newMessage"
	typeGetNewMessage = "getNewMessage"
)

// EventKind is what subscribers register for.
type EventKind string

const (
	KindPresence EventKind = "presence"
	KindMessage  EventKind = "message"
)

// Event is one inbound push. Presence events carry UserIDs, message events
// carry Chat, which is nil when the payload had no usable conversation.
type Event struct {
	Kind    EventKind
	Source  string
	UserIDs []string
	Chat    *entity.ConversationPatch
}

// Handler receives events in delivery order on the connection's read
// goroutine.
type Handler func(Event)

// frame is the envelope of every websocket message in both directions.
type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// decodeFrame turns a raw message into an Event. Both message event names
// produce the same KindMessage event; the name is kept in Source. A message
// event whose body can't be decoded still yields an event with a nil Chat so
// that subscribers can resync.
func decodeFrame(raw []byte) (Event, bool) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, false
	}

	switch f.Type {
	case typeOnlineUsers:
		ids, ok := decodeUserIDs(f.Data)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: KindPresence, Source: f.Type, UserIDs: ids}, true

	case typeNewMessage, typeGetNewMessage:
		ev := Event{Kind: KindMessage, Source: f.Type}
		var body struct {
			Chat *entity.ConversationPatch `json:"chat"`
		}
		if err := json.Unmarshal(f.Data, &body); err == nil {
			ev.Chat = body.Chat
		}
		return ev, true
	}

	return Event{}, false
}

// decodeUserIDs accepts a list of ids or a list of {"userId": ...} objects.
func decodeUserIDs(data json.RawMessage) ([]string, bool) {
	if len(data) == 0 || string(data) == "null" {
		return []string{}, true
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return ids, true
	}

	var objs []struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, false
	}
	ids = make([]string, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.UserID)
	}
	return ids, true
}

func encodeFrame(eventType string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Type: eventType, Data: payload})
}
