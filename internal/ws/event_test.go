package ws

import (
	"LiveInbox/entity"
	"LiveInbox/internal/conversation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ok     bool
		kind   EventKind
		ids    []string
		chatID string
		noChat bool
	}{
		{name: "online ids", raw: `{"type":"getOnlineUsers","data":["u1","u2"]}`, ok: true, kind: KindPresence, ids: []string{"u1", "u2"}},
		{name: "online objects", raw: `{"type":"getOnlineUsers","data":[{"userId":"u3","socketId":"x"}]}`, ok: true, kind: KindPresence, ids: []string{"u3"}},
		{name: "online empty", raw: `{"type":"getOnlineUsers"}`, ok: true, kind: KindPresence, ids: []string{}},
		{name: "online garbage", raw: `{"type":"getOnlineUsers","data":"x"}`, ok: false},
		{name: "new message", raw: `{"type":"newMessage","data":{"chat":{"id":"c1"}}}`, ok: true, kind: KindMessage, chatID: "c1"},
		{name: "get new message", raw: `{"type":"getNewMessage","data":{"chat":{"id":"c2"}}}`, ok: true, kind: KindMessage, chatID: "c2"},
		{name: "message without chat", raw: `{"type":"newMessage","data":{}}`, ok: true, kind: KindMessage, noChat: true},
		{name: "message bad body", raw: `{"type":"newMessage","data":42}`, ok: true, kind: KindMessage, noChat: true},
		{name: "unknown", raw: `{"type":"typing","data":{}}`, ok: false},
		{name: "not json", raw: `hello`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := decodeFrame([]byte(tt.raw))
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.kind, ev.Kind)
			switch {
			case tt.kind == KindPresence:
				assert.Equal(t, tt.ids, ev.UserIDs)
			case tt.noChat:
				assert.Nil(t, ev.Chat)
			default:
				require.NotNil(t, ev.Chat)
				assert.Equal(t, tt.chatID, ev.Chat.ID)
			}
		})
	}
}

func TestEncodeFrame(t *testing.T) {
	raw, err := encodeFrame(typeSetup, "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"setup","data":"u1"}`, string(raw))
}

func TestMessageFrameUpdatesStoredConversation(t *testing.T) {
	t1 := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	store := conversation.NewStore()
	store.Replace([]entity.Conversation{{
		ID:          "c1",
		Kind:        entity.KindPrivate,
		LastMessage: &entity.LastMessage{Text: "hi", SentAt: t1},
	}})

	ev, ok := decodeFrame([]byte(`{"type":"newMessage","data":{"chat":{"id":"c1","lastMessage":{"senderId":"u9","text":"hey","sentAt":"2026-01-01T00:00:00Z"},"updatedAt":"2026-01-01T00:00:00Z"}}}`))
	require.True(t, ok)
	require.NotNil(t, ev.Chat)
	require.NotNil(t, ev.Chat.LastMessage)
	require.NotNil(t, ev.Chat.UpdatedAt)

	outcome, err := conversation.ApplyMessageEvent(store, ev.Chat)
	require.NoError(t, err)
	assert.Equal(t, conversation.Updated, outcome)

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, entity.KindPrivate, list[0].Kind)
	assert.Equal(t, "hey", list[0].LastMessage.Text)
	assert.Equal(t, "u9", list[0].LastMessage.SenderID)
	assert.True(t, t2.Equal(list[0].LastMessage.SentAt))
}
