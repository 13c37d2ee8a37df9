package conversation

import (
	"LiveInbox/entity"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMessageEventMovesToFront(t *testing.T) {
	s := NewStore()
	s.Replace([]entity.Conversation{
		conv("A", entity.KindPrivate, 3),
		conv("B", entity.KindPrivate, 2),
		conv("C", entity.KindPrivate, 1),
	})

	out, err := ApplyMessageEvent(s, &entity.ConversationPatch{ID: "B"})
	require.NoError(t, err)
	assert.Equal(t, Updated, out)
	assert.Equal(t, []string{"B", "A", "C"}, s.IDs())

	out, err = ApplyMessageEvent(s, &entity.ConversationPatch{ID: "C"})
	require.NoError(t, err)
	assert.Equal(t, Updated, out)
	assert.Equal(t, []string{"C", "B", "A"}, s.IDs())

	// already first
	_, err = ApplyMessageEvent(s, &entity.ConversationPatch{ID: "C"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, s.IDs())
}

func TestApplyMessageEventInsertsUnknown(t *testing.T) {
	s := NewStore()
	s.Replace([]entity.Conversation{conv("A", entity.KindPrivate, 3)})

	kind := entity.KindGroup
	lm := entity.LastMessage{SenderID: "u5", Text: "hello", SentAt: at(1)}
	out, err := ApplyMessageEvent(s, &entity.ConversationPatch{
		ID:          "N",
		Kind:        &kind,
		Group:       &entity.Party{ID: "g1", Name: "Climbers"},
		LastMessage: &lm,
	})
	require.NoError(t, err)
	assert.Equal(t, Inserted, out)
	assert.Equal(t, []string{"N", "A"}, s.IDs())

	got, ok := s.Get("N")
	require.True(t, ok)
	assert.Equal(t, entity.KindGroup, got.Kind)
	assert.Equal(t, "Climbers", got.Group.Name)
	// arrival order wins over timestamps
	assert.Equal(t, at(1), got.UpdatedAt)
}

func TestApplyMessageEventPatchKeepsMissingFields(t *testing.T) {
	s := NewStore()
	c := conv("c1", entity.KindPrivate, 1)
	c.Participants = []entity.Party{{ID: "me"}, {ID: "u9", Name: "Nia"}}
	s.Replace([]entity.Conversation{c})

	lm := entity.LastMessage{SenderID: "u9", Text: "hey", SentAt: at(2)}
	_, err := ApplyMessageEvent(s, &entity.ConversationPatch{ID: "c1", LastMessage: &lm})
	require.NoError(t, err)

	got, _ := s.Get("c1")
	assert.Equal(t, entity.KindPrivate, got.Kind)
	assert.Len(t, got.Participants, 2)
	assert.Equal(t, "hey", got.LastMessage.Text)
	assert.Equal(t, at(2), got.LastMessage.SentAt)
}

func TestApplyMessageEventMalformed(t *testing.T) {
	s := NewStore()
	s.Replace([]entity.Conversation{conv("A", entity.KindPrivate, 2), conv("B", entity.KindPrivate, 1)})
	before := s.List()

	for _, patch := range []*entity.ConversationPatch{nil, {}, {LastMessage: &entity.LastMessage{Text: "x"}}} {
		out, err := ApplyMessageEvent(s, patch)
		assert.ErrorIs(t, err, ErrMalformedEvent)
		assert.Equal(t, Resync, out)
	}
	assert.Equal(t, before, s.List())
}

func TestApplyMessageEventScenario(t *testing.T) {
	s := NewStore()
	s.Replace([]entity.Conversation{{
		ID:          "c1",
		Kind:        entity.KindPrivate,
		LastMessage: &entity.LastMessage{Text: "hi", SentAt: at(1)},
	}})

	lm := entity.LastMessage{Text: "hey", SentAt: at(2)}
	_, err := ApplyMessageEvent(s, &entity.ConversationPatch{ID: "c1", LastMessage: &lm})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "hey", list[0].LastMessage.Text)
}

func TestApplyMessageEventNeverDuplicates(t *testing.T) {
	s := NewStore()
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("c%d", rnd.Intn(20))
		_, err := ApplyMessageEvent(s, &entity.ConversationPatch{ID: id})
		require.NoError(t, err)
		require.Equal(t, id, s.IDs()[0])

		seen := make(map[string]bool)
		for _, got := range s.IDs() {
			require.False(t, seen[got], "duplicate %s after event %d", got, i)
			seen[got] = true
		}
		require.Equal(t, len(s.index), s.Len())
	}
}
