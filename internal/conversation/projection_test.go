package conversation

import (
	"LiveInbox/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type onlineSet map[string]bool

func (o onlineSet) Online(id string) bool { return o[id] }

func oneOfEach() []entity.Conversation {
	private := conv("p", entity.KindPrivate, 5)
	private.Participants = []entity.Party{{ID: "me", Name: "Me"}, {ID: "u2", Name: "Ana Lima"}}

	group := conv("g", entity.KindGroup, 4)
	group.Group = &entity.Party{ID: "g1", Name: "Book Club"}

	shop := conv("s", entity.KindShop, 3)
	shop.Shop = &entity.Party{ID: "s1", Name: "Corner Shop"}

	fanpage := conv("f", entity.KindFanpage, 2)
	fanpage.Fanpage = &entity.Party{ID: "f1", Name: "Jazz Fans"}

	ai := conv("ai", entity.KindAIAssistant, 1)

	return []entity.Conversation{private, group, shop, fanpage, ai}
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Conversation.ID
	}
	return out
}

func TestProjectPartitionsBySurface(t *testing.T) {
	list := oneOfEach()

	private := Project(list, nil, Filter{Surface: entity.SurfacePrivate}, "me")
	require.Len(t, private, 1)
	assert.Equal(t, "p", private[0].Conversation.ID)

	groups := Project(list, nil, Filter{Surface: entity.SurfaceGroups}, "me")
	assert.Equal(t, []string{"g", "s", "f", "ai"}, rowIDs(groups))

	all := Project(list, nil, Filter{}, "me")
	assert.Len(t, all, len(list))
}

func TestProjectQuery(t *testing.T) {
	list := oneOfEach()

	empty := Project(list, nil, Filter{Surface: entity.SurfaceGroups, Query: ""}, "me")
	none := Project(list, nil, Filter{Surface: entity.SurfaceGroups}, "me")
	assert.Equal(t, rowIDs(none), rowIDs(empty))

	assert.Empty(t, Project(list, nil, Filter{Query: "zzz"}, "me"))
	assert.Equal(t, []string{"p"}, rowIDs(Project(list, nil, Filter{Query: "ana"}, "me")))
	assert.Equal(t, []string{"s"}, rowIDs(Project(list, nil, Filter{Query: "CORNER"}, "me")))
	assert.Equal(t, []string{"ai"}, rowIDs(Project(list, nil, Filter{Query: "assistant"}, "me")))
}

func TestProjectPresenceAndImmutability(t *testing.T) {
	list := oneOfEach()
	before := append([]entity.Conversation(nil), list...)

	rows := Project(list, onlineSet{"u2": true}, Filter{Surface: entity.SurfacePrivate}, "me")
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Online)
	assert.Equal(t, "Ana Lima", rows[0].Party.Name)

	rows = Project(list, onlineSet{}, Filter{Surface: entity.SurfacePrivate}, "me")
	assert.False(t, rows[0].Online)
	assert.Equal(t, before, list)
}

func TestResolveDisplayParty(t *testing.T) {
	list := oneOfEach()

	assert.Equal(t, "u2", ResolveDisplayParty(&list[0], "me").ID)
	assert.Equal(t, "g1", ResolveDisplayParty(&list[1], "me").ID)
	assert.Equal(t, "s1", ResolveDisplayParty(&list[2], "me").ID)
	assert.Equal(t, "f1", ResolveDisplayParty(&list[3], "me").ID)
	assert.Equal(t, AIAssistant, ResolveDisplayParty(&list[4], "me"))

	incomplete := entity.Conversation{ID: "x", Kind: entity.KindPrivate, Participants: []entity.Party{{ID: "me"}}}
	assert.True(t, ResolveDisplayParty(&incomplete, "me").IsZero())

	noShop := entity.Conversation{ID: "y", Kind: entity.KindShop}
	assert.True(t, ResolveDisplayParty(&noShop, "me").IsZero())
}

func TestOpenParams(t *testing.T) {
	list := oneOfEach()
	p := OpenParams(&list[2], "me")
	assert.Equal(t, entity.OpenParams{
		Ref:            entity.Party{ID: "s1", Name: "Corner Shop"},
		Kind:           entity.KindShop,
		ConversationID: "s",
	}, p)
}
