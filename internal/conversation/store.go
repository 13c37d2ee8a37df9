// Package conversation holds the recency-ordered conversation list of one
// screen and the rules for merging live events into it.
package conversation

import (
	"LiveInbox/entity"
	"sort"
)

// Store is an ordered list of conversations, most recent activity first,
// with at most one entry per conversation id. It is not safe for concurrent
// use; the owning screen serialises access.
type Store struct {
	items []*entity.Conversation
	index map[string]*entity.Conversation
}

func NewStore() *Store {
	return &Store{index: make(map[string]*entity.Conversation)}
}

// Replace drops the current contents and loads list. Entries without an id
// are skipped and repeated ids keep their first occurrence. The result is
// sorted by activity time; equal times keep the order of list.
func (s *Store) Replace(list []entity.Conversation) {
	items := make([]*entity.Conversation, 0, len(list))
	index := make(map[string]*entity.Conversation, len(list))
	for i := range list {
		if list[i].ID == "" {
			continue
		}
		if _, ok := index[list[i].ID]; ok {
			continue
		}
		c := list[i].Clone()
		items = append(items, &c)
		index[c.ID] = &c
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ActivityAt().After(items[j].ActivityAt())
	})

	s.items = items
	s.index = index
}

// List returns copies of the entries in store order.
func (s *Store) List() []entity.Conversation {
	out := make([]entity.Conversation, len(s.items))
	for i, c := range s.items {
		out[i] = c.Clone()
	}
	return out
}

func (s *Store) Get(id string) (entity.Conversation, bool) {
	c, ok := s.index[id]
	if !ok {
		return entity.Conversation{}, false
	}
	return c.Clone(), true
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Empty() bool {
	return len(s.items) == 0
}

// IDs returns the conversation ids in store order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.items))
	for i, c := range s.items {
		out[i] = c.ID
	}
	return out
}

// moveToFront shifts the entry with id to index 0 keeping the relative order
// of everything else. It reports false if the id is unknown.
func (s *Store) moveToFront(id string) bool {
	pos := -1
	for i, c := range s.items {
		if c.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	if pos == 0 {
		return true
	}
	c := s.items[pos]
	copy(s.items[1:pos+1], s.items[:pos])
	s.items[0] = c
	return true
}

// pushFront inserts a conversation whose id is not yet in the store.
func (s *Store) pushFront(c entity.Conversation) {
	entry := c.Clone()
	s.items = append(s.items, nil)
	copy(s.items[1:], s.items[:len(s.items)-1])
	s.items[0] = &entry
	s.index[entry.ID] = &entry
}
