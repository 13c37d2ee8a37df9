package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetReplace(t *testing.T) {
	s := NewSet()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Online("u1"))

	s.Replace([]string{"u1", "u2", "u2", ""})
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Online("u1"))
	assert.True(t, s.Online("u2"))
	assert.False(t, s.Online(""))

	// a push is authoritative: ids missing from it go offline
	s.Replace([]string{"u9"})
	assert.Equal(t, []string{"u9"}, s.Snapshot())
	assert.False(t, s.Online("u1"))

	s.Replace(nil)
	assert.Empty(t, s.Snapshot())
}

func TestSetSnapshotSorted(t *testing.T) {
	s := NewSet()
	s.Replace([]string{"c", "a", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, s.Snapshot())
}
