package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
	assert.Equal(t, "module", Module("x").Key)
	assert.Equal(t, "***", Secret("k", "abc").Value.String())
	assert.Equal(t, "se****en", Secret("k", "secret-token").Value.String())
}
