package sky

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	var s Store
	assert.Zero(t, s.Generation())
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Snapshot())

	s.Set([]Star{{X: 0.1}, {X: 0.2}}, true)
	assert.Equal(t, uint64(1), s.Generation())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Fallback())

	s.Set([]Star{{X: 0.3}}, false)
	assert.Equal(t, uint64(2), s.Generation())
	assert.Equal(t, []Star{{X: 0.3}}, s.Snapshot())
	assert.False(t, s.Fallback())
}
