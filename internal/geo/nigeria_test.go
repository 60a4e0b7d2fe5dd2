package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatesCount(t *testing.T) {
	// 36 states plus the FCT
	assert.Len(t, States, 37)
}

func TestLGAsByState(t *testing.T) {
	lgas := LGAsByState("Lagos")
	assert.Len(t, lgas, 20)
	assert.Equal(t, "Agege", lgas[0])

	assert.Empty(t, LGAsByState("Atlantis"))
	assert.Empty(t, LGAsByState(""))
}

func TestStateByNameCaseInsensitive(t *testing.T) {
	s, ok := StateByName("lagos")
	assert.True(t, ok)
	assert.Equal(t, "LA", s.Code)

	_, ok = StateByName("Lagos Island") // an LGA, not a state
	assert.False(t, ok)
}

func TestStateByCode(t *testing.T) {
	s, ok := StateByCode("fc")
	assert.True(t, ok)
	assert.Equal(t, "Federal Capital Territory", s.Name)

	assert.Equal(t, LGAsByState("Kano"), LGAsByCode("KN"))
	assert.Empty(t, LGAsByCode("XX"))
}
