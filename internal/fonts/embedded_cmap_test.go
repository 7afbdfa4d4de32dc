package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildReverseCmap_InvalidData(t *testing.T) {
	_, err := BuildReverseCmap([]byte("not a font"))
	assert.Error(t, err)
}

func TestBuildReverseCmap_EmptyData(t *testing.T) {
	_, err := BuildReverseCmap(nil)
	assert.Error(t, err)
}

func TestEmbeddedCMap_LookupNilSafe(t *testing.T) {
	var e *EmbeddedCMap
	r, ok := e.Lookup(65)
	assert.False(t, ok)
	assert.Equal(t, rune(0), r)
}

func TestEmbeddedCMap_LookupMiss(t *testing.T) {
	e := &EmbeddedCMap{}
	_, ok := e.Lookup(65)
	assert.False(t, ok, "a cmap with no recorded mappings should report every lookup as a miss")
}
