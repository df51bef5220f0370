package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSessionID(t *testing.T) {
	// When: two ids are generated
	first := GenerateSessionID()
	second := GenerateSessionID()

	// Then: they are URL-safe, of fixed length and differ
	assert.Len(t, first, 16)
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
	assert.NotEqual(t, first, second)
}
