package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionNeverNil(t *testing.T) {
	out := Collection([]int(nil), func(n int) Map { return Map{"n": n} })
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPage(t *testing.T) {
	items := Collection([]int{1, 2}, func(n int) Map { return Map{"n": n} })
	page := Page(items, 10, 20)
	assert.Equal(t, 2, page["count"])
	assert.Equal(t, 10, page["limit"])
	assert.Equal(t, 20, page["offset"])
	assert.Equal(t, Map{"n": 2}, page["items"].([]Map)[1])
}
