package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHelpersNoopWithoutClient(t *testing.T) {
	ctx := context.Background()
	RDB = nil

	var dest map[string]any
	assert.False(t, Get(ctx, "k", &dest))
	assert.NoError(t, Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, Del(ctx, "k"))
	assert.NoError(t, Close())

	s := Store{TTL: time.Minute}
	assert.False(t, s.Get(ctx, "k", &dest))
	assert.NoError(t, s.Set(ctx, "k", 1))
	assert.NoError(t, s.Del(ctx))
}
